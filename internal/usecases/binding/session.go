package binding

import (
	"github.com/pkg/errors"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/pkg/utils"
)

var ErrCorruptState = errors.New("corrupt stored state")

// CustomBench guarda o último par de referências digitado no setor "custom",
// como texto, para restaurar exatamente o que o usuário digitou
type CustomBench struct {
	LD string `json:"ld"`
	DS string `json:"ds"`
}

// Session é o estado do formulário de um visitante
type Session struct {
	Fields      domain.FormValues
	CustomBench *CustomBench
}

// Sector devolve o setor selecionado
func (s *Session) Sector() domain.Sector {
	return domain.Sector(s.Fields[domain.FieldSector])
}

func (s *Session) rememberCustom() {
	s.CustomBench = &CustomBench{
		LD: s.Fields[domain.FieldBenchLD],
		DS: s.Fields[domain.FieldBenchDS],
	}
}

// storedState é o envelope salvo sob a chave versionada
type storedState struct {
	Fields      map[string]string `json:"fields"`
	CustomBench *CustomBench      `json:"customBench,omitempty"`
}

func encodeState(s *Session) (string, error) {
	fields := make(map[string]string, len(domain.FieldIDs))
	for _, id := range domain.FieldIDs {
		if v, ok := s.Fields[id]; ok {
			fields[id] = v
		}
	}

	data, err := json.Marshal(storedState{Fields: fields, CustomBench: s.CustomBench})
	if err != nil {
		return "", errors.Wrap(err, "encoding state")
	}

	return string(data), nil
}

// decodeState aceita o envelope {fields, customBench} e também o formato
// antigo, um mapa simples de id do campo para valor
func decodeState(raw string) (*Session, error) {
	var top map[string]any
	if err := json.Unmarshal([]byte(raw), &top); err != nil {
		return nil, errors.Wrap(err, "decoding stored state")
	}
	if top == nil {
		return nil, errors.Wrap(ErrCorruptState, "empty document")
	}

	source := top
	session := &Session{Fields: domain.FormValues{}}

	if envelope, ok := top["fields"].(map[string]any); ok {
		source = envelope

		switch cb := top["customBench"].(type) {
		case nil:
		case map[string]any:
			ld, err := stringValue(cb["ld"])
			if err != nil {
				return nil, errors.Wrap(err, "customBench.ld")
			}
			ds, err := stringValue(cb["ds"])
			if err != nil {
				return nil, errors.Wrap(err, "customBench.ds")
			}
			session.CustomBench = &CustomBench{LD: ld, DS: ds}
		default:
			return nil, errors.Wrap(ErrCorruptState, "customBench is not an object")
		}
	}

	for _, id := range domain.FieldIDs {
		v, ok := source[id]
		if !ok || v == nil {
			continue
		}
		value, err := stringValue(v)
		if err != nil {
			return nil, errors.Wrap(err, id)
		}
		session.Fields[id] = value
	}

	return session, nil
}

func stringValue(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return utils.FormatNumber(t), nil
	default:
		return "", errors.Wrapf(ErrCorruptState, "unexpected value %v", v)
	}
}
