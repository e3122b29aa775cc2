package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/julienschmidt/httprouter"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/internal/usecases/binding"
	"github.com/vfg2006/convbench/pkg/apiErrors"
	"github.com/vfg2006/convbench/pkg/log"
	"github.com/vfg2006/convbench/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 64 << 10

type EvaluateRequest struct {
	Fields      domain.FormValues    `json:"fields"`
	CustomBench *binding.CustomBench `json:"customBench,omitempty"`
}

// EvaluateFunnel calcula o funil a partir de um formulário em JSON, sem estado
func EvaluateFunnel(binder binding.Binder, metrics *middleware.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.ForContext(ctx)

		var req EvaluateRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WithError(err).Warn("Corpo da requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Corps de requête invalide", nil)
			return
		}

		if req.Fields == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Le champ fields est obligatoire", nil)
			return
		}

		session := binder.NewSession()
		session.CustomBench = req.CustomBench
		binder.SetFields(session, req.Fields)

		// referências enviadas em fields valem mais que o customBench
		if session.Sector().IsCustom() {
			for _, id := range []string{domain.FieldBenchLD, domain.FieldBenchDS} {
				if value, ok := req.Fields[id]; ok {
					binder.SetField(session, id, value)
				}
			}
		}

		view := binder.Render(ctx, session)
		view.Sectors = nil
		observeEvaluation(metrics, "api", view.Valid)

		logger.WithFields(log.Fields{
			"funnel_sector": string(view.Sector),
			"funnel_valid":  view.Valid,
		}).Debug("funnel: evaluated through API")

		writeJSON(w, r, http.StatusOK, view)
	})
}

type sectorsResponse struct {
	Sectors []domain.SectorPreset `json:"sectors"`
	Custom  domain.Sector         `json:"custom"`
}

// ListSectors devolve os setores do catálogo
func ListSectors(binder binding.Binder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, sectorsResponse{
			Sectors: binder.Sectors(),
			Custom:  domain.SectorCustom,
		})
	})
}

// GetSector devolve um setor do catálogo pela chave
func GetSector(binder binding.Binder) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := domain.Sector(httprouter.ParamsFromContext(r.Context()).ByName("key"))

		for _, preset := range binder.Sectors() {
			if preset.Key == key {
				writeJSON(w, r, http.StatusOK, preset)
				return
			}
		}

		apiErrors.WriteError(w, apiErrors.ErrUnknownSector, "Secteur inconnu", map[string]string{"key": string(key)})
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao codificar resposta")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao codificar resposta", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
