package calculating

import (
	"fmt"
	"strings"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/pkg/log"
	"github.com/vfg2006/convbench/pkg/utils"
)

// ValidationMode define o tratamento de entradas inválidas
type ValidationMode string

const (
	// ModeStrict rejeita a entrada com mensagens por campo e não calcula
	ModeStrict ValidationMode = "strict"
	// ModeLenient converte entradas inválidas em zero e sempre calcula
	ModeLenient ValidationMode = "lenient"
)

// ParseValidationMode converte o valor da configuração
func ParseValidationMode(value string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeStrict:
		return ModeStrict, nil
	case ModeLenient, "":
		return ModeLenient, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownValidationMode, value)
	}
}

type Calculator interface {
	// Evaluate lê os valores crus do formulário, valida e calcula as métricas
	Evaluate(form domain.FormValues) *domain.Evaluation
	// Mode retorna o modo de validação em uso
	Mode() ValidationMode
}

type Service struct {
	mode ValidationMode
}

func NewService(mode ValidationMode) Calculator {
	if mode != ModeStrict {
		mode = ModeLenient
	}

	return &Service{mode: mode}
}

func (s *Service) Mode() ValidationMode {
	return s.mode
}

func (s *Service) Evaluate(form domain.FormValues) *domain.Evaluation {
	input, errs := s.readInput(form)

	if len(errs) > 0 {
		log.L.WithFields(log.Fields{
			"funnel_mode":   string(s.mode),
			"funnel_fields": len(errs),
		}).Debug("funnel: input rejected by strict validation")

		return &domain.Evaluation{Input: input, Errors: errs}
	}

	metrics := Compute(input)
	return &domain.Evaluation{Input: input, Metrics: &metrics}
}

// Validate aplica as regras do modo estrito e devolve um ValidationError
// quando algum campo é rejeitado
func Validate(form domain.FormValues) error {
	_, errs := readStrict(form)
	if len(errs) > 0 {
		return NewValidationError(errs)
	}
	return nil
}

func (s *Service) readInput(form domain.FormValues) (domain.FunnelInput, domain.FieldErrors) {
	if s.mode == ModeStrict {
		return readStrict(form)
	}
	return readLenient(form), nil
}

// readLenient segue a versão tolerante: tudo que não é número vira zero,
// contagens negativas viram zero e as signatures não passam dos devis
func readLenient(form domain.FormValues) domain.FunnelInput {
	num := func(id string) float64 {
		v, _ := utils.ParseNumber(form[id])
		return v
	}

	quotes := maxZero(num(domain.FieldQuotes))

	return domain.FunnelInput{
		LeadsPerMonth:      maxZero(num(domain.FieldLeads)),
		QuotesPerMonth:     quotes,
		SignaturesPerMonth: utils.Clamp(num(domain.FieldSignatures), 0, quotes),
		AverageBasket:      maxZero(num(domain.FieldBasket)),
		ImprovementPercent: num(domain.FieldImprovement),
		Sector:             domain.Sector(form[domain.FieldSector]),
		Benchmark: domain.BenchmarkPair{
			LeadToQuote:      num(domain.FieldBenchLD),
			QuoteToSignature: num(domain.FieldBenchDS),
		},
	}
}

func readStrict(form domain.FormValues) (domain.FunnelInput, domain.FieldErrors) {
	errs := domain.FieldErrors{}
	values := make(map[string]float64, len(domain.NumericFieldIDs))

	for _, id := range domain.NumericFieldIDs {
		v, ok := utils.ParseNumber(form[id])
		if !ok {
			errs[id] = msgNotANumber
			continue
		}
		values[id] = v
	}

	negative := map[string]string{
		domain.FieldLeads:      msgLeadsNegative,
		domain.FieldQuotes:     msgQuotesNegative,
		domain.FieldSignatures: msgSignaturesNegative,
		domain.FieldBasket:     msgBasketNegative,
	}
	for id, msg := range negative {
		if _, failed := errs[id]; !failed && values[id] < 0 {
			errs[id] = msg
		}
	}

	_, quotesFailed := errs[domain.FieldQuotes]
	_, signaturesFailed := errs[domain.FieldSignatures]
	if !quotesFailed && !signaturesFailed && values[domain.FieldSignatures] > values[domain.FieldQuotes] {
		errs[domain.FieldSignatures] = msgSignaturesOverflow
	}

	if _, failed := errs[domain.FieldImprovement]; !failed && outOfPercentRange(values[domain.FieldImprovement]) {
		errs[domain.FieldImprovement] = msgImprovementRange
	}
	for _, id := range []string{domain.FieldBenchLD, domain.FieldBenchDS} {
		if _, failed := errs[id]; !failed && outOfPercentRange(values[id]) {
			errs[id] = msgBenchmarkRange
		}
	}

	input := domain.FunnelInput{
		LeadsPerMonth:      values[domain.FieldLeads],
		QuotesPerMonth:     values[domain.FieldQuotes],
		SignaturesPerMonth: values[domain.FieldSignatures],
		AverageBasket:      values[domain.FieldBasket],
		ImprovementPercent: values[domain.FieldImprovement],
		Sector:             domain.Sector(form[domain.FieldSector]),
		Benchmark: domain.BenchmarkPair{
			LeadToQuote:      values[domain.FieldBenchLD],
			QuoteToSignature: values[domain.FieldBenchDS],
		},
	}

	if len(errs) == 0 {
		return input, nil
	}
	return input, errs
}

func maxZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func outOfPercentRange(v float64) bool {
	return v < 0 || v > 100
}
