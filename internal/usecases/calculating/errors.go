package calculating

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/pkg/apiErrors"
)

// Erros específicos do motor de métricas
var (
	ErrInvalidInput          = errors.New("invalid funnel input")
	ErrUnknownValidationMode = errors.New("unknown validation mode")
)

// Mensagens de validação exibidas abaixo de cada campo
const (
	msgNotANumber         = "Veuillez saisir un nombre valide."
	msgLeadsNegative      = "Le nombre de leads doit être supérieur ou égal à 0."
	msgQuotesNegative     = "Le nombre de devis doit être supérieur ou égal à 0."
	msgSignaturesNegative = "Les signatures doivent être supérieures ou égales à 0."
	msgSignaturesOverflow = "Les signatures ne peuvent pas dépasser les devis."
	msgBasketNegative     = "Le panier moyen doit être positif."
	msgImprovementRange   = "L'amélioration doit être comprise entre 0 et 100 %."
	msgBenchmarkRange     = "La référence doit être comprise entre 0 et 100 %."
)

// ValidationError carrega as mensagens por campo de uma entrada rejeitada
type ValidationError struct {
	Err    error              // Erro base
	Code   string             // Código de erro para API
	Fields domain.FieldErrors // Mensagem por campo
}

// Error implementa a interface error
func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return fmt.Sprintf("%s: %s", e.Err.Error(), strings.Join(keys, ", "))
}

// Unwrap retorna o erro subjacente
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError cria um ValidationError com o código de formato inválido
func NewValidationError(fields domain.FieldErrors) *ValidationError {
	return &ValidationError{
		Err:    ErrInvalidInput,
		Code:   apiErrors.ErrInvalidFormat,
		Fields: fields,
	}
}
