package domain

// Identificadores dos campos do formulário. Os valores são os mesmos usados
// na chave de armazenamento, portanto não podem mudar sem trocar a versão.
const (
	FieldLeads       = "leads"
	FieldQuotes      = "devis"
	FieldSignatures  = "signatures"
	FieldBasket      = "panier"
	FieldImprovement = "improv"
	FieldSector      = "secteur"
	FieldBenchLD     = "benchLD"
	FieldBenchDS     = "benchDS"
)

// FieldIDs lista os campos na ordem em que são salvos e exibidos
var FieldIDs = []string{
	FieldLeads,
	FieldQuotes,
	FieldSignatures,
	FieldBasket,
	FieldImprovement,
	FieldSector,
	FieldBenchLD,
	FieldBenchDS,
}

// NumericFieldIDs são os campos lidos como números pelo motor de métricas
var NumericFieldIDs = []string{
	FieldLeads,
	FieldQuotes,
	FieldSignatures,
	FieldBasket,
	FieldImprovement,
	FieldBenchLD,
	FieldBenchDS,
}

// IsField indica se o id pertence ao formulário
func IsField(id string) bool {
	for _, f := range FieldIDs {
		if f == id {
			return true
		}
	}
	return false
}

// FormValues guarda os valores crus dos campos, como digitados
type FormValues map[string]string

// Clone devolve uma cópia independente dos valores
func (f FormValues) Clone() FormValues {
	out := make(FormValues, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// BenchmarkPair são as taxas de referência em pontos percentuais (0-100)
type BenchmarkPair struct {
	LeadToQuote      float64 `json:"ld" yaml:"lead_to_quote"`
	QuoteToSignature float64 `json:"ds" yaml:"quote_to_signature"`
}

// FunnelInput é a entrada numérica do funil de vendas de um mês
type FunnelInput struct {
	LeadsPerMonth      float64       `json:"leads_per_month"`
	QuotesPerMonth     float64       `json:"quotes_per_month"`
	SignaturesPerMonth float64       `json:"signatures_per_month"`
	AverageBasket      float64       `json:"average_basket"`
	ImprovementPercent float64       `json:"improvement_percent"`
	Sector             Sector        `json:"sector"`
	Benchmark          BenchmarkPair `json:"benchmark"`
}

// FunnelMetrics são os valores derivados de um FunnelInput.
// As taxas são frações (0.25 = 25%).
type FunnelMetrics struct {
	LeadToQuoteRate      float64 `json:"lead_to_quote_rate"`
	QuoteToSignatureRate float64 `json:"quote_to_signature_rate"`
	CurrentRevenue       float64 `json:"current_revenue"`
	BoostedRate          float64 `json:"boosted_rate"`
	ProjectedSignatures  int     `json:"projected_signatures"`
	ProjectedRevenue     float64 `json:"projected_revenue"`
	RevenueGap           float64 `json:"revenue_gap"`
}

// FieldErrors mapeia o id do campo para a mensagem de validação
type FieldErrors map[string]string

// Evaluation é o resultado de uma avaliação do formulário.
// Metrics é nil quando a validação estrita rejeitou a entrada.
type Evaluation struct {
	Input   FunnelInput    `json:"input"`
	Metrics *FunnelMetrics `json:"metrics,omitempty"`
	Errors  FieldErrors    `json:"errors,omitempty"`
}

// Valid indica se a avaliação produziu métricas
func (e *Evaluation) Valid() bool {
	return e != nil && e.Metrics != nil
}
