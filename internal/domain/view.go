package domain

// Placeholder é exibido nos campos de saída quando não há cálculo
const Placeholder = "—"

// RateView é o bloco de uma etapa do funil (barra, referência e selo)
type RateView struct {
	Rate       string  `json:"rate"`
	Summary    string  `json:"summary"`
	BarWidth   float64 `json:"bar_width"`   // largura da barra, 0-100
	BenchRate  string  `json:"bench_rate"`
	BenchWidth float64 `json:"bench_width"` // posição do marcador de referência, 0-100
	Verdict    Verdict `json:"verdict"`
}

// FunnelView contém tudo que é escrito nos espaços de exibição da página
type FunnelView struct {
	Fields           FormValues        `json:"fields"`
	Errors           FieldErrors       `json:"errors,omitempty"`
	Help             map[string]string `json:"help,omitempty"`
	Valid            bool              `json:"valid"`
	Sector           Sector            `json:"sector"`
	CustomVisible    bool              `json:"custom_visible"`
	ImprovementShown string            `json:"improvement_shown"`
	LeadToQuote      RateView          `json:"lead_to_quote"`
	QuoteToSignature RateView          `json:"quote_to_signature"`
	CurrentRevenue   string            `json:"current_revenue"`
	ProjectedRevenue string            `json:"projected_revenue"`
	RevenueGap       string            `json:"revenue_gap"`
	BoostedRate      string            `json:"boosted_rate"`
	CTAURL           string            `json:"cta_url"`
	Metrics          *FunnelMetrics    `json:"metrics,omitempty"`
	Sectors          []SectorPreset    `json:"sectors,omitempty"`
}
