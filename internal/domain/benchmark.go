package domain

// Sector é a chave de um setor do catálogo, ou "custom"
type Sector string

const SectorCustom Sector = "custom"

// IsCustom indica se as referências são digitadas pelo usuário
func (s Sector) IsCustom() bool {
	return s == SectorCustom
}

// SectorPreset associa um setor às taxas de referência fixas
type SectorPreset struct {
	Key   Sector        `json:"key" yaml:"key"`
	Label string        `json:"label" yaml:"label"`
	Rates BenchmarkPair `json:"rates" yaml:"rates"`
}

// Thresholds são os multiplicadores usados na classificação por razão
type Thresholds struct {
	Low  float64 `json:"low" yaml:"low"`
	High float64 `json:"high" yaml:"high"`
}

// BatchAverages são médias observadas, em frações (0.25 = 25%)
type BatchAverages struct {
	LeadToQuote      float64 `json:"lead_to_quote" yaml:"lead_to_quote"`
	QuoteToSignature float64 `json:"quote_to_signature" yaml:"quote_to_signature"`
}

// BenchmarkMode define como as referências são comparadas com as taxas
type BenchmarkMode string

const (
	// BenchmarkModeDelta compara em pontos percentuais contra uma meta
	BenchmarkModeDelta BenchmarkMode = "delta"
	// BenchmarkModeRatio divide a taxa pela média do lote
	BenchmarkModeRatio BenchmarkMode = "ratio"
)
