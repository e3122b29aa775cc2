package domain

// Band é a faixa de desempenho de uma taxa frente à referência
type Band string

const (
	BandAbove       Band = "above"
	BandInLine      Band = "in_line"
	BandBehind      Band = "behind"
	BandUnavailable Band = "unavailable"
)

// Tone é o atributo visual do selo
type Tone string

const (
	ToneGood  Tone = "good"
	ToneMid   Tone = "mid"
	ToneBad   Tone = "bad"
	ToneMuted Tone = "muted"
)

// CSSClass devolve a classe usada pelo selo (pill) na página
func (t Tone) CSSClass() string {
	switch t {
	case ToneGood:
		return "ok"
	case ToneMid:
		return "warn"
	case ToneBad:
		return "bad"
	default:
		return "muted"
	}
}

// Verdict é o selo exibido ao lado de cada taxa.
// No modo por razão a faixa "abaixo" usa VerdictLagging ("En retard").
type Verdict struct {
	Band  Band   `json:"band"`
	Label string `json:"label"`
	Tone  Tone   `json:"tone"`
}

var (
	VerdictAbove       = Verdict{Band: BandAbove, Label: "Au-dessus", Tone: ToneGood}
	VerdictInLine      = Verdict{Band: BandInLine, Label: "Dans la moyenne", Tone: ToneMid}
	VerdictBehind      = Verdict{Band: BandBehind, Label: "En dessous", Tone: ToneBad}
	VerdictLagging     = Verdict{Band: BandBehind, Label: "En retard", Tone: ToneBad}
	VerdictUnavailable = Verdict{Band: BandUnavailable, Label: "Non disponible", Tone: ToneMuted}
)
