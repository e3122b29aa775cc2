package calculating

import (
	"math"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/pkg/utils"
)

// inLineMargin é a margem, em pontos percentuais, da faixa "dans la moyenne"
const inLineMargin = 5

// Classify compara uma taxa com a meta, ambas em pontos percentuais.
// Cinco pontos acima já conta como acima; cinco pontos abaixo já conta como abaixo.
func Classify(ratePct, benchPct float64) domain.Verdict {
	delta := utils.Finite(ratePct) - utils.Finite(benchPct)

	switch {
	case delta >= inLineMargin:
		return domain.VerdictAbove
	case math.Abs(delta) < inLineMargin:
		return domain.VerdictInLine
	default:
		return domain.VerdictBehind
	}
}

// ClassifyRatio divide a taxa pela média de referência e compara com os
// multiplicadores baixo/alto. Sem referência positiva não há selo.
func ClassifyRatio(value, reference float64, thresholds domain.Thresholds) domain.Verdict {
	if !utils.IsFinite(value) || !utils.IsFinite(reference) || reference <= 0 {
		return domain.VerdictUnavailable
	}

	ratio := value / reference

	switch {
	case ratio < thresholds.Low:
		return domain.VerdictLagging
	case ratio > thresholds.High:
		return domain.VerdictAbove
	default:
		return domain.VerdictInLine
	}
}
