package calculating

import (
	"math"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/pkg/utils"
)

// Compute calcula as métricas do funil. Entradas não finitas valem zero.
//
// A melhoria é somada em pontos percentuais à taxa devis -> signature
// e o resultado é limitado a [0, 1].
func Compute(in domain.FunnelInput) domain.FunnelMetrics {
	leads := utils.Finite(in.LeadsPerMonth)
	quotes := utils.Finite(in.QuotesPerMonth)
	signatures := utils.Finite(in.SignaturesPerMonth)
	basket := utils.Finite(in.AverageBasket)
	improvement := utils.Finite(in.ImprovementPercent)

	var leadToQuote, quoteToSignature float64
	if leads > 0 {
		leadToQuote = quotes / leads
	}
	if quotes > 0 {
		quoteToSignature = signatures / quotes
	}

	current := capFinite(signatures * basket)
	boosted := utils.Clamp(quoteToSignature+improvement/100, 0, 1)
	projected := capFinite(quotes * boosted * basket)
	gap := math.Max(utils.Finite(projected-current), 0)

	return domain.FunnelMetrics{
		LeadToQuoteRate:      leadToQuote,
		QuoteToSignatureRate: quoteToSignature,
		CurrentRevenue:       current,
		BoostedRate:          boosted,
		ProjectedSignatures:  roundCount(quotes * boosted),
		ProjectedRevenue:     projected,
		RevenueGap:           gap,
	}
}

// capFinite limita produtos que estouram para +Inf ao maior float64
func capFinite(f float64) float64 {
	if math.IsInf(f, 1) {
		return math.MaxFloat64
	}
	return utils.Finite(f)
}

// roundCount arredonda para int dentro de [0, MaxInt]
func roundCount(f float64) int {
	rounded := math.Round(utils.Finite(f))
	switch {
	case rounded <= 0:
		return 0
	case rounded >= math.MaxInt:
		return math.MaxInt
	default:
		return int(rounded)
	}
}
