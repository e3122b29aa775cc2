package calculating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/convbench/internal/domain"
)

func TestCompute_ReferenceExample(t *testing.T) {
	metrics := Compute(domain.FunnelInput{
		LeadsPerMonth:      100,
		QuotesPerMonth:     20,
		SignaturesPerMonth: 5,
		AverageBasket:      1000,
		ImprovementPercent: 10,
	})

	assert.InDelta(t, 0.20, metrics.LeadToQuoteRate, 1e-9)
	assert.InDelta(t, 0.25, metrics.QuoteToSignatureRate, 1e-9)
	assert.InDelta(t, 5000.0, metrics.CurrentRevenue, 1e-9)
	assert.InDelta(t, 0.35, metrics.BoostedRate, 1e-9)
	assert.InDelta(t, 7000.0, metrics.ProjectedRevenue, 1e-6)
	assert.InDelta(t, 2000.0, metrics.RevenueGap, 1e-6)
	assert.Equal(t, 7, metrics.ProjectedSignatures)
}

func TestCompute_Rates(t *testing.T) {
	tests := []struct {
		name             string
		leads            float64
		quotes           float64
		signatures       float64
		leadToQuote      float64
		quoteToSignature float64
	}{
		{name: "sem leads", leads: 0, quotes: 10, signatures: 2, leadToQuote: 0, quoteToSignature: 0.2},
		{name: "sem devis", leads: 50, quotes: 0, signatures: 0, leadToQuote: 0, quoteToSignature: 0},
		{name: "tudo zero", leads: 0, quotes: 0, signatures: 0, leadToQuote: 0, quoteToSignature: 0},
		{name: "conversão total", leads: 40, quotes: 40, signatures: 40, leadToQuote: 1, quoteToSignature: 1},
		{name: "frações", leads: 3, quotes: 1, signatures: 1, leadToQuote: 1.0 / 3, quoteToSignature: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compute(domain.FunnelInput{
				LeadsPerMonth:      tt.leads,
				QuotesPerMonth:     tt.quotes,
				SignaturesPerMonth: tt.signatures,
			})
			assert.InDelta(t, tt.leadToQuote, m.LeadToQuoteRate, 1e-12)
			assert.InDelta(t, tt.quoteToSignature, m.QuoteToSignatureRate, 1e-12)
		})
	}
}

func TestCompute_BoostedRateIsClamped(t *testing.T) {
	tests := []struct {
		name        string
		improvement float64
		expected    float64
	}{
		{name: "melhoria acima de 100", improvement: 150, expected: 1},
		{name: "melhoria exatamente no limite", improvement: 75, expected: 1},
		{name: "melhoria negativa grande", improvement: -500, expected: 0},
		{name: "sem melhoria", improvement: 0, expected: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compute(domain.FunnelInput{
				LeadsPerMonth:      100,
				QuotesPerMonth:     20,
				SignaturesPerMonth: 5,
				AverageBasket:      1000,
				ImprovementPercent: tt.improvement,
			})
			assert.InDelta(t, tt.expected, m.BoostedRate, 1e-12)
			assert.GreaterOrEqual(t, m.BoostedRate, 0.0)
			assert.LessOrEqual(t, m.BoostedRate, 1.0)
		})
	}
}

func TestCompute_RevenueGapNeverNegative(t *testing.T) {
	inputs := []domain.FunnelInput{
		{QuotesPerMonth: 20, SignaturesPerMonth: 5, AverageBasket: 1000, ImprovementPercent: -50},
		{QuotesPerMonth: 10, SignaturesPerMonth: 30, AverageBasket: 200, ImprovementPercent: 10},
		{QuotesPerMonth: 1, SignaturesPerMonth: 1, AverageBasket: math.MaxFloat64, ImprovementPercent: 10},
		{QuotesPerMonth: math.Inf(1), SignaturesPerMonth: math.NaN(), AverageBasket: 10},
	}

	for _, in := range inputs {
		m := Compute(in)
		assert.GreaterOrEqual(t, m.RevenueGap, 0.0)
		assert.False(t, math.IsNaN(m.RevenueGap))
	}
}

func TestCompute_NonFiniteInputsAreZero(t *testing.T) {
	m := Compute(domain.FunnelInput{
		LeadsPerMonth:      math.NaN(),
		QuotesPerMonth:     math.Inf(1),
		SignaturesPerMonth: 3,
		AverageBasket:      100,
		ImprovementPercent: math.NaN(),
	})

	require.Equal(t, 0.0, m.LeadToQuoteRate)
	require.Equal(t, 0.0, m.QuoteToSignatureRate)
	assert.Equal(t, 300.0, m.CurrentRevenue)
	assert.Equal(t, 0.0, m.ProjectedRevenue)
	assert.Equal(t, 0.0, m.RevenueGap)
}

func TestCompute_HugeInputsStayBounded(t *testing.T) {
	metrics := NewService(ModeLenient).Evaluate(domain.FormValues{
		domain.FieldLeads:       "1e300",
		domain.FieldQuotes:      "1e300",
		domain.FieldSignatures:  "1e299",
		domain.FieldBasket:      "10",
		domain.FieldImprovement: "10",
	}).Metrics
	require.NotNil(t, metrics)

	assert.Equal(t, math.MaxInt, metrics.ProjectedSignatures)
	assert.InDelta(t, 2e300, metrics.ProjectedRevenue, 1e286)
	assert.InDelta(t, 1e300, metrics.RevenueGap, 1e286)

	overflow := Compute(domain.FunnelInput{
		QuotesPerMonth:     1e300,
		SignaturesPerMonth: 1e300,
		AverageBasket:      1e300,
	})
	assert.Equal(t, math.MaxFloat64, overflow.CurrentRevenue)
	assert.Equal(t, math.MaxFloat64, overflow.ProjectedRevenue)
	assert.False(t, math.IsInf(overflow.RevenueGap, 0))
}

func TestRoundCount(t *testing.T) {
	assert.Equal(t, 0, roundCount(-3))
	assert.Equal(t, 0, roundCount(math.NaN()))
	assert.Equal(t, 7, roundCount(6.5))
	assert.Equal(t, math.MaxInt, roundCount(9.3e18))
}
