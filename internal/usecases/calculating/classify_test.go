package calculating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/convbench/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		bench    float64
		expected domain.Verdict
	}{
		{name: "cinco pontos acima", rate: 35, bench: 30, expected: domain.VerdictAbove},
		{name: "bem acima", rate: 60, bench: 30, expected: domain.VerdictAbove},
		{name: "igual à referência", rate: 30, bench: 30, expected: domain.VerdictInLine},
		{name: "pouco acima", rate: 34.9, bench: 30, expected: domain.VerdictInLine},
		{name: "pouco abaixo", rate: 25.1, bench: 30, expected: domain.VerdictInLine},
		{name: "cinco pontos abaixo", rate: 25, bench: 30, expected: domain.VerdictBehind},
		{name: "seis pontos abaixo", rate: 24, bench: 30, expected: domain.VerdictBehind},
		{name: "sem referência", rate: 0, bench: 0, expected: domain.VerdictInLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.rate, tt.bench))
		})
	}
}

func TestClassify_Labels(t *testing.T) {
	assert.Equal(t, "Au-dessus", Classify(50, 20).Label)
	assert.Equal(t, domain.ToneGood, Classify(50, 20).Tone)
	assert.Equal(t, "Dans la moyenne", Classify(20, 20).Label)
	assert.Equal(t, "warn", Classify(20, 20).Tone.CSSClass())
	assert.Equal(t, "En dessous", Classify(0, 20).Label)
	assert.Equal(t, "bad", Classify(0, 20).Tone.CSSClass())
}

func TestClassifyRatio(t *testing.T) {
	thresholds := domain.Thresholds{Low: 0.9, High: 1.1}

	tests := []struct {
		name      string
		value     float64
		reference float64
		expected  domain.Verdict
	}{
		{name: "abaixo do limite baixo", value: 0.20, reference: 0.25, expected: domain.VerdictLagging},
		{name: "no limite baixo", value: 0.225, reference: 0.25, expected: domain.VerdictInLine},
		{name: "na média", value: 0.25, reference: 0.25, expected: domain.VerdictInLine},
		{name: "acima do limite alto", value: 0.30, reference: 0.25, expected: domain.VerdictAbove},
		{name: "referência zero", value: 0.30, reference: 0, expected: domain.VerdictUnavailable},
		{name: "referência negativa", value: 0.30, reference: -1, expected: domain.VerdictUnavailable},
		{name: "valor NaN", value: math.NaN(), reference: 0.25, expected: domain.VerdictUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyRatio(tt.value, tt.reference, thresholds))
		})
	}

	// mesma faixa do modo delta, rótulo diferente
	assert.Equal(t, "En retard", ClassifyRatio(0.1, 0.25, thresholds).Label)
	assert.Equal(t, domain.BandBehind, ClassifyRatio(0.1, 0.25, thresholds).Band)
}
