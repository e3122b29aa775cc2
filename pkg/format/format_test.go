package format

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// compact remove separadores de milhar para comparar independente da versão do CLDR
func compact(s string) string {
	return strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
}

func TestEUR(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "milhares", value: 5000, expected: "5000€"},
		{name: "zero", value: 0, expected: "0€"},
		{name: "arredonda", value: 1999.6, expected: "2000€"},
		{name: "negativo pequeno vira zero", value: -0.2, expected: "0€"},
		{name: "NaN", value: math.NaN(), expected: "0€"},
		{name: "infinito", value: math.Inf(1), expected: "0€"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, compact(EUR(tt.value)))
		})
	}
}

func TestEURUsesNonBreakingSpaceBeforeSymbol(t *testing.T) {
	assert.True(t, strings.HasSuffix(EUR(12), "\u00a0€"))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "20,0%", compact(Percent(0.2)))
	assert.Equal(t, "33,3%", compact(Percent(1.0/3)))
	assert.Equal(t, "0,0%", compact(Percent(0)))
	assert.Equal(t, "0,0%", compact(Percent(math.NaN())))
	assert.Equal(t, "100,0%", compact(Percent(1)))
}

func TestWholePercent(t *testing.T) {
	assert.Equal(t, "20%", WholePercent(20))
	assert.Equal(t, "34%", WholePercent(33.6))
	assert.Equal(t, "0%", WholePercent(math.Inf(-1)))
}

func TestInteger(t *testing.T) {
	assert.Equal(t, "10", Integer(10))
	assert.Equal(t, "13", Integer(12.5))
	assert.Equal(t, "0", Integer(math.NaN()))
}
