package utils

import (
	"math"
	"strconv"
	"strings"
)

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 || !IsFinite(f) {
		return 0
	}
	// acima de 2^52 não há casas decimais e f*100 pode estourar
	if math.Abs(f) >= 1<<52 {
		return f
	}

	return math.Round(f*100) / 100
}

// IsFinite indica se o valor não é NaN nem infinito
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Finite troca valores não finitos por zero
func Finite(f float64) float64 {
	if !IsFinite(f) {
		return 0
	}
	return f
}

// Clamp limita o valor ao intervalo [min, max]. Valores não finitos viram min.
func Clamp(value, min, max float64) float64 {
	if !IsFinite(value) {
		return min
	}
	return math.Min(math.Max(value, min), max)
}

// ParseNumber lê um número digitado em um campo de formulário.
// Campo vazio vale zero. Aceita vírgula decimal e espaços como separador de milhar.
func ParseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, true
	}

	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !IsFinite(f) {
		return 0, false
	}

	return f, true
}

// FormatNumber escreve o número sem zeros à direita (100, 12.5)
func FormatNumber(f float64) string {
	return strconv.FormatFloat(Finite(f), 'f', -1, 64)
}
