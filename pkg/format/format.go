// Package format escreve valores monetários e percentuais no padrão fr-FR.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/vfg2006/convbench/pkg/utils"
)

const nbsp = "\u00a0"

var printer = message.NewPrinter(language.French)

// EUR formata o valor em euros, sem casas decimais ("5 000 €").
// Valores não finitos são exibidos como zero.
func EUR(value float64) string {
	rounded := math.Round(utils.Finite(value))
	if rounded == 0 {
		rounded = 0 // evita "-0"
	}

	return printer.Sprint(number.Decimal(rounded, number.MaxFractionDigits(0))) + nbsp + "€"
}

// Percent formata uma fração com uma casa decimal (0.2 -> "20,0 %")
func Percent(fraction float64) string {
	pct := utils.Finite(fraction) * 100
	if pct == 0 {
		pct = 0
	}

	return printer.Sprint(number.Decimal(pct,
		number.MinFractionDigits(1),
		number.MaxFractionDigits(1),
	)) + nbsp + "%"
}

// WholePercent arredonda pontos percentuais para inteiro ("20%")
func WholePercent(pct float64) string {
	return Integer(pct) + "%"
}

// Integer arredonda para inteiro, sem separador de milhar ("10")
func Integer(value float64) string {
	return strconv.FormatFloat(math.Round(utils.Finite(value)), 'f', 0, 64)
}
