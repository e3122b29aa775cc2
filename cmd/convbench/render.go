package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/internal/usecases/binding"
	"github.com/vfg2006/convbench/pkg/utils"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Width(22)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0392B"))
	gapStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C0392B"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	badgeStyles = map[domain.Tone]lipgloss.Style{
		domain.ToneGood:  badge("#17683C", "#D4F4E2"),
		domain.ToneMid:   badge("#8A5A00", "#FDF1D2"),
		domain.ToneBad:   badge("#8E1F1F", "#FBDCDC"),
		domain.ToneMuted: badge("#5B6577", "#ECEEF2"),
	}
)

func badge(fg, bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg)).
		Padding(0, 1)
}

func (a *app) render(cmd *cobra.Command, session *binding.Session) error {
	view := a.binder.Render(cmd.Context(), session)

	if a.format == formatJSON {
		view.Sectors = nil
		out, err := utils.PrettyJson(view)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), renderView(view))
	return err
}

func (a *app) renderSectors(cmd *cobra.Command) error {
	sectors := a.binder.Sectors()

	if a.format == formatJSON {
		out, err := utils.PrettyJson(sectors)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	}

	lines := []string{titleStyle.Render("Secteurs")}
	for _, s := range sectors {
		lines = append(lines, fmt.Sprintf("%s %s leads → devis %s%%  •  devis → signature %s%%",
			labelStyle.Render(string(s.Key)),
			mutedStyle.Render(s.Label),
			utils.FormatNumber(s.Rates.LeadToQuote),
			utils.FormatNumber(s.Rates.QuoteToSignature),
		))
	}
	lines = append(lines, mutedStyle.Render("custom : références saisies avec --bench-ld et --bench-ds"))

	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return err
}

func renderView(view *domain.FunnelView) string {
	inputs := []string{titleStyle.Render("Vos chiffres")}
	for _, id := range domain.NumericFieldIDs {
		if (id == domain.FieldBenchLD || id == domain.FieldBenchDS) && !view.CustomVisible {
			continue
		}

		value := view.Fields[id]
		if value == "" {
			value = mutedStyle.Render("(vide)")
		}
		line := labelStyle.Render(id) + value
		if msg, ok := view.Errors[id]; ok {
			line += "  " + errorStyle.Render(msg)
		}
		inputs = append(inputs, line)
	}
	inputs = append(inputs, labelStyle.Render("secteur")+string(view.Sector))

	rates := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Conversion"),
		renderRate("Leads → devis", view.LeadToQuote),
		"",
		renderRate("Devis → signature", view.QuoteToSignature),
	)

	revenue := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Chiffre d'affaires"),
		labelStyle.Render("Actuel")+view.CurrentRevenue,
		labelStyle.Render(fmt.Sprintf("Avec +%s points", view.ImprovementShown))+view.ProjectedRevenue,
		labelStyle.Render("Taux visé")+view.BoostedRate,
		labelStyle.Render("Manque à gagner")+gapStyle.Render(view.RevenueGap),
		"",
		mutedStyle.Render("Diagnostic : ")+view.CTAURL,
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(strings.Join(inputs, "\n")),
		panelStyle.Render(rates),
		panelStyle.Render(revenue),
	)
}

func renderRate(title string, rate domain.RateView) string {
	style, ok := badgeStyles[rate.Verdict.Tone]
	if !ok {
		style = badgeStyles[domain.ToneMuted]
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(title)+rate.Rate+"  "+style.Render(rate.Verdict.Label),
		bar(rate.BarWidth, rate.BenchWidth),
		mutedStyle.Render(rate.Summary),
	)
}

// bar desenha a taxa preenchida e o marcador da referência, ambos em 0-100
func bar(value, marker float64) string {
	filled := int(math.Round(utils.Clamp(value, 0, 100) / 100 * barWidth))
	target := int(math.Round(utils.Clamp(marker, 0, 100) / 100 * barWidth))
	if target >= barWidth {
		target = barWidth - 1
	}

	cells := make([]rune, barWidth)
	for i := range cells {
		switch {
		case i == target:
			cells[i] = '│'
		case i < filled:
			cells[i] = '█'
		default:
			cells[i] = '░'
		}
	}
	return string(cells)
}
