package binding

import (
	"context"
	"fmt"
	"math"
	"net/url"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/vfg2006/convbench/infrastructure/catalog"
	"github.com/vfg2006/convbench/infrastructure/repository"
	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/internal/usecases/calculating"
	"github.com/vfg2006/convbench/pkg/format"
	"github.com/vfg2006/convbench/pkg/log"
	"github.com/vfg2006/convbench/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Textos de ajuda exibidos quando o campo não tem erro
var defaultHelp = map[string]string{
	domain.FieldLeads:       "Contacts entrants sur un mois.",
	domain.FieldQuotes:      "Devis envoyés sur un mois.",
	domain.FieldSignatures:  "Affaires signées sur un mois.",
	domain.FieldBasket:      "Montant moyen d'une affaire signée, en euros.",
	domain.FieldImprovement: "Points de conversion devis → signature à gagner.",
	domain.FieldBenchLD:     "Taux de référence leads → devis, en %.",
	domain.FieldBenchDS:     "Taux de référence devis → signature, en %.",
}

type Options struct {
	StorageKey         string
	CTABaseURL         string
	DefaultImprovement float64
	BenchmarkMode      domain.BenchmarkMode
}

type Binder interface {
	// NewSession cria um formulário com os valores padrão
	NewSession() *Session
	// Restore lê o estado salvo; ausente ou corrompido resulta nos valores padrão
	Restore(ctx context.Context, repo repository.StateRepository) *Session
	// SetField aplica um evento de digitação em um campo
	SetField(session *Session, id string, value string)
	// SetFields aplica um formulário inteiro; o setor é aplicado por último
	SetFields(session *Session, values domain.FormValues)
	// SelectSector troca o setor, lembrando as referências personalizadas
	SelectSector(session *Session, sector domain.Sector)
	// Reset volta o formulário aos valores padrão
	Reset(session *Session)
	// Persist salva o estado; falhas são registradas e não interrompem o fluxo
	Persist(ctx context.Context, session *Session, repo repository.StateRepository) error
	// Render calcula as métricas e preenche os espaços de exibição
	Render(ctx context.Context, session *Session) *domain.FunnelView
	// Sectors lista os setores do catálogo
	Sectors() []domain.SectorPreset
}

type Service struct {
	calculator calculating.Calculator
	catalog    *catalog.Catalog
	opts       Options
}

func NewService(calculator calculating.Calculator, catalog *catalog.Catalog, opts Options) Binder {
	if opts.BenchmarkMode == "" {
		opts.BenchmarkMode = domain.BenchmarkModeDelta
	}

	return &Service{
		calculator: calculator,
		catalog:    catalog,
		opts:       opts,
	}
}

func (s *Service) Sectors() []domain.SectorPreset {
	return s.catalog.Sectors
}

func (s *Service) NewSession() *Session {
	session := &Session{
		Fields: domain.FormValues{
			domain.FieldLeads:       "",
			domain.FieldQuotes:      "",
			domain.FieldSignatures:  "",
			domain.FieldBasket:      "",
			domain.FieldImprovement: utils.FormatNumber(s.opts.DefaultImprovement),
		},
	}
	s.applyPreset(session, s.catalog.DefaultSector)

	return session
}

func (s *Service) Restore(ctx context.Context, repo repository.StateRepository) *Session {
	logger := log.ForContext(ctx)
	session := s.NewSession()

	raw, ok, err := repo.Get(s.opts.StorageKey)
	if err != nil {
		logger.WithError(err).Warn("state: could not read saved values, using defaults")
		return session
	}
	if !ok {
		return session
	}

	stored, err := decodeState(raw)
	if err != nil {
		logger.WithError(err).Warn("state: ignoring corrupt saved values")
		return session
	}

	for id, value := range stored.Fields {
		session.Fields[id] = value
	}
	session.CustomBench = stored.CustomBench

	// Setores pré-definidos sempre usam as taxas do catálogo
	if session.Sector().IsCustom() {
		if session.CustomBench == nil {
			session.rememberCustom()
		}
	} else {
		s.applyPreset(session, session.Sector())
	}

	logger.WithField("state_sector", string(session.Sector())).Debug("state: saved values restored")
	return session
}

func (s *Service) SetField(session *Session, id string, value string) {
	if !domain.IsField(id) {
		return
	}

	if id == domain.FieldSector {
		s.SelectSector(session, domain.Sector(value))
		return
	}

	session.Fields[id] = value

	if (id == domain.FieldBenchLD || id == domain.FieldBenchDS) && session.Sector().IsCustom() {
		session.rememberCustom()
	}
}

func (s *Service) SetFields(session *Session, values domain.FormValues) {
	for _, id := range domain.FieldIDs {
		if id == domain.FieldSector {
			continue
		}
		if value, ok := values[id]; ok {
			s.SetField(session, id, value)
		}
	}

	sector, ok := values[domain.FieldSector]
	if !ok {
		sector = string(session.Sector())
	}
	// reaplica o preset mesmo sem troca, descartando taxas editadas
	s.SelectSector(session, domain.Sector(sector))
}

func (s *Service) SelectSector(session *Session, sector domain.Sector) {
	if session.Sector().IsCustom() && !sector.IsCustom() {
		session.rememberCustom()
	}

	if !sector.IsCustom() {
		s.applyPreset(session, sector)
		return
	}

	session.Fields[domain.FieldSector] = string(domain.SectorCustom)
	if session.CustomBench != nil {
		session.Fields[domain.FieldBenchLD] = session.CustomBench.LD
		session.Fields[domain.FieldBenchDS] = session.CustomBench.DS
	}
}

func (s *Service) Reset(session *Session) {
	fresh := s.NewSession()
	session.Fields = fresh.Fields
	session.CustomBench = nil
}

func (s *Service) Persist(ctx context.Context, session *Session, repo repository.StateRepository) error {
	logger := log.ForContext(ctx)

	raw, err := encodeState(session)
	if err != nil {
		logger.WithError(err).Warn("state: could not encode values, save skipped")
		return err
	}

	if err := repo.Set(s.opts.StorageKey, raw); err != nil {
		logger.WithError(err).Warn("state: could not save values, save skipped")
		return errors.Wrap(err, "persisting state")
	}

	return nil
}

func (s *Service) Render(ctx context.Context, session *Session) *domain.FunnelView {
	eval := s.calculator.Evaluate(session.Fields)
	improvement, _ := utils.ParseNumber(session.Fields[domain.FieldImprovement])

	view := &domain.FunnelView{
		Fields:           session.Fields.Clone(),
		Errors:           eval.Errors,
		Help:             helpFor(eval.Errors),
		Valid:            eval.Valid(),
		Sector:           session.Sector(),
		CustomVisible:    session.Sector().IsCustom(),
		ImprovementShown: format.Integer(improvement),
		Sectors:          s.catalog.Sectors,
		CTAURL:           s.opts.CTABaseURL,
	}

	if !eval.Valid() {
		view.LeadToQuote = s.placeholderRate(eval.Input.Benchmark.LeadToQuote, s.catalog.Averages.LeadToQuote)
		view.QuoteToSignature = s.placeholderRate(eval.Input.Benchmark.QuoteToSignature, s.catalog.Averages.QuoteToSignature)
		view.CurrentRevenue = domain.Placeholder
		view.ProjectedRevenue = domain.Placeholder
		view.RevenueGap = domain.Placeholder
		view.BoostedRate = domain.Placeholder
		return view
	}

	m := eval.Metrics
	view.LeadToQuote = s.rateView(m.LeadToQuoteRate, eval.Input.Benchmark.LeadToQuote, s.catalog.Averages.LeadToQuote)
	view.QuoteToSignature = s.rateView(m.QuoteToSignatureRate, eval.Input.Benchmark.QuoteToSignature, s.catalog.Averages.QuoteToSignature)
	view.CurrentRevenue = format.EUR(m.CurrentRevenue)
	view.ProjectedRevenue = format.EUR(m.ProjectedRevenue)
	view.RevenueGap = format.EUR(m.RevenueGap)
	view.BoostedRate = format.Percent(m.BoostedRate)
	view.CTAURL = s.ctaURL(ctx, eval)
	view.Metrics = &domain.FunnelMetrics{
		LeadToQuoteRate:      m.LeadToQuoteRate,
		QuoteToSignatureRate: m.QuoteToSignatureRate,
		CurrentRevenue:       utils.RoundWithTwoDecimalPlace(m.CurrentRevenue),
		BoostedRate:          m.BoostedRate,
		ProjectedSignatures:  m.ProjectedSignatures,
		ProjectedRevenue:     utils.RoundWithTwoDecimalPlace(m.ProjectedRevenue),
		RevenueGap:           utils.RoundWithTwoDecimalPlace(m.RevenueGap),
	}

	return view
}

func (s *Service) applyPreset(session *Session, sector domain.Sector) {
	preset := s.catalog.PresetOrDefault(sector)
	session.Fields[domain.FieldSector] = string(preset.Key)
	session.Fields[domain.FieldBenchLD] = utils.FormatNumber(preset.Rates.LeadToQuote)
	session.Fields[domain.FieldBenchDS] = utils.FormatNumber(preset.Rates.QuoteToSignature)
}

// reference devolve a referência em pontos percentuais conforme o modo:
// a meta do setor no modo delta, a média do lote no modo ratio
func (s *Service) reference(benchPct, average float64) float64 {
	if s.opts.BenchmarkMode == domain.BenchmarkModeRatio {
		return utils.RoundWithTwoDecimalPlace(average * 100)
	}
	return benchPct
}

func (s *Service) rateView(rate, benchPct, average float64) domain.RateView {
	ratePct := rate * 100
	refPct := s.reference(benchPct, average)

	var verdict domain.Verdict
	if s.opts.BenchmarkMode == domain.BenchmarkModeRatio {
		verdict = calculating.ClassifyRatio(rate, average, s.catalog.Thresholds)
	} else {
		verdict = calculating.Classify(ratePct, refPct)
	}

	return domain.RateView{
		Rate:       format.Percent(rate),
		Summary:    fmt.Sprintf("Votre taux : %s • Réf : %s%%", format.WholePercent(ratePct), utils.FormatNumber(refPct)),
		BarWidth:   utils.Clamp(ratePct, 0, 100),
		BenchRate:  format.Percent(refPct / 100),
		BenchWidth: utils.Clamp(refPct, 0, 100),
		Verdict:    verdict,
	}
}

func (s *Service) placeholderRate(benchPct, average float64) domain.RateView {
	refPct := s.reference(benchPct, average)

	return domain.RateView{
		Rate:       domain.Placeholder,
		Summary:    domain.Placeholder,
		BenchRate:  format.Percent(refPct / 100),
		BenchWidth: utils.Clamp(refPct, 0, 100),
		Verdict:    domain.VerdictUnavailable,
	}
}

// ctaURL anexa as métricas atuais ao link da página de agendamento
func (s *Service) ctaURL(ctx context.Context, eval *domain.Evaluation) string {
	logger := log.ForContext(ctx)

	u, err := url.Parse(s.opts.CTABaseURL)
	if err != nil {
		logger.WithError(err).Warn("funnel: invalid CTA base URL")
		return s.opts.CTABaseURL
	}

	in, m := eval.Input, eval.Metrics
	params := u.Query()
	params.Set("leads", utils.FormatNumber(in.LeadsPerMonth))
	params.Set("devis", utils.FormatNumber(in.QuotesPerMonth))
	params.Set("sign", utils.FormatNumber(in.SignaturesPerMonth))
	params.Set("panier", utils.FormatNumber(in.AverageBasket))
	params.Set("tLD", format.Integer(m.LeadToQuoteRate*100))
	params.Set("tDS", format.Integer(m.QuoteToSignatureRate*100))
	params.Set("manque", format.Integer(math.Round(m.RevenueGap)))

	ref, err := utils.GenerateRef()
	if err != nil {
		logger.WithError(err).Warn("funnel: could not generate CTA reference")
	} else {
		params.Set("ref", ref)
		logger.WithFields(log.Fields{
			"funnel_ref": ref,
			"funnel_gap": m.RevenueGap,
		}).Debug("funnel: CTA link built")
	}

	u.RawQuery = params.Encode()
	return u.String()
}

func helpFor(errs domain.FieldErrors) map[string]string {
	help := make(map[string]string, len(defaultHelp))
	for id, text := range defaultHelp {
		if msg, ok := errs[id]; ok {
			help[id] = msg
			continue
		}
		help[id] = text
	}
	return help
}
