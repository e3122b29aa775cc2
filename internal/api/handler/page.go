package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/vfg2006/convbench/infrastructure/repository"
	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/internal/usecases/binding"
	"github.com/vfg2006/convbench/pkg/apiErrors"
	"github.com/vfg2006/convbench/pkg/log"
	"github.com/vfg2006/convbench/pkg/middleware"
)

const (
	actionCalc   = "calc"
	actionSector = "sector"
	actionReset  = "reset"

	maxFormBytes = 16 << 10
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"width": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) },
}).ParseFS(templatesFS, "templates/page.html"))

var fieldLabels = map[string]string{
	domain.FieldLeads:       "Leads par mois",
	domain.FieldQuotes:      "Devis par mois",
	domain.FieldSignatures:  "Signatures par mois",
	domain.FieldBasket:      "Panier moyen (€)",
	domain.FieldImprovement: "Amélioration visée (points)",
	domain.FieldBenchLD:     "Référence leads → devis (%)",
	domain.FieldBenchDS:     "Référence devis → signature (%)",
}

type PageOptions struct {
	Cookie  repository.CookieOptions
	Metrics *middleware.Metrics
}

type pageInput struct {
	ID    string
	Label string
	Value string
	Help  string
	Error bool
}

type pageSector struct {
	Key      domain.Sector
	Label    string
	Selected bool
}

type pageData struct {
	View        *domain.FunnelView
	Inputs      []pageInput
	BenchInputs []pageInput
	Sectors     []pageSector
}

// ShowPage restaura o estado do cookie e desenha a página
func ShowPage(binder binding.Binder, opts PageOptions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		repo := repository.NewCookieStateRepository(w, r, opts.Cookie)

		session := binder.Restore(ctx, repo)
		view := binder.Render(ctx, session)
		observeEvaluation(opts.Metrics, "page", view.Valid)

		writePage(w, r, view)
	})
}

// SubmitPage aplica o evento do formulário, salva o estado e redesenha a página
func SubmitPage(binder binding.Binder, opts PageOptions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := log.ForContext(ctx)

		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			logger.WithError(err).Warn("Formulário inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formulaire invalide", nil)
			return
		}

		repo := repository.NewCookieStateRepository(w, r, opts.Cookie)
		session := binder.Restore(ctx, repo)

		action := r.PostForm.Get("action")
		switch action {
		case actionReset:
			binder.Reset(session)
		case actionCalc, actionSector, "":
			binder.SetFields(session, formValues(r))
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Action inconnue", map[string]string{"action": action})
			return
		}

		// Falha ao salvar não interrompe a resposta
		if err := binder.Persist(ctx, session, repo); err != nil && opts.Metrics != nil {
			opts.Metrics.ObserveStateFailure()
		}

		view := binder.Render(ctx, session)
		observeEvaluation(opts.Metrics, "page", view.Valid)

		logger.WithFields(log.Fields{
			"funnel_action": action,
			"funnel_sector": string(view.Sector),
			"funnel_valid":  view.Valid,
		}).Debug("funnel: form event applied")

		writePage(w, r, view)
	})
}

func formValues(r *http.Request) domain.FormValues {
	values := domain.FormValues{}
	for _, id := range domain.FieldIDs {
		if _, ok := r.PostForm[id]; ok {
			values[id] = r.PostForm.Get(id)
		}
	}
	return values
}

func writePage(w http.ResponseWriter, r *http.Request, view *domain.FunnelView) {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, newPageData(view)); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao desenhar a página")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao desenhar a página", nil)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

func newPageData(view *domain.FunnelView) pageData {
	data := pageData{View: view}

	for _, id := range domain.FieldIDs {
		if id == domain.FieldSector {
			continue
		}

		_, hasError := view.Errors[id]
		input := pageInput{
			ID:    id,
			Label: fieldLabels[id],
			Value: view.Fields[id],
			Help:  view.Help[id],
			Error: hasError,
		}

		if id == domain.FieldBenchLD || id == domain.FieldBenchDS {
			data.BenchInputs = append(data.BenchInputs, input)
			continue
		}
		data.Inputs = append(data.Inputs, input)
	}

	for _, preset := range view.Sectors {
		data.Sectors = append(data.Sectors, pageSector{
			Key:      preset.Key,
			Label:    preset.Label,
			Selected: preset.Key == view.Sector,
		})
	}
	data.Sectors = append(data.Sectors, pageSector{
		Key:      domain.SectorCustom,
		Label:    "Personnalisé",
		Selected: view.Sector.IsCustom(),
	})

	return data
}

func observeEvaluation(metrics *middleware.Metrics, source string, valid bool) {
	if metrics != nil {
		metrics.ObserveEvaluation(source, valid)
	}
}
