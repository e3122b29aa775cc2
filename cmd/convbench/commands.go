package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/internal/usecases/binding"
	"github.com/vfg2006/convbench/internal/usecases/calculating"
	"github.com/vfg2006/convbench/pkg/apiErrors"
)

// flags da CLI para cada campo do formulário
var calcFlags = []struct {
	name  string
	field string
	usage string
}{
	{name: "leads", field: domain.FieldLeads, usage: "Leads par mois"},
	{name: "devis", field: domain.FieldQuotes, usage: "Devis par mois"},
	{name: "signatures", field: domain.FieldSignatures, usage: "Signatures par mois"},
	{name: "panier", field: domain.FieldBasket, usage: "Panier moyen en euros"},
	{name: "improv", field: domain.FieldImprovement, usage: "Amélioration visée, en points (0-100)"},
	{name: "secteur", field: domain.FieldSector, usage: "Secteur (indus, b2b, surmesure, custom)"},
	{name: "bench-ld", field: domain.FieldBenchLD, usage: "Référence leads → devis en % (secteur custom)"},
	{name: "bench-ds", field: domain.FieldBenchDS, usage: "Référence devis → signature en % (secteur custom)"},
}

func newCalcCmd(a *app) *cobra.Command {
	values := make(map[string]*string, len(calcFlags))
	var noSave bool

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Met à jour les valeurs saisies et affiche le diagnostic",
		Example: `  convbench calc --leads 100 --devis 20 --signatures 5 --panier 1000
  convbench calc --secteur custom --bench-ld 28 --bench-ds 35`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := a.binder.Restore(cmd.Context(), a.repo)

			form := domain.FormValues{}
			for _, f := range calcFlags {
				if cmd.Flags().Changed(f.name) {
					form[f.field] = *values[f.name]
				}
			}
			// troca o setor antes, para que --bench-ld/--bench-ds valham sobre o par lembrado
			if sector, ok := form[domain.FieldSector]; ok {
				a.binder.SelectSector(session, domain.Sector(sector))
				delete(form, domain.FieldSector)
			}
			a.binder.SetFields(session, form)

			if !noSave {
				a.persist(cmd, session)
			}
			if err := a.render(cmd, session); err != nil {
				return err
			}
			return a.validate(session)
		},
	}

	for _, f := range calcFlags {
		values[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Ne pas enregistrer les valeurs")

	return cmd
}

func newSectorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sector <secteur>",
		Short: "Change de secteur de référence",
		Long: `Applique les taux de référence d'un secteur. Le secteur "custom"
restaure les dernières références personnalisées saisies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session := a.binder.Restore(cmd.Context(), a.repo)
			a.binder.SelectSector(session, domain.Sector(args[0]))
			a.persist(cmd, session)
			return a.render(cmd, session)
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Réinitialise toutes les valeurs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := a.binder.Restore(cmd.Context(), a.repo)
			a.binder.Reset(session)
			a.persist(cmd, session)
			return a.render(cmd, session)
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Affiche le diagnostic des valeurs enregistrées",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd, a.binder.Restore(cmd.Context(), a.repo))
		},
	}
}

func newSectorsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sectors",
		Short: "Liste les secteurs et leurs taux de référence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.renderSectors(cmd)
		},
	}
}

// validate faz a CLI terminar com erro quando o modo estrito rejeita a entrada
func (a *app) validate(session *binding.Session) error {
	if a.mode != calculating.ModeStrict {
		return nil
	}

	err := calculating.Validate(session.Fields)
	var validationErr *calculating.ValidationError
	if errors.As(err, &validationErr) {
		return apiErrors.FromError(validationErr, validationErr.Code)
	}
	return err
}

// persist salva o estado; falhas só geram aviso, o cálculo continua
func (a *app) persist(cmd *cobra.Command, session *binding.Session) {
	_ = a.binder.Persist(cmd.Context(), session, a.repo)
}
