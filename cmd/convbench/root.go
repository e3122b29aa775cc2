package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/vfg2006/convbench/infrastructure/catalog"
	"github.com/vfg2006/convbench/infrastructure/repository"
	"github.com/vfg2006/convbench/internal/config"
	"github.com/vfg2006/convbench/internal/usecases/binding"
	"github.com/vfg2006/convbench/internal/usecases/calculating"
	"github.com/vfg2006/convbench/pkg/log"
)

const (
	formatHuman = "human"
	formatJSON  = "json"
)

var errUnknownFormat = errors.New("unknown output format")

type rootOptions struct {
	stateFile  string
	validation string
	format     string
	logLevel   string
}

// app reúne o que os comandos usam depois da configuração
type app struct {
	cfg     *config.Config
	catalog *catalog.Catalog
	binder  binding.Binder
	repo    repository.StateRepository
	format  string
	mode    calculating.ValidationMode
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:   "convbench",
		Short: "Compare vos taux de conversion aux références de votre secteur",
		Long: `convbench calcule les taux leads → devis et devis → signature,
les compare à une référence sectorielle et estime le chiffre d'affaires
manqué. Les valeurs saisies sont conservées entre deux exécutions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.Configure(opts.logLevel, false)
			log.SetOutput(cmd.ErrOrStderr())
			return a.configure(opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.stateFile, "state-file", "", "Fichier d'état (défaut: STATE_FILE ou le dossier de configuration utilisateur)")
	cmd.PersistentFlags().StringVar(&opts.validation, "validation", "", "Mode de validation: strict ou lenient (défaut: VALIDATION_MODE)")
	cmd.PersistentFlags().StringVar(&opts.format, "format", formatHuman, "Format de sortie: human ou json")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Niveau de log")

	cmd.AddCommand(
		newCalcCmd(a),
		newSectorCmd(a),
		newResetCmd(a),
		newShowCmd(a),
		newSectorsCmd(a),
	)

	return cmd
}

func (a *app) configure(opts *rootOptions) error {
	if opts.format != formatHuman && opts.format != formatJSON {
		return errors.Wrapf(errUnknownFormat, "%q", opts.format)
	}
	a.format = opts.format

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if opts.validation != "" {
		cfg.Funnel.ValidationMode = opts.validation
	}
	mode, err := calculating.ParseValidationMode(cfg.Funnel.ValidationMode)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.mode = mode

	if cfg.Funnel.BenchmarksFile != "" {
		a.catalog, err = catalog.Load(cfg.Funnel.BenchmarksFile)
	} else {
		a.catalog, err = catalog.Default()
	}
	if err != nil {
		return err
	}

	a.binder = binding.NewService(calculating.NewService(mode), a.catalog, binding.Options{
		StorageKey:         cfg.State.StorageKey,
		CTABaseURL:         cfg.Funnel.CTABaseURL,
		DefaultImprovement: cfg.Funnel.DefaultImprovement,
		BenchmarkMode:      cfg.BenchmarkMode(),
	})

	path := opts.stateFile
	if path == "" {
		path = cfg.State.File
	}
	if path == "" {
		path = repository.DefaultStatePath()
	}
	a.repo = repository.NewFileStateRepository(path)

	log.L.WithFields(log.Fields{
		"state_file":  path,
		"funnel_mode": string(mode),
	}).Debug("state: CLI configured")

	return nil
}
