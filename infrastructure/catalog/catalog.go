// Package catalog carrega as referências de conversão por setor.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/vfg2006/convbench/internal/domain"
)

//go:embed benchmarks.yaml
var defaultBenchmarks []byte

var ErrInvalidCatalog = errors.New("invalid benchmark catalog")

type Catalog struct {
	DefaultSector domain.Sector         `yaml:"default_sector" json:"default_sector"`
	Sectors       []domain.SectorPreset `yaml:"sectors" json:"sectors"`
	Averages      domain.BatchAverages  `yaml:"averages" json:"averages"`
	Thresholds    domain.Thresholds     `yaml:"thresholds" json:"thresholds"`
}

// Default devolve o catálogo embutido no binário
func Default() (*Catalog, error) {
	return Parse(defaultBenchmarks)
}

// Load lê o catálogo do arquivo informado, ou o embutido quando path é vazio
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading benchmark catalog %s", path)
	}

	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(err, "decoding benchmark catalog")
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) validate() error {
	if len(c.Sectors) == 0 {
		return errors.Wrap(ErrInvalidCatalog, "no sectors")
	}

	seen := make(map[domain.Sector]bool, len(c.Sectors))
	for _, s := range c.Sectors {
		if s.Key == "" || s.Key.IsCustom() {
			return errors.Wrapf(ErrInvalidCatalog, "invalid sector key %q", s.Key)
		}
		if seen[s.Key] {
			return errors.Wrapf(ErrInvalidCatalog, "duplicated sector %q", s.Key)
		}
		seen[s.Key] = true

		if !inPercentRange(s.Rates.LeadToQuote) || !inPercentRange(s.Rates.QuoteToSignature) {
			return errors.Wrapf(ErrInvalidCatalog, "sector %q rates out of 0-100", s.Key)
		}
	}

	if c.DefaultSector == "" {
		c.DefaultSector = c.Sectors[0].Key
	}
	if !seen[c.DefaultSector] {
		return errors.Wrapf(ErrInvalidCatalog, "default sector %q not listed", c.DefaultSector)
	}

	if c.Thresholds.Low <= 0 || c.Thresholds.Low >= c.Thresholds.High {
		return errors.Wrap(ErrInvalidCatalog, fmt.Sprintf("thresholds low=%v high=%v", c.Thresholds.Low, c.Thresholds.High))
	}

	return nil
}

// Preset busca o setor pela chave
func (c *Catalog) Preset(key domain.Sector) (domain.SectorPreset, bool) {
	for _, s := range c.Sectors {
		if s.Key == key {
			return s, true
		}
	}
	return domain.SectorPreset{}, false
}

// PresetOrDefault cai para o setor padrão quando a chave não existe
func (c *Catalog) PresetOrDefault(key domain.Sector) domain.SectorPreset {
	if preset, ok := c.Preset(key); ok {
		return preset
	}
	preset, _ := c.Preset(c.DefaultSector)
	return preset
}

func inPercentRange(v float64) bool {
	return v >= 0 && v <= 100
}
