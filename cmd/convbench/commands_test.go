package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/convbench/internal/domain"
	"github.com/vfg2006/convbench/pkg/log"
)

func init() {
	log.SetupTestLogger()
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func executeJSON(t *testing.T, args ...string) domain.FunnelView {
	t.Helper()

	out, err := execute(t, append(args, "--format", "json")...)
	require.NoError(t, err)

	var view domain.FunnelView
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(out, &view))
	return view
}

func TestCalc_ComputesAndPersists(t *testing.T) {
	state := filepath.Join(t.TempDir(), "storage.json")

	view := executeJSON(t, "calc", "--state-file", state,
		"--leads", "100", "--devis", "20", "--signatures", "5", "--panier", "1000")

	assert.True(t, view.Valid)
	require.NotNil(t, view.Metrics)
	assert.Equal(t, 7, view.Metrics.ProjectedSignatures)
	assert.Equal(t, 2000.0, view.Metrics.RevenueGap)
	assert.Equal(t, domain.BandBehind, view.LeadToQuote.Verdict.Band)
	assert.Empty(t, view.Sectors)

	shown := executeJSON(t, "show", "--state-file", state)
	assert.Equal(t, "100", shown.Fields[domain.FieldLeads])
	assert.Equal(t, "1000", shown.Fields[domain.FieldBasket])
	assert.Equal(t, view.CurrentRevenue, shown.CurrentRevenue)
}

func TestCalc_NoSaveKeepsPreviousState(t *testing.T) {
	state := filepath.Join(t.TempDir(), "storage.json")

	executeJSON(t, "calc", "--state-file", state, "--leads", "100")
	executeJSON(t, "calc", "--state-file", state, "--leads", "250", "--no-save")

	shown := executeJSON(t, "show", "--state-file", state)
	assert.Equal(t, "100", shown.Fields[domain.FieldLeads])
}

func TestSector_CustomRestoresLastReferences(t *testing.T) {
	state := filepath.Join(t.TempDir(), "storage.json")

	view := executeJSON(t, "calc", "--state-file", state,
		"--secteur", "custom", "--bench-ld", "28", "--bench-ds", "35")
	assert.True(t, view.CustomVisible)
	assert.Equal(t, "28", view.Fields[domain.FieldBenchLD])

	view = executeJSON(t, "sector", "b2b", "--state-file", state)
	assert.False(t, view.CustomVisible)
	assert.Equal(t, "25", view.Fields[domain.FieldBenchLD])
	assert.Equal(t, "35", view.Fields[domain.FieldBenchDS])

	view = executeJSON(t, "sector", "custom", "--state-file", state)
	assert.Equal(t, "28", view.Fields[domain.FieldBenchLD])
	assert.Equal(t, "35", view.Fields[domain.FieldBenchDS])
}

func TestCalc_CustomFlagsOverrideRememberedPair(t *testing.T) {
	state := filepath.Join(t.TempDir(), "storage.json")

	executeJSON(t, "calc", "--state-file", state, "--secteur", "custom", "--bench-ld", "28", "--bench-ds", "35")
	executeJSON(t, "sector", "indus", "--state-file", state)

	view := executeJSON(t, "calc", "--state-file", state, "--secteur", "custom", "--bench-ld", "12")
	assert.Equal(t, "12", view.Fields[domain.FieldBenchLD])
	assert.Equal(t, "35", view.Fields[domain.FieldBenchDS])
}

func TestSector_UnknownFallsBackToDefault(t *testing.T) {
	view := executeJSON(t, "sector", "aeronautique", "--state-file", filepath.Join(t.TempDir(), "s.json"))

	assert.Equal(t, domain.Sector("indus"), view.Sector)
	assert.Equal(t, "30", view.Fields[domain.FieldBenchLD])
}

func TestReset_ClearsFields(t *testing.T) {
	state := filepath.Join(t.TempDir(), "storage.json")

	executeJSON(t, "calc", "--state-file", state, "--leads", "100", "--secteur", "b2b")
	view := executeJSON(t, "reset", "--state-file", state)

	assert.Equal(t, "", view.Fields[domain.FieldLeads])
	assert.Equal(t, domain.Sector("indus"), view.Sector)
	assert.Equal(t, "10", view.Fields[domain.FieldImprovement])
}

func TestCalc_StrictValidationShowsErrors(t *testing.T) {
	out, err := execute(t, "calc", "--state-file", filepath.Join(t.TempDir(), "s.json"),
		"--validation", "strict", "--leads=-3", "--format", "json")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "VAL_003")
	assert.Contains(t, err.Error(), domain.FieldLeads)

	var view domain.FunnelView
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(out, &view))
	assert.False(t, view.Valid)
	assert.Contains(t, view.Errors, domain.FieldLeads)
	assert.Equal(t, domain.Placeholder, view.CurrentRevenue)
}

func TestCalc_StrictValidInputSucceeds(t *testing.T) {
	view := executeJSON(t, "calc", "--state-file", filepath.Join(t.TempDir(), "s.json"), "--validation", "strict",
		"--leads", "100", "--devis", "20", "--signatures", "5", "--panier", "1000")

	assert.True(t, view.Valid)
}

func TestShow_HumanOutput(t *testing.T) {
	state := filepath.Join(t.TempDir(), "storage.json")
	_, err := execute(t, "calc", "--state-file", state,
		"--leads", "100", "--devis", "20", "--signatures", "5", "--panier", "1000")
	require.NoError(t, err)

	out, err := execute(t, "show", "--state-file", state)
	require.NoError(t, err)

	assert.Contains(t, out, "Leads → devis")
	assert.Contains(t, out, "Votre taux : 20% • Réf : 30%")
	assert.Contains(t, out, "En dessous")
	assert.Contains(t, out, "https://calendly.com/convbench/diagnostic")
}

func TestSectors_ListsCatalog(t *testing.T) {
	out, err := execute(t, "sectors", "--state-file", filepath.Join(t.TempDir(), "s.json"), "--format", "json")
	require.NoError(t, err)

	var sectors []domain.SectorPreset
	require.NoError(t, jsoniter.ConfigCompatibleWithStandardLibrary.UnmarshalFromString(out, &sectors))
	require.Len(t, sectors, 3)
	assert.Equal(t, domain.Sector("indus"), sectors[0].Key)

	out, err = execute(t, "sectors", "--state-file", filepath.Join(t.TempDir(), "s.json"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Services B2B"))
}

func TestRoot_InvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown format", args: []string{"show", "--format", "xml"}},
		{name: "unknown validation mode", args: []string{"show", "--validation", "loose"}},
		{name: "sector without argument", args: []string{"sector"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--state-file", filepath.Join(t.TempDir(), "s.json"))
			_, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestBar(t *testing.T) {
	b := bar(50, 100)

	assert.Equal(t, barWidth, len([]rune(b)))
	assert.Equal(t, 15, strings.Count(b, "█"))
	assert.True(t, strings.HasSuffix(b, "│"))
}
