package check

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/ofco/pkg/config"
)

const icfExport = "IRI;Label;Parent;hasICFuri;hasICFcode;ManualAssertion\r\n" +
	"https://w3id.org/ofco/C01;Walking;;http://id.who.int/icd/entity/1;d450;E (Exact mapping)\r\n" +
	"https://w3id.org/ofco/C01;Walking;https://w3id.org/ofco/Root;http://id.who.int/icd/entity/1;d450;E (Exact mapping)\r\n" +
	"https://w3id.org/ofco/C02;Strolling;;http://id.who.int/icd/entity/1;d450;E (Exact mapping)\r\n" +
	"https://w3id.org/ofco/C03;Stairs;;http://id.who.int/icd/entity/3;d4551;BTNT\r\n" +
	"https://w3id.org/ofco/C04;Running;;http://id.who.int/icd/entity/3;d4552;E (Exact mapping)\r\n" +
	"https://w3id.org/ofco/C05;Lonely;;;;\r\n" +
	"http://purl.obolibrary.org/obo/ECO_0000218;Evidence;;;;\r\n" +
	" ;blank;;;;\r\n"

func TestAnalyzeICF(t *testing.T) {
	report, err := AnalyzeICF(strings.NewReader(icfExport))
	require.NoError(t, err)

	assert.Equal(t, 5, report.Total)
	assert.Equal(t, []string{"https://w3id.org/ofco/C05"}, report.WithoutICF)
	assert.Equal(t, []SharedICF{{
		ICFURI: "http://id.who.int/icd/entity/1",
		IRIs:   []string{"https://w3id.org/ofco/C01", "https://w3id.org/ofco/C02"},
	}}, report.Shared)
}

func TestAnalyzeICF_TabSeparated(t *testing.T) {
	export := "IRI\tLabel\thasICFuri\tManualAssertion\n" +
		"https://w3id.org/ofco/C01\tWalking\thttp://id.who.int/icd/entity/1\tE (Exact mapping)\n" +
		"https://w3id.org/ofco/C02\tStairs\t\t\n"

	report, err := AnalyzeICF(strings.NewReader(export))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, []string{"https://w3id.org/ofco/C02"}, report.WithoutICF)
	assert.Empty(t, report.Shared)
}

func TestAnalyzeICF_Errors(t *testing.T) {
	tests := []struct {
		name   string
		export string
	}{
		{"empty", ""},
		{"no IRI column", "Label;hasICFuri\nWalking;x\n"},
		{"unterminated quote", "IRI;Label\n\"https://w3id.org/ofco/C01;Walking\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AnalyzeICF(strings.NewReader(tt.export))
			assert.Error(t, err)
		})
	}
}

func TestAnalyzeICFFile(t *testing.T) {
	_, err := AnalyzeICFFile(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrInputNotFound))

	path := filepath.Join(t.TempDir(), "OFCO_thesaurus_ICF.csv")
	require.NoError(t, os.WriteFile(path, []byte("\ufeff"+icfExport), 0o644))

	report, err := AnalyzeICFFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, report.Total)
}

func TestICFReport_Render(t *testing.T) {
	rule := strings.Repeat("=", 80)
	generated := time.Date(2025, 9, 3, 14, 5, 9, 0, time.UTC)

	report, err := AnalyzeICF(strings.NewReader(icfExport))
	require.NoError(t, err)

	expected := rule + "\n" +
		"OFCO-ICF MAPPING VALIDATION REPORT\n" +
		"Generated: 2025-09-03 14:05:09\n" +
		"IRI counts are distinct IRIs; CSV rows repeating an IRI count once.\n" +
		rule + "\n\n" +
		rule + "\n" +
		"CHECK 1: IRIs without hasICFuri\n" +
		rule + "\n\n" +
		"Found 1 IRI(s) without hasICFuri:\n\n" +
		"  - C05\n" +
		"    https://w3id.org/ofco/C05\n\n" +
		"\n" +
		rule + "\n" +
		"CHECK 2: Shared hasICFuri for exact mappings (E)\n" +
		rule + "\n\n" +
		"Found 1 shared hasICFuri:\n\n" +
		"  hasICFuri: http://id.who.int/icd/entity/1\n" +
		"  Shared between 2 IRIs:\n" +
		"    - C01\n" +
		"      https://w3id.org/ofco/C01\n" +
		"    - C02\n" +
		"      https://w3id.org/ofco/C02\n\n" +
		"\n" +
		rule + "\n" +
		"SUMMARY\n" +
		rule + "\n" +
		"Total OFCO IRIs analyzed: 5\n" +
		"IRIs without hasICFuri: 1\n" +
		"Duplicated hasICFuri (E mappings): 1\n" +
		rule + "\n"
	assert.Equal(t, expected, report.Render(generated))
}

func TestICFReport_RenderClean(t *testing.T) {
	report := &ICFReport{Total: 3}
	generated := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	document := report.Render(generated)
	assert.Contains(t, document, "✓ All IRIs have at least one hasICFuri\n\n")
	assert.Contains(t, document, "✓ All hasICFuri with exact mapping (E) are unique\n\n")
	assert.Contains(t, document, "Total OFCO IRIs analyzed: 3\n")

	console := report.RenderConsole()
	assert.True(t, strings.HasPrefix(console, strings.Repeat("=", 80)+"\nCHECK 1: IRIs without hasICFuri\n"))
	assert.Contains(t, console, "\n✓ All IRIs have at least one hasICFuri\n")
	assert.NotContains(t, console, "Generated:")
	assert.Contains(t, console, "Duplicated hasICFuri (E mappings): 0\n")
}

func TestICFReport_RenderConsole(t *testing.T) {
	report, err := AnalyzeICF(strings.NewReader(icfExport))
	require.NoError(t, err)

	console := report.RenderConsole()
	assert.Contains(t, console, "\n1 IRI(s) without hasICFuri found:\n\n  - C05\n    https://w3id.org/ofco/C05\n")
	assert.Contains(t, console, "\n1 shared hasICFuri found:\n\n  hasICFuri: http://id.who.int/icd/entity/1\n")
}

func TestICFReport_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "OFCO_ICF_validation_report.txt")
	generated := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	report := &ICFReport{Total: 1}

	require.NoError(t, report.WriteFile(path, generated))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, report.Render(generated), string(data))
}
