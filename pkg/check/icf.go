package check

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/coolbeans/ofco/pkg/config"
)

const (
	// ExactMappingPrefix marks ManualAssertion values of exact mappings.
	ExactMappingPrefix = "E (Exact mapping"

	// excludedIRIPrefix filters evidence code IRIs out of the analyzed set.
	excludedIRIPrefix = "http://purl.obolibrary.org"

	reportTimeLayout = "2006-01-02 15:04:05"
)

var reportRule = strings.Repeat("=", 80)

// SharedICF is an ICF URI used as the exact mapping of several IRIs.
type SharedICF struct {
	ICFURI string
	IRIs   []string
}

// ICFReport is the result of the ICF mapping checks on the CSV export.
type ICFReport struct {
	// Total is the number of distinct thesaurus IRIs analyzed.
	Total int
	// WithoutICF lists, sorted, the IRIs with no hasICFuri value.
	WithoutICF []string
	// Shared lists, sorted by URI, the exact-mapping URIs held by more than one IRI.
	Shared []SharedICF
}

// AnalyzeICF reads a CSV export, separated by tabs when its first line holds
// a tab and by semicolons otherwise, and runs both checks.
func AnalyzeICF(reader io.Reader) (*ICFReport, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read ICF export: %w", err)
	}

	firstLine := data
	if index := bytes.IndexByte(data, '\n'); index >= 0 {
		firstLine = data[:index]
	}

	csvReader := csv.NewReader(bytes.NewReader(data))
	csvReader.Comma = ';'
	if bytes.IndexByte(firstLine, '\t') >= 0 {
		csvReader.Comma = '\t'
	}
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse ICF export: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("ICF export is empty")
	}

	columns := make(map[string]int, len(records[0]))
	for index, name := range records[0] {
		columns[strings.TrimPrefix(name, "\ufeff")] = index
	}
	if _, ok := columns["IRI"]; !ok {
		return nil, fmt.Errorf("ICF export has no IRI column")
	}

	field := func(record []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[index])
	}

	allIRIs := make(map[string]bool)
	mapped := make(map[string]bool)
	exact := make(map[string]map[string]bool)

	for _, record := range records[1:] {
		iri := field(record, "IRI")
		icfURI := field(record, "hasICFuri")
		assertion := field(record, "ManualAssertion")

		if iri != "" && !strings.HasPrefix(iri, excludedIRIPrefix) {
			allIRIs[iri] = true
		}
		if icfURI == "" {
			continue
		}

		mapped[iri] = true
		if strings.HasPrefix(assertion, ExactMappingPrefix) {
			if exact[icfURI] == nil {
				exact[icfURI] = make(map[string]bool)
			}
			exact[icfURI][iri] = true
		}
	}

	report := &ICFReport{Total: len(allIRIs)}
	for iri := range allIRIs {
		if !mapped[iri] {
			report.WithoutICF = append(report.WithoutICF, iri)
		}
	}
	sort.Strings(report.WithoutICF)

	for icfURI, iris := range exact {
		if len(iris) < 2 {
			continue
		}
		shared := SharedICF{ICFURI: icfURI}
		for iri := range iris {
			shared.IRIs = append(shared.IRIs, iri)
		}
		sort.Strings(shared.IRIs)
		report.Shared = append(report.Shared, shared)
	}
	sort.Slice(report.Shared, func(i, j int) bool {
		return report.Shared[i].ICFURI < report.Shared[j].ICFURI
	})

	return report, nil
}

// AnalyzeICFFile runs AnalyzeICF on the file at path. A missing file yields an
// error wrapping config.ErrInputNotFound.
func AnalyzeICFFile(path string) (*ICFReport, error) {
	if err := config.RequireFile(path); err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return AnalyzeICF(file)
}

// shortName is the last path segment of an IRI.
func shortName(iri string) string {
	return iri[strings.LastIndex(iri, "/")+1:]
}

// distinctIRINote states how the report counts IRIs that span several CSV rows.
const distinctIRINote = "IRI counts are distinct IRIs; CSV rows repeating an IRI count once."

func writeSection(builder *strings.Builder, title string) {
	builder.WriteString(reportRule + "\n")
	builder.WriteString(title + "\n")
	builder.WriteString(reportRule + "\n")
}

// Render formats the report file, stamped with generated.
func (report *ICFReport) Render(generated time.Time) string {
	var builder strings.Builder

	writeSection(&builder, "OFCO-ICF MAPPING VALIDATION REPORT\n"+
		"Generated: "+generated.Format(reportTimeLayout)+"\n"+
		distinctIRINote)
	builder.WriteString("\n")

	writeSection(&builder, "CHECK 1: IRIs without hasICFuri")
	builder.WriteString("\n")
	if len(report.WithoutICF) > 0 {
		fmt.Fprintf(&builder, "Found %d IRI(s) without hasICFuri:\n\n", len(report.WithoutICF))
		for _, iri := range report.WithoutICF {
			fmt.Fprintf(&builder, "  - %s\n    %s\n\n", shortName(iri), iri)
		}
	} else {
		builder.WriteString("✓ All IRIs have at least one hasICFuri\n\n")
	}

	builder.WriteString("\n")
	writeSection(&builder, "CHECK 2: Shared hasICFuri for exact mappings (E)")
	builder.WriteString("\n")
	if len(report.Shared) > 0 {
		fmt.Fprintf(&builder, "Found %d shared hasICFuri:\n\n", len(report.Shared))
		report.writeShared(&builder)
	} else {
		builder.WriteString("✓ All hasICFuri with exact mapping (E) are unique\n\n")
	}

	builder.WriteString("\n")
	report.writeSummary(&builder)
	return builder.String()
}

// RenderConsole formats the checks and the summary for the operator console.
func (report *ICFReport) RenderConsole() string {
	var builder strings.Builder

	writeSection(&builder, "CHECK 1: IRIs without hasICFuri")
	if len(report.WithoutICF) > 0 {
		fmt.Fprintf(&builder, "\n%d IRI(s) without hasICFuri found:\n\n", len(report.WithoutICF))
		for _, iri := range report.WithoutICF {
			fmt.Fprintf(&builder, "  - %s\n    %s\n", shortName(iri), iri)
		}
	} else {
		builder.WriteString("\n✓ All IRIs have at least one hasICFuri\n")
	}

	builder.WriteString("\n")
	writeSection(&builder, "CHECK 2: Shared hasICFuri for exact mappings (E)")
	if len(report.Shared) > 0 {
		fmt.Fprintf(&builder, "\n%d shared hasICFuri found:\n\n", len(report.Shared))
		report.writeShared(&builder)
	} else {
		builder.WriteString("\n✓ All hasICFuri with exact mapping (E) are unique\n")
	}

	builder.WriteString("\n")
	report.writeSummary(&builder)
	return builder.String()
}

func (report *ICFReport) writeShared(builder *strings.Builder) {
	for _, shared := range report.Shared {
		fmt.Fprintf(builder, "  hasICFuri: %s\n", shared.ICFURI)
		fmt.Fprintf(builder, "  Shared between %d IRIs:\n", len(shared.IRIs))
		for _, iri := range shared.IRIs {
			fmt.Fprintf(builder, "    - %s\n      %s\n", shortName(iri), iri)
		}
		builder.WriteString("\n")
	}
}

func (report *ICFReport) writeSummary(builder *strings.Builder) {
	writeSection(builder, "SUMMARY")
	fmt.Fprintf(builder, "Total OFCO IRIs analyzed: %d\n", report.Total)
	fmt.Fprintf(builder, "IRIs without hasICFuri: %d\n", len(report.WithoutICF))
	fmt.Fprintf(builder, "Duplicated hasICFuri (E mappings): %d\n", len(report.Shared))
	builder.WriteString(reportRule + "\n")
}

// WriteFile writes the rendered report to path.
func (report *ICFReport) WriteFile(path string, generated time.Time) error {
	if err := os.WriteFile(path, []byte(report.Render(generated)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
