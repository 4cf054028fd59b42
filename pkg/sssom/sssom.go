// Package sssom turns the Orphanet-ICF mapping spreadsheet into an SSSOM
// mapping table written as TSV.
package sssom

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/ofco/pkg/config"
)

// Spreadsheet columns read for each mapping.
const (
	labelColumns    = 5
	subjectColumn   = 6
	predicateColumn = 7
	objectColumn    = 8
)

// NamespaceSEMAPV is the semantic mapping vocabulary namespace.
const NamespaceSEMAPV = "https://w3id.org/semapv/vocab/"

// Header is the column order of the mapping table.
var Header = []string{
	"subject_id",
	"subject_label",
	"predicate_id",
	"object_id",
	"mapping_date",
	"mapping_type",
	"author_id",
	"author_label",
	"subject_source_version",
}

// Predicates maps the spreadsheet relation codes to SKOS predicates. Codes
// not listed are kept verbatim.
var Predicates = map[string]string{
	"E":    "skos:exactMatch",
	"BTNT": "skos:broadMatch",
	"NTBT": "skos:narrowMatch",
}

// Mapping is one row of the mapping table.
type Mapping struct {
	SubjectID            string
	SubjectLabel         string
	PredicateID          string
	ObjectID             string
	MappingDate          string
	MappingType          string
	AuthorID             string
	AuthorLabel          string
	SubjectSourceVersion string
}

func (mapping Mapping) record() []string {
	return []string{
		mapping.SubjectID,
		mapping.SubjectLabel,
		mapping.PredicateID,
		mapping.ObjectID,
		mapping.MappingDate,
		mapping.MappingType,
		mapping.AuthorID,
		mapping.AuthorLabel,
		mapping.SubjectSourceVersion,
	}
}

// ReadSpreadsheet returns the rows of the first sheet of the workbook at
// path, without the header row. A missing file yields an error wrapping
// config.ErrInputNotFound.
func ReadSpreadsheet(path string) ([][]string, error) {
	if err := config.RequireFile(path); err != nil {
		return nil, err
	}

	workbook, err := excelize.OpenFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", path)
	}

	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

// BuildMappings converts spreadsheet rows into mappings stamped with the
// constant columns of settings. Rows with no content are skipped.
func BuildMappings(rows [][]string, settings config.SSSOM) []Mapping {
	var mappings []Mapping

	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		predicate := cell(row, predicateColumn)
		if mapped, ok := Predicates[predicate]; ok {
			predicate = mapped
		}

		mappings = append(mappings, Mapping{
			SubjectID:            cell(row, subjectColumn),
			SubjectLabel:         subjectLabel(row),
			PredicateID:          predicate,
			ObjectID:             cell(row, objectColumn),
			MappingDate:          settings.MappingDate,
			MappingType:          settings.MappingType,
			AuthorID:             settings.AuthorID,
			AuthorLabel:          settings.AuthorLabel,
			SubjectSourceVersion: settings.SubjectSourceVersion,
		})
	}

	return mappings
}

func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return row[index]
}

// subjectLabel is the first non-blank value among the label columns.
func subjectLabel(row []string) string {
	for index := 0; index < labelColumns; index++ {
		if value := strings.TrimSpace(cell(row, index)); value != "" {
			return value
		}
	}
	return ""
}

func isBlank(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// metadata is the YAML block written ahead of the table.
type metadata struct {
	CurieMap     map[string]string `yaml:"curie_map"`
	MappingSetID string            `yaml:"mapping_set_id"`
	License      string            `yaml:"license"`
}

// MappingSetID derives a stable identifier for the mapping set from its
// base IRI, source version and date.
func MappingSetID(settings config.SSSOM) string {
	name := settings.MappingSetBase + settings.SubjectSourceVersion + "/" + settings.MappingDate
	return settings.MappingSetBase + uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

func writeMetadata(writer io.Writer, settings config.SSSOM, namespaces config.Namespaces) error {
	block, err := yaml.Marshal(metadata{
		CurieMap: map[string]string{
			"skos":   namespaces.SKOS,
			"semapv": NamespaceSEMAPV,
			"ofco":   namespaces.OFCO,
			"icf":    namespaces.ICF,
			"ordo":   namespaces.ORDO,
		},
		MappingSetID: MappingSetID(settings),
		License:      settings.License,
	})
	if err != nil {
		return fmt.Errorf("failed to encode SSSOM metadata: %w", err)
	}

	for _, line := range strings.Split(strings.TrimSuffix(string(block), "\n"), "\n") {
		if _, err := fmt.Fprintf(writer, "# %s\n", line); err != nil {
			return fmt.Errorf("failed to write SSSOM metadata: %w", err)
		}
	}
	return nil
}

// Write writes the mapping table as TSV, preceded by the commented metadata
// block when settings.Metadata is set.
func Write(writer io.Writer, mappings []Mapping, settings config.SSSOM, namespaces config.Namespaces) error {
	if settings.Metadata {
		if err := writeMetadata(writer, settings, namespaces); err != nil {
			return err
		}
	}

	tsvWriter := csv.NewWriter(writer)
	tsvWriter.Comma = '\t'

	if err := tsvWriter.Write(Header); err != nil {
		return fmt.Errorf("failed to write SSSOM header: %w", err)
	}
	for _, mapping := range mappings {
		if err := tsvWriter.Write(mapping.record()); err != nil {
			return fmt.Errorf("failed to write mapping for %s: %w", mapping.SubjectID, err)
		}
	}

	tsvWriter.Flush()
	return tsvWriter.Error()
}

// Format returns the mapping table as a string.
func Format(mappings []Mapping, settings config.SSSOM, namespaces config.Namespaces) (string, error) {
	var builder strings.Builder
	if err := Write(&builder, mappings, settings, namespaces); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// WriteFile writes the mapping table to path in one call.
func WriteFile(path string, mappings []Mapping, settings config.SSSOM, namespaces config.Namespaces) error {
	document, err := Format(mappings, settings, namespaces)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(document), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
