// Package config holds the explicit configuration passed to every ofco command:
// input and output paths, namespace tables, thesaurus property IRIs and the
// constants stamped into SSSOM mapping tables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInputNotFound reports that a required input file does not exist.
var ErrInputNotFound = errors.New("required input file not found")

// Paths lists the files read and written by the commands. Relative paths are
// resolved against the working directory.
type Paths struct {
	Thesaurus           string `yaml:"thesaurus" toml:"thesaurus"`
	Annotations         string `yaml:"annotations" toml:"annotations"`
	AnnotatedOutput     string `yaml:"annotated_output" toml:"annotated_output"`
	ThesaurusCSV        string `yaml:"thesaurus_csv" toml:"thesaurus_csv"`
	MissingLabelsReport string `yaml:"missing_labels_report" toml:"missing_labels_report"`
	ICFReport           string `yaml:"icf_report" toml:"icf_report"`
	MappingSpreadsheet  string `yaml:"mapping_spreadsheet" toml:"mapping_spreadsheet"`
	SSSOMOutput         string `yaml:"sssom_output" toml:"sssom_output"`
	TurtleOutput        string `yaml:"turtle_output" toml:"turtle_output"`
	NTriplesOutput      string `yaml:"ntriples_output" toml:"ntriples_output"`
	RDFXMLOutput        string `yaml:"rdfxml_output" toml:"rdfxml_output"`
	JSONLDOutput        string `yaml:"jsonld_output" toml:"jsonld_output"`
}

// Namespaces is the namespace table used when reading and emitting RDF.
type Namespaces struct {
	RDF  string `yaml:"rdf" toml:"rdf"`
	RDFS string `yaml:"rdfs" toml:"rdfs"`
	OWL  string `yaml:"owl" toml:"owl"`
	XSD  string `yaml:"xsd" toml:"xsd"`
	ORDO string `yaml:"ordo" toml:"ordo"`
	OFCO string `yaml:"ofco" toml:"ofco"`
	ICF  string `yaml:"icf" toml:"icf"`
	OBO  string `yaml:"obo" toml:"obo"`
	SKOS string `yaml:"skos" toml:"skos"`
}

// Properties names the thesaurus properties the commands look up.
type Properties struct {
	// DisabilityReference keys the disability-code table.
	DisabilityReference string `yaml:"disability_reference" toml:"disability_reference"`
	// OrphaNumber keys the frequency/temporality/severity table.
	OrphaNumber     string `yaml:"orpha_number" toml:"orpha_number"`
	HasICFURI       string `yaml:"has_icf_uri" toml:"has_icf_uri"`
	HasICFCode      string `yaml:"has_icf_code" toml:"has_icf_code"`
	ManualAssertion string `yaml:"manual_assertion" toml:"manual_assertion"`
}

// SSSOM holds the constant columns and metadata of generated mapping tables.
type SSSOM struct {
	MappingDate          string `yaml:"mapping_date" toml:"mapping_date"`
	MappingType          string `yaml:"mapping_type" toml:"mapping_type"`
	AuthorID             string `yaml:"author_id" toml:"author_id"`
	AuthorLabel          string `yaml:"author_label" toml:"author_label"`
	SubjectSourceVersion string `yaml:"subject_source_version" toml:"subject_source_version"`
	Metadata             bool   `yaml:"metadata" toml:"metadata"`
	License              string `yaml:"license" toml:"license"`
	MappingSetBase       string `yaml:"mapping_set_base" toml:"mapping_set_base"`
}

// Config is the complete configuration of a run.
type Config struct {
	Paths      Paths      `yaml:"paths" toml:"paths"`
	Namespaces Namespaces `yaml:"namespaces" toml:"namespaces"`
	Properties Properties `yaml:"properties" toml:"properties"`
	SSSOM      SSSOM      `yaml:"sssom" toml:"sssom"`

	// Quiet suppresses warning lines on the operator console.
	Quiet bool `yaml:"quiet" toml:"quiet"`

	// Revised enables the disorder group and specific management fields.
	Revised bool `yaml:"revised" toml:"revised"`
}

// Default returns the configuration matching the historical fixed paths and
// namespace tables of the OFCO scripts.
func Default() *Config {
	return &Config{
		Paths: Paths{
			Thesaurus:           "OFCO_thesaurus.owl",
			Annotations:         "Disability_Orphanet_annotations.xml",
			AnnotatedOutput:     "Diseases_annotated_with_OFCO.owl",
			ThesaurusCSV:        "OFCO_thesaurus_ICF.csv",
			MissingLabelsReport: "missing_english_labels.txt",
			ICFReport:           "OFCO_ICF_validation_report.txt",
			MappingSpreadsheet:  "data/input/Mapping Orphanet-ICF 1.xlsx",
			SSSOMOutput:         "data/input/mappings_sssom.tsv",
			TurtleOutput:        "OFCO_thesaurus.ttl",
			NTriplesOutput:      "OFCO_thesaurus.nt",
			RDFXMLOutput:        "OFCO_thesaurus.rdf",
			JSONLDOutput:        "OFCO_thesaurus.jsonld",
		},
		Namespaces: Namespaces{
			RDF:  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
			RDFS: "http://www.w3.org/2000/01/rdf-schema#",
			OWL:  "http://www.w3.org/2002/07/owl#",
			XSD:  "http://www.w3.org/2001/XMLSchema#",
			ORDO: "http://www.orpha.net/ORDO/",
			OFCO: "https://w3id.org/ofco/",
			ICF:  "http://id.who.int/icf/",
			OBO:  "http://purl.obolibrary.org/obo/",
			SKOS: "http://www.w3.org/2004/02/skos/core#",
		},
		Properties: Properties{
			DisabilityReference: "https://w3id.org/ofco#hasORPHANETDBInternalReference",
			OrphaNumber:         "https://w3id.org/ofco/hasORPHAnumber",
			HasICFURI:           "https://w3id.org/ofco/hasICFuri",
			HasICFCode:          "https://w3id.org/ofco/hasICFcode",
			ManualAssertion:     "http://purl.obolibrary.org/obo/ECO_0000218",
		},
		SSSOM: SSSOM{
			MappingDate:          "2025-09-03",
			MappingType:          "semapv:ManualMappingCuration",
			AuthorID:             "orcid.org/0000-0003-4308-6337",
			AuthorLabel:          "Dr Rami Nadji",
			SubjectSourceVersion: "2025-01",
			License:              "https://creativecommons.org/licenses/by/4.0/",
			MappingSetBase:       "https://w3id.org/ofco/mappings/",
		},
	}
}

// Load reads a configuration file on top of the defaults. The format is chosen
// from the extension: .yaml/.yml for YAML, .toml for TOML. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}

	return cfg, nil
}

// RequireFile returns an error wrapping ErrInputNotFound when path does not exist.
func RequireFile(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInputNotFound, path)
	}
	return nil
}

// ClassIRI returns the ORDO IRI of an Orphanet disorder code.
func (namespaces Namespaces) ClassIRI(orphaCode string) string {
	return namespaces.ORDO + "Orphanet_" + orphaCode
}
