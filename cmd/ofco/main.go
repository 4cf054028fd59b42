package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coolbeans/ofco/pkg/annotate"
	"github.com/coolbeans/ofco/pkg/check"
	"github.com/coolbeans/ofco/pkg/config"
	"github.com/coolbeans/ofco/pkg/console"
	"github.com/coolbeans/ofco/pkg/csvexport"
	"github.com/coolbeans/ofco/pkg/disorder"
	"github.com/coolbeans/ofco/pkg/rdfxml"
	"github.com/coolbeans/ofco/pkg/sssom"
	"github.com/coolbeans/ofco/pkg/store"
	"github.com/coolbeans/ofco/pkg/thesaurus"
)

var version = "0.1.0"

// previewLines is the number of output lines echoed after annotation.
const previewLines = 20

// app carries the state shared by the subcommands of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	configPath string
	envFile    string
	verbose    bool
	noColor    bool

	cfg *config.Config
	log zerolog.Logger
}

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr, now: time.Now}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ofco",
		Short: "OFCO thesaurus conversion and validation toolkit",
		Long: `ofco converts and validates the artifacts of the Orphanet Functioning
Thesaurus (OFCO):

  - annotate Orphanet disorders with OFCO disability annotations (RDF/XML)
  - export the thesaurus and its ICF mappings to CSV
  - check English labels and ICF mapping consistency
  - generate an SSSOM mapping table from the mapping spreadsheet
  - re-serialize the thesaurus graph as Turtle, N-Triples, RDF/XML or JSON-LD`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Configuration file (.yaml, .yml or .toml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "Environment file with OFCO_* overrides")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(a.annotateCmd())
	rootCmd.AddCommand(a.exportCSVCmd())
	rootCmd.AddCommand(a.checkLabelsCmd())
	rootCmd.AddCommand(a.checkICFCmd())
	rootCmd.AddCommand(a.sssomCmd())
	rootCmd.AddCommand(a.convertCmd())

	return rootCmd
}

// setup loads the configuration and builds the diagnostic logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.LoadEnv(a.envFile); err != nil {
		return err
	}
	a.cfg = cfg

	level := zerolog.InfoLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        a.stderr,
		NoColor:    a.noColor,
		TimeFormat: time.TimeOnly,
	}).Level(level).With().Timestamp().Logger()

	a.log.Debug().
		Str("config", a.configPath).
		Str("env_file", a.envFile).
		Str("thesaurus", cfg.Paths.Thesaurus).
		Msg("Configuration loaded")
	return nil
}

func (a *app) reporter(quiet bool) *console.Reporter {
	options := []console.Option{console.WithQuiet(quiet)}
	if a.noColor {
		options = append(options, console.WithoutColor())
	}
	return console.New(a.stdout, options...)
}

// pathFlag returns the flag value when set, otherwise the configured path.
func pathFlag(cmd *cobra.Command, name, configured string) string {
	if value, _ := cmd.Flags().GetString(name); value != "" {
		return value
	}
	return configured
}

// reportMissing prints the operator message for a missing input.
func reportMissing(reporter *console.Reporter, path string, err error) {
	if errors.Is(err, config.ErrInputNotFound) {
		reporter.Error("Error: %s not found", path)
	}
}

func (a *app) annotateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Annotate Orphanet disorders with OFCO disabilities",
		Long: `Annotate reads the OFCO thesaurus and the Orphanet disability export and
writes an RDF/XML document with one owl:Class per disorder, carrying its
disability annotations.

Example:
  ofco annotate
  ofco annotate --thesaurus OFCO_thesaurus.owl --annotations en_funct.xml --quiet
  ofco annotate --revised --report-duplicates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			thesaurusPath := pathFlag(cmd, "thesaurus", a.cfg.Paths.Thesaurus)
			annotationsPath := pathFlag(cmd, "annotations", a.cfg.Paths.Annotations)
			outputPath := pathFlag(cmd, "output", a.cfg.Paths.AnnotatedOutput)
			quiet, _ := cmd.Flags().GetBool("quiet")
			revised, _ := cmd.Flags().GetBool("revised")
			reportDuplicates, _ := cmd.Flags().GetBool("report-duplicates")

			reporter := a.reporter(quiet || a.cfg.Quiet)

			reporter.Step("Loading OFCO...")
			reporter.Info("Extract concepts from OFCO thesaurus...")
			mappings, err := thesaurus.Load(thesaurusPath, a.cfg.Properties)
			if err != nil {
				reportMissing(reporter, thesaurusPath, err)
				return err
			}
			reporter.Success("Mappings extracted from OFCO:")
			reporter.Detail("Disabilities: %d entries", len(mappings.Disabilities))
			reporter.Detail("OrphaNumbers: %d entries", len(mappings.OrphaNumbers))

			if reportDuplicates {
				if len(mappings.Duplicates) == 0 {
					reporter.Info("No duplicate mapping keys")
				} else {
					reporter.Info("Duplicate mapping keys (last value kept): %d", len(mappings.Duplicates))
					for _, duplicate := range mappings.Duplicates {
						reporter.Detail("%s", duplicate)
					}
				}
			}

			reporter.Step("Loading XML dataset...")
			disorders, err := disorder.LoadFile(annotationsPath)
			if err != nil {
				reportMissing(reporter, annotationsPath, err)
				return err
			}
			a.log.Debug().Int("disorders", len(disorders)).Msg("Disorder records decoded")

			reporter.Step("RDF generation...")
			annotator := annotate.New(mappings, a.cfg.Namespaces,
				annotate.WithWarner(reporter),
				annotate.WithRevised(revised || a.cfg.Revised),
			)
			result := annotator.Build(disorders)
			if err := result.WriteFile(outputPath); err != nil {
				return err
			}

			reporter.Success(`\o/ RDF disabilities conversion done!`)
			reporter.Detail("Diseases done: %d", result.Disorders)
			reporter.Detail("Output file: %s", outputPath)
			if reporter.Warnings() > 0 {
				reporter.Detail("Unmapped disabilities: %d", result.UnmappedDisabilities)
			}

			reporter.Info("Show results (first few lines):")
			reporter.Preview(result.Lines, previewLines)
			return nil
		},
	}

	cmd.Flags().String("thesaurus", "", "OFCO thesaurus (RDF/XML)")
	cmd.Flags().String("annotations", "", "Orphanet disability annotation export (XML)")
	cmd.Flags().StringP("output", "o", "", "Annotated output file")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress warnings for disabilities missing from the thesaurus")
	cmd.Flags().Bool("revised", false, "Emit disorder group and specific management fields")
	cmd.Flags().Bool("report-duplicates", false, "List mapping keys defined more than once in the thesaurus")

	return cmd
}

// loadGraph reads a thesaurus graph, as N-Triples when the file ends in .nt
// and as RDF/XML otherwise.
func loadGraph(path string) (*store.TripleStore, error) {
	if err := config.RequireFile(path); err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".nt") {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer file.Close()
		return store.ReadNTriples(file)
	}

	return rdfxml.ParseFile(path)
}

func (a *app) exportCSVCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-csv",
		Short: "Export the thesaurus and its ICF mappings to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			thesaurusPath := pathFlag(cmd, "thesaurus", a.cfg.Paths.Thesaurus)
			outputPath := pathFlag(cmd, "output", a.cfg.Paths.ThesaurusCSV)
			reporter := a.reporter(false)

			graph, err := loadGraph(thesaurusPath)
			if err != nil {
				reportMissing(reporter, thesaurusPath, err)
				return err
			}
			a.log.Debug().Int("triples", graph.Count()).Msg("Thesaurus graph loaded")

			rows := csvexport.Rows(graph, a.cfg.Properties)
			if err := csvexport.WriteFile(outputPath, rows); err != nil {
				return err
			}

			reporter.Success("CSV done: %s (%d rows)", outputPath, len(rows))
			return nil
		},
	}

	cmd.Flags().String("thesaurus", "", "OFCO thesaurus (RDF/XML or N-Triples)")
	cmd.Flags().StringP("output", "o", "", "CSV output file")

	return cmd
}

func (a *app) checkLabelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-labels",
		Short: "Report classes and annotation properties without an English label",
		RunE: func(cmd *cobra.Command, args []string) error {
			thesaurusPath := pathFlag(cmd, "thesaurus", a.cfg.Paths.Thesaurus)
			outputPath := pathFlag(cmd, "output", a.cfg.Paths.MissingLabelsReport)
			reporter := a.reporter(false)

			a.log.Info().Str("file", thesaurusPath).Msg("Loading ontology")
			graph, err := loadGraph(thesaurusPath)
			if err != nil {
				reportMissing(reporter, thesaurusPath, err)
				return err
			}

			report := check.NewLabelChecker(a.log).Check(graph, thesaurusPath)
			if err := report.WriteFile(outputPath); err != nil {
				return err
			}

			reporter.Success("Report written to %s", outputPath)
			reporter.Detail("Entities checked: %d", report.Checked)
			reporter.Detail("Missing English label: %d", len(report.Missing))
			return nil
		},
	}

	cmd.Flags().String("thesaurus", "", "OFCO thesaurus (RDF/XML or N-Triples)")
	cmd.Flags().StringP("output", "o", "", "Report output file")

	return cmd
}

func (a *app) checkICFCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-icf [csv-file]",
		Short: "Check ICF mapping coverage and shared exact mappings",
		Long: `Check-icf reads the CSV export and reports IRIs without any hasICFuri and
hasICFuri values shared by several IRIs through exact (E) mappings.

Example:
  ofco check-icf
  ofco check-icf OFCO_thesaurus_ICF.csv --output report.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := a.cfg.Paths.ThesaurusCSV
			if len(args) > 0 {
				inputPath = args[0]
			}
			outputPath := pathFlag(cmd, "output", a.cfg.Paths.ICFReport)
			reporter := a.reporter(false)

			report, err := check.AnalyzeICFFile(inputPath)
			if err != nil {
				reportMissing(reporter, inputPath, err)
				return err
			}

			fmt.Fprint(a.stdout, report.RenderConsole())
			if err := report.WriteFile(outputPath, a.now()); err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "\n✓ Results written to: %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "Report output file")

	return cmd
}

func (a *app) sssomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sssom",
		Short: "Generate an SSSOM mapping table from the mapping spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath := pathFlag(cmd, "input", a.cfg.Paths.MappingSpreadsheet)
			outputPath := pathFlag(cmd, "output", a.cfg.Paths.SSSOMOutput)
			metadata, _ := cmd.Flags().GetBool("metadata")
			reporter := a.reporter(false)

			settings := a.cfg.SSSOM
			settings.Metadata = settings.Metadata || metadata

			rows, err := sssom.ReadSpreadsheet(inputPath)
			if err != nil {
				reportMissing(reporter, inputPath, err)
				return err
			}

			mappings := sssom.BuildMappings(rows, settings)
			a.log.Debug().Int("rows", len(rows)).Int("mappings", len(mappings)).Msg("Spreadsheet converted")

			if err := sssom.WriteFile(outputPath, mappings, settings, a.cfg.Namespaces); err != nil {
				return err
			}

			reporter.Success("SSSOM generated in %s", outputPath)
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "Mapping spreadsheet (.xlsx)")
	cmd.Flags().StringP("output", "o", "", "SSSOM TSV output file")
	cmd.Flags().Bool("metadata", false, "Prepend the commented YAML metadata block")

	return cmd
}

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Re-serialize the thesaurus graph",
		Long: `Convert loads the thesaurus graph (RDF/XML, or N-Triples for .nt files)
and writes it sorted as Turtle, N-Triples, RDF/XML or JSON-LD. Repeating
--input merges the graphs before writing. Prefixes are taken from the
configured namespace table.

Example:
  ofco convert --format turtle
  ofco convert --input OFCO_thesaurus.nt --format rdfxml --output OFCO.rdf
  ofco convert --input OFCO_thesaurus.owl --input extra.nt --format jsonld --expanded`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPaths, _ := cmd.Flags().GetStringArray("input")
			if len(inputPaths) == 0 {
				inputPaths = []string{a.cfg.Paths.Thesaurus}
			}
			format, _ := cmd.Flags().GetString("format")
			expanded, _ := cmd.Flags().GetBool("expanded")
			reporter := a.reporter(false)
			prefixes := a.prefixMappings()

			var outputPath string
			var serialize func(*store.TripleStore) ([]byte, error)
			switch format {
			case "turtle", "ttl":
				outputPath = pathFlag(cmd, "output", a.cfg.Paths.TurtleOutput)
				options := []store.TurtleOption{store.WithoutDefaultPrefixes()}
				for _, mapping := range prefixes {
					options = append(options, store.WithPrefix(mapping.Prefix, mapping.Namespace))
				}
				serialize = serializeText(store.NewTurtleSerializer(options...).Serialize)
			case "ntriples", "nt":
				outputPath = pathFlag(cmd, "output", a.cfg.Paths.NTriplesOutput)
				serialize = serializeText(store.SerializeNTriples)
			case "rdfxml", "xml":
				outputPath = pathFlag(cmd, "output", a.cfg.Paths.RDFXMLOutput)
				options := []store.RDFXMLOption{store.WithoutRDFXMLDefaultPrefixes()}
				for _, mapping := range prefixes {
					options = append(options, store.WithRDFXMLPrefix(mapping.Prefix, mapping.Namespace))
				}
				serialize = serializeText(store.NewRDFXMLSerializer(options...).Serialize)
			case "jsonld", "json-ld":
				outputPath = pathFlag(cmd, "output", a.cfg.Paths.JSONLDOutput)
				options := []store.JSONLDOption{store.WithoutJSONLDDefaultPrefixes()}
				for _, mapping := range prefixes {
					options = append(options, store.WithJSONLDPrefix(mapping.Prefix, mapping.Namespace))
				}
				if expanded {
					options = append(options, store.WithExpandedForm())
				}
				serialize = store.NewJSONLDSerializer(options...).Serialize
			default:
				return fmt.Errorf("unknown format: %s (use turtle, ntriples, rdfxml or jsonld)", format)
			}

			graph, err := a.mergeGraphs(reporter, inputPaths)
			if err != nil {
				return err
			}

			document, err := serialize(graph)
			if err != nil {
				return fmt.Errorf("failed to serialize %s: %w", format, err)
			}
			if err := os.WriteFile(outputPath, document, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}

			reporter.Success("Converted %s to %s", strings.Join(inputPaths, ", "), format)
			reporter.Detail("Triples: %d", graph.Count())
			reporter.Detail("Predicates: %d", len(graph.Predicates()))
			reporter.Detail("Output file: %s", outputPath)
			return nil
		},
	}

	cmd.Flags().StringArrayP("input", "i", nil, "Input graph (RDF/XML or N-Triples); repeat to merge several graphs")
	cmd.Flags().StringP("format", "f", "turtle", "Output format: turtle, ntriples, rdfxml, jsonld")
	cmd.Flags().StringP("output", "o", "", "Output file")
	cmd.Flags().Bool("expanded", false, "Write expanded JSON-LD (full IRIs, no @context)")

	return cmd
}

// mergeGraphs loads every input graph into one store.
func (a *app) mergeGraphs(reporter *console.Reporter, paths []string) (*store.TripleStore, error) {
	merged := store.NewTripleStore()

	for _, path := range paths {
		graph, err := loadGraph(path)
		if err != nil {
			reportMissing(reporter, path, err)
			return nil, err
		}

		added := merged.MergeFrom(graph)
		a.log.Debug().
			Str("file", path).
			Int("triples", graph.Count()).
			Int("added", added).
			Msg("Graph merged")
	}

	return merged, nil
}

func serializeText(serialize func(*store.TripleStore) string) func(*store.TripleStore) ([]byte, error) {
	return func(graph *store.TripleStore) ([]byte, error) {
		return []byte(serialize(graph)), nil
	}
}

// prefixMappings lists the configured namespaces as serializer prefixes.
// Namespaces left empty in the configuration are not declared.
func (a *app) prefixMappings() []store.PrefixMapping {
	namespaces := a.cfg.Namespaces
	candidates := []store.PrefixMapping{
		{Prefix: "rdf", Namespace: namespaces.RDF},
		{Prefix: "rdfs", Namespace: namespaces.RDFS},
		{Prefix: "owl", Namespace: namespaces.OWL},
		{Prefix: "xsd", Namespace: namespaces.XSD},
		{Prefix: "skos", Namespace: namespaces.SKOS},
		{Prefix: "obo", Namespace: namespaces.OBO},
		{Prefix: "ofco", Namespace: namespaces.OFCO},
		{Prefix: "ordo", Namespace: namespaces.ORDO},
		{Prefix: "icf", Namespace: namespaces.ICF},
	}

	mappings := make([]store.PrefixMapping, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Namespace != "" {
			mappings = append(mappings, candidate)
		}
	}
	return mappings
}
