package csvexport

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/ofco/pkg/config"
	"github.com/coolbeans/ofco/pkg/rdfxml"
	"github.com/coolbeans/ofco/pkg/store"
)

const thesaurusFixture = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
         xmlns:owl="http://www.w3.org/2002/07/owl#"
         xmlns:obo="http://purl.obolibrary.org/obo/"
         xmlns:ofco="https://w3id.org/ofco/">
  <owl:Class rdf:about="https://w3id.org/ofco/C01">
    <rdfs:label xml:lang="en">Walking</rdfs:label>
    <rdfs:subClassOf rdf:resource="https://w3id.org/ofco/Root"/>
    <rdfs:subClassOf rdf:resource="https://w3id.org/ofco/Other"/>
    <ofco:hasICFuri rdf:resource="http://id.who.int/icd/entity/1"/>
  </owl:Class>
  <owl:Axiom>
    <owl:annotatedSource rdf:resource="https://w3id.org/ofco/C01"/>
    <owl:annotatedProperty rdf:resource="https://w3id.org/ofco/hasICFuri"/>
    <owl:annotatedTarget rdf:resource="http://id.who.int/icd/entity/1"/>
    <ofco:hasICFcode>d450</ofco:hasICFcode>
    <obo:ECO_0000218>E (Exact mapping)</obo:ECO_0000218>
  </owl:Axiom>
  <owl:Class rdf:about="https://w3id.org/ofco/C02">
    <rdfs:label xml:lang="en">Stairs</rdfs:label>
    <ofco:hasICFuri rdf:resource="http://id.who.int/icd/entity/u2"/>
    <ofco:hasICFuri rdf:resource="http://id.who.int/icd/entity/u1"/>
    <ofco:hasICFcode>d4551</ofco:hasICFcode>
  </owl:Class>
  <owl:Class rdf:about="https://w3id.org/ofco/C03">
    <rdfs:label xml:lang="en">Lonely</rdfs:label>
  </owl:Class>
  <owl:Class rdf:about="https://w3id.org/ofco/NoLabel"/>
</rdf:RDF>
`

func loadFixture(t *testing.T) *store.TripleStore {
	t.Helper()

	graph, err := rdfxml.Parse(strings.NewReader(thesaurusFixture))
	require.NoError(t, err)
	return graph
}

func TestRows(t *testing.T) {
	rows := Rows(loadFixture(t), config.Default().Properties)

	expected := []Row{
		{IRI: "https://w3id.org/ofco/C01", Label: "Walking", Parent: "https://w3id.org/ofco/Other",
			ICFURI: "http://id.who.int/icd/entity/1", ICFCode: "d450", ManualAssertion: "E (Exact mapping)"},
		{IRI: "https://w3id.org/ofco/C01", Label: "Walking", Parent: "https://w3id.org/ofco/Root",
			ICFURI: "http://id.who.int/icd/entity/1", ICFCode: "d450", ManualAssertion: "E (Exact mapping)"},
		{IRI: "https://w3id.org/ofco/C02", Label: "Stairs", ICFURI: "http://id.who.int/icd/entity/u1", ICFCode: "d4551"},
		{IRI: "https://w3id.org/ofco/C02", Label: "Stairs", ICFURI: "http://id.who.int/icd/entity/u2", ICFCode: "d4551"},
		{IRI: "https://w3id.org/ofco/C03", Label: "Lonely"},
	}
	assert.Equal(t, expected, rows)
}

func TestRows_DirectMappingWithoutCode(t *testing.T) {
	graph := store.NewTripleStore()
	subject := store.IRI("https://w3id.org/ofco/C09")
	require.NoError(t, graph.Add(subject, store.RDFSLabel, store.Literal("Only uri")))
	require.NoError(t, graph.Add(subject, store.IRI(config.Default().Properties.HasICFURI), store.IRI("http://id.who.int/icd/entity/9")))

	rows := Rows(graph, config.Default().Properties)

	require.Len(t, rows, 1)
	assert.Equal(t, "http://id.who.int/icd/entity/9", rows[0].ICFURI)
	assert.Empty(t, rows[0].ICFCode)
	assert.Empty(t, rows[0].ManualAssertion)
}

func TestRows_BlankSubjectPrintsEmpty(t *testing.T) {
	graph := store.NewTripleStore()
	require.NoError(t, graph.Add(store.Blank("b1"), store.RDFSLabel, store.Literal("anonymous")))

	rows := Rows(graph, config.Default().Properties)

	require.Len(t, rows, 1)
	assert.Equal(t, Row{Label: "anonymous"}, rows[0])
}

func TestRows_LabelTrimmed(t *testing.T) {
	graph := store.NewTripleStore()
	subject := store.IRI("https://w3id.org/ofco/C10")
	require.NoError(t, graph.Add(subject, store.RDFSLabel, store.LangLiteral(" Walking long distances ", "en")))

	rows := Rows(graph, config.Default().Properties)
	require.Len(t, rows, 1)
	assert.Equal(t, "Walking long distances", rows[0].Label)

	document, err := Format(rows)
	require.NoError(t, err)
	assert.Contains(t, document, "https://w3id.org/ofco/C10;Walking long distances;;;;\r\n")
}

func TestRows_AnnotatedSourceWithoutAxiomType(t *testing.T) {
	properties := config.Default().Properties
	graph := store.NewTripleStore()
	subject := store.IRI("https://w3id.org/ofco/C11")
	require.NoError(t, graph.Add(subject, store.RDFSLabel, store.Literal("Reaching")))
	require.NoError(t, graph.Add(subject, store.IRI(properties.HasICFURI), store.IRI("http://id.who.int/icd/entity/11")))

	untyped := store.Blank("n1")
	require.NoError(t, graph.Add(untyped, store.OWLAnnotatedSource, subject))
	require.NoError(t, graph.Add(untyped, store.OWLAnnotatedProperty, store.IRI(properties.HasICFURI)))
	require.NoError(t, graph.Add(untyped, store.OWLAnnotatedTarget, store.IRI("http://id.who.int/icd/entity/99")))

	rows := Rows(graph, properties)

	require.Len(t, rows, 1)
	assert.Equal(t, "http://id.who.int/icd/entity/11", rows[0].ICFURI)
}

func TestFormat(t *testing.T) {
	document, err := Format([]Row{
		{IRI: "https://w3id.org/ofco/C03", Label: "Lonely"},
		{IRI: "https://w3id.org/ofco/C04", Label: `semi;colon "quoted"`},
	})
	require.NoError(t, err)

	expected := "IRI;Label;Parent;hasICFuri;hasICFcode;ManualAssertion\r\n" +
		"https://w3id.org/ofco/C03;Lonely;;;;\r\n" +
		"https://w3id.org/ofco/C04;\"semi;colon \"\"quoted\"\"\";;;;\r\n"
	assert.Equal(t, expected, document)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "OFCO_thesaurus_ICF.csv")
	rows := Rows(loadFixture(t), config.Default().Properties)

	require.NoError(t, WriteFile(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\r\n"), "\r\n")
	assert.Len(t, lines, len(rows)+1)
	assert.Equal(t, strings.Join(Header, ";"), lines[0])

	assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), rows))
}
