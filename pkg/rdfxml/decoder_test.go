package rdfxml

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/ofco/pkg/store"
)

const thesaurusFixture = `<?xml version="1.0"?>
<!DOCTYPE rdf:RDF [
    <!ENTITY owl "http://www.w3.org/2002/07/owl#" >
    <!ENTITY xsd "http://www.w3.org/2001/XMLSchema#" >
]>
<rdf:RDF xmlns="https://w3id.org/ofco/"
     xml:base="https://w3id.org/ofco/"
     xmlns:owl="http://www.w3.org/2002/07/owl#"
     xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
     xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#"
     xmlns:ofco="https://w3id.org/ofco/">
    <owl:Ontology rdf:about="https://w3id.org/ofco"/>
    <owl:Class rdf:about="C01">
        <rdfs:label xml:lang="en">Walking</rdfs:label>
        <rdfs:label xml:lang="fr">Marcher</rdfs:label>
        <ofco:hasICFuri rdf:resource="http://id.who.int/icd/entity/1"/>
        <ofco:hasICFcode rdf:datatype="&xsd;string">d450</ofco:hasICFcode>
    </owl:Class>
    <owl:Class rdf:about="https://w3id.org/ofco/C02">
        <rdfs:subClassOf rdf:resource="C01"/>
    </owl:Class>
    <owl:Axiom>
        <owl:annotatedSource rdf:resource="C01"/>
        <owl:annotatedProperty rdf:resource="https://w3id.org/ofco/hasICFuri"/>
        <owl:annotatedTarget rdf:resource="http://id.who.int/icd/entity/1"/>
    </owl:Axiom>
</rdf:RDF>
`

func mustParse(t *testing.T, document string) *store.TripleStore {
	t.Helper()

	tripleStore, err := Parse(strings.NewReader(document))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return tripleStore
}

func TestParse_Thesaurus(t *testing.T) {
	tripleStore := mustParse(t, thesaurusFixture)

	classC01 := store.IRI("https://w3id.org/ofco/C01")
	classC02 := store.IRI("https://w3id.org/ofco/C02")

	testCases := []struct {
		name      string
		subject   string
		predicate string
		object    string
	}{
		{"ontology header", store.IRI("https://w3id.org/ofco"), store.RDFType, store.IRI(store.NamespaceOWL + "Ontology")},
		{"class with base-relative about", classC01, store.RDFType, store.OWLClass},
		{"english label", classC01, store.RDFSLabel, store.LangLiteral("Walking", "en")},
		{"french label", classC01, store.RDFSLabel, store.LangLiteral("Marcher", "fr")},
		{"resource object", classC01, store.IRI(store.NamespaceOFCO + "hasICFuri"), store.IRI("http://id.who.int/icd/entity/1")},
		{"entity-expanded datatype", classC01, store.IRI(store.NamespaceOFCO + "hasICFcode"), store.TypedLiteral("d450", store.NamespaceXSD+"string")},
		{"relative resource", classC02, store.RDFSSubClassOf, classC01},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if !tripleStore.Exists(testCase.subject, testCase.predicate, testCase.object) {
				t.Errorf("Missing triple %s %s %s\nstore:\n%s", testCase.subject, testCase.predicate, testCase.object,
					store.SerializeNTriples(tripleStore))
			}
		})
	}

	axioms := tripleStore.SubjectsWith(store.RDFType, store.OWLAxiom)
	if len(axioms) != 1 || !store.IsBlank(axioms[0]) {
		t.Fatalf("Expected one blank axiom, got %v", axioms)
	}
	if source := tripleStore.Value(axioms[0], store.OWLAnnotatedSource); source != classC01 {
		t.Errorf("annotatedSource = %s, want %s", source, classC01)
	}

	if tripleStore.Count() != 12 {
		t.Errorf("Count = %d, want 12", tripleStore.Count())
	}
}

func TestParse_ParseTypes(t *testing.T) {
	document := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:owl="http://www.w3.org/2002/07/owl#"
         xmlns:ex="http://example.org/">
  <owl:Class rdf:about="http://example.org/A">
    <owl:intersectionOf rdf:parseType="Collection">
      <rdf:Description rdf:about="http://example.org/B"/>
      <owl:Restriction>
        <owl:onProperty rdf:resource="http://example.org/p"/>
        <owl:hasValue>v1</owl:hasValue>
      </owl:Restriction>
    </owl:intersectionOf>
    <ex:annotation rdf:parseType="Resource">
      <ex:note xml:lang="en">nested</ex:note>
    </ex:annotation>
    <ex:markup rdf:parseType="Literal">a <b>bold</b> word</ex:markup>
  </owl:Class>
</rdf:RDF>`

	tripleStore := mustParse(t, document)
	classA := store.IRI("http://example.org/A")

	head := tripleStore.Value(classA, store.IRI(store.NamespaceOWL+"intersectionOf"))
	if !store.IsBlank(head) {
		t.Fatalf("intersectionOf should point at a list cell, got %q", head)
	}
	if first := tripleStore.Value(head, store.RDFFirst); first != store.IRI("http://example.org/B") {
		t.Errorf("first item = %s", first)
	}
	second := tripleStore.Value(head, store.RDFRest)
	restriction := tripleStore.Value(second, store.RDFFirst)
	if !tripleStore.Exists(restriction, store.RDFType, store.IRI(store.NamespaceOWL+"Restriction")) {
		t.Errorf("second item should be the restriction, got %s", restriction)
	}
	if !tripleStore.Exists(restriction, store.IRI(store.NamespaceOWL+"hasValue"), store.Literal("v1")) {
		t.Error("restriction hasValue missing")
	}
	if tail := tripleStore.Value(second, store.RDFRest); tail != store.RDFNil {
		t.Errorf("list should end with rdf:nil, got %s", tail)
	}

	annotation := tripleStore.Value(classA, store.IRI("http://example.org/annotation"))
	if !tripleStore.Exists(annotation, store.IRI("http://example.org/note"), store.LangLiteral("nested", "en")) {
		t.Errorf("parseType Resource content missing on %s", annotation)
	}

	markup := tripleStore.Value(classA, store.IRI("http://example.org/markup"))
	expected := store.TypedLiteral("a <b xmlns=\"\">bold</b> word", store.RDFXMLLiteral)
	if markup != expected {
		t.Errorf("markup = %s, want %s", markup, expected)
	}
}

func TestParse_NodeForms(t *testing.T) {
	document := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:ex="http://example.org/" xml:base="http://example.org/doc" xml:lang="en">
  <ex:Thing rdf:ID="t1" ex:title="First">
    <ex:knows rdf:nodeID="n1"/>
    <ex:child>
      <ex:Thing rdf:about="#t2"/>
    </ex:child>
    <ex:empty/>
    <ex:untagged xml:lang="">plain</ex:untagged>
  </ex:Thing>
  <rdf:Description rdf:nodeID="n1" rdf:type="http://example.org/Person">
    <ex:seq>
      <rdf:Seq>
        <rdf:li>one</rdf:li>
        <rdf:li>two</rdf:li>
      </rdf:Seq>
    </ex:seq>
  </rdf:Description>
</rdf:RDF>`

	tripleStore := mustParse(t, document)
	thing1 := store.IRI("http://example.org/doc#t1")
	thing2 := store.IRI("http://example.org/doc#t2")
	node := store.Blank("n1")

	expected := []store.Triple{
		store.NewTriple(thing1, store.RDFType, store.IRI("http://example.org/Thing")),
		store.NewTriple(thing1, store.IRI("http://example.org/title"), store.LangLiteral("First", "en")),
		store.NewTriple(thing1, store.IRI("http://example.org/knows"), node),
		store.NewTriple(thing1, store.IRI("http://example.org/child"), thing2),
		store.NewTriple(thing2, store.RDFType, store.IRI("http://example.org/Thing")),
		store.NewTriple(thing1, store.IRI("http://example.org/empty"), store.LangLiteral("", "en")),
		store.NewTriple(thing1, store.IRI("http://example.org/untagged"), store.Literal("plain")),
		store.NewTriple(node, store.RDFType, store.IRI("http://example.org/Person")),
	}
	for _, triple := range expected {
		if !tripleStore.Exists(triple.Subject, triple.Predicate, triple.Object) {
			t.Errorf("Missing triple %s", triple)
		}
	}

	sequence := tripleStore.Value(node, store.IRI("http://example.org/seq"))
	if !tripleStore.Exists(sequence, store.IRI(store.NamespaceRDF+"_1"), store.LangLiteral("one", "en")) ||
		!tripleStore.Exists(sequence, store.IRI(store.NamespaceRDF+"_2"), store.LangLiteral("two", "en")) {
		t.Errorf("rdf:li members missing on %s", sequence)
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		document string
	}{
		{"malformed XML", `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><unclosed></rdf:RDF>`},
		{"property without namespace", `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description><plain/></rdf:Description></rdf:RDF>`},
		{"two node elements", `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:ex="http://example.org/">
  <rdf:Description><ex:p><rdf:Description/><rdf:Description/></ex:p></rdf:Description></rdf:RDF>`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(testCase.document)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thesaurus.owl")
	if err := os.WriteFile(path, []byte(thesaurusFixture), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tripleStore, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if tripleStore.Count() == 0 {
		t.Error("Expected triples from file")
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.owl")); err == nil {
		t.Error("Expected error for missing file")
	}
}
