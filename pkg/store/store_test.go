package store

import (
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *TripleStore {
	t.Helper()

	tripleStore := NewTripleStore()
	triples := []Triple{
		NewTriple(testClassC01, RDFType, OWLClass),
		NewTriple(testClassC01, RDFSLabel, LangLiteral("Walking", "en")),
		NewTriple(testClassC01, RDFSLabel, LangLiteral("Marcher", "fr")),
		NewTriple(testClassC02, RDFType, OWLClass),
		NewTriple(testClassC02, RDFSSubClassOf, testClassC01),
		NewTriple(Blank("ax1"), RDFType, OWLAxiom),
		NewTriple(Blank("ax1"), OWLAnnotatedSource, testClassC02),
	}
	for _, triple := range triples {
		if err := tripleStore.AddTriple(triple); err != nil {
			t.Fatalf("AddTriple failed: %v", err)
		}
	}
	return tripleStore
}

func TestNewTripleStore(t *testing.T) {
	tripleStore := NewTripleStore()

	if tripleStore.Count() != 0 {
		t.Errorf("New store should have 0 triples, got %d", tripleStore.Count())
	}
}

func TestTripleStore_Add(t *testing.T) {
	tripleStore := NewTripleStore()

	if err := tripleStore.Add(testClassC01, RDFType, OWLClass); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	// Adding the same triple again is a no-op
	if err := tripleStore.Add(testClassC01, RDFType, OWLClass); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if tripleStore.Count() != 1 {
		t.Errorf("Expected 1 triple after duplicate add, got %d", tripleStore.Count())
	}

	if err := tripleStore.Add(testClassC01, "", OWLClass); err == nil {
		t.Error("Expected error for empty predicate")
	}
}

func TestTripleStore_AddTriple_Malformed(t *testing.T) {
	tripleStore := NewTripleStore()

	testCases := []struct {
		name   string
		triple Triple
	}{
		{"literal subject", NewTriple(Literal("x"), RDFType, OWLClass)},
		{"blank predicate", NewTriple(testClassC01, Blank("p"), OWLClass)},
		{"bare string", NewTriple("C01", RDFType, OWLClass)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if err := tripleStore.AddTriple(testCase.triple); err == nil {
				t.Errorf("Expected error for %s", testCase.triple)
			}
		})
	}

	if tripleStore.Count() != 0 {
		t.Errorf("Malformed triples were stored: %d", tripleStore.Count())
	}
}

func TestTripleStore_FindPattern(t *testing.T) {
	tripleStore := newTestStore(t)

	axioms := tripleStore.FindPattern(NewTriplePattern("", OWLAnnotatedSource, testClassC02))
	if len(axioms) != 1 || axioms[0].Subject != Blank("ax1") {
		t.Errorf("FindPattern(*, owl:annotatedSource, C02) = %v", axioms)
	}

	if all := tripleStore.FindPattern(NewTriplePattern("", "", "")); len(all) != 7 {
		t.Errorf("Wildcard pattern returned %d triples, want 7", len(all))
	}
}

func TestTripleStore_Find(t *testing.T) {
	tripleStore := newTestStore(t)

	testCases := []struct {
		name      string
		subject   string
		predicate string
		object    string
		expected  int
	}{
		{"all", "", "", "", 7},
		{"by subject", testClassC01, "", "", 3},
		{"by subject and predicate", testClassC01, RDFSLabel, "", 2},
		{"exact", testClassC02, RDFSSubClassOf, testClassC01, 1},
		{"by predicate", RDFType, "", "", 0},
		{"by predicate only", "", RDFType, "", 3},
		{"by predicate and object", "", RDFType, OWLClass, 2},
		{"by object", "", "", testClassC02, 1},
		{"subject and object", testClassC01, "", OWLClass, 1},
		{"missing subject", testClassC01 + "x", "", "", 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			results := tripleStore.Find(testCase.subject, testCase.predicate, testCase.object)
			if len(results) != testCase.expected {
				t.Errorf("Find returned %d triples, want %d: %v", len(results), testCase.expected, results)
			}
		})
	}
}

func TestTripleStore_FindIsSorted(t *testing.T) {
	tripleStore := newTestStore(t)

	all := tripleStore.All()
	for index := 1; index < len(all); index++ {
		previous, current := all[index-1], all[index]
		if previous.Subject > current.Subject {
			t.Fatalf("All() not sorted at %d: %v before %v", index, previous, current)
		}
	}

	if first := all[0].Subject; first != Blank("ax1") && !strings.HasPrefix(first, "<") {
		t.Errorf("Unexpected first subject %s", first)
	}
}

func TestTripleStore_ObjectsAndValue(t *testing.T) {
	tripleStore := newTestStore(t)

	labels := tripleStore.Objects(testClassC01, RDFSLabel)
	expected := []string{`"Marcher"@fr`, `"Walking"@en`}
	if strings.Join(labels, "|") != strings.Join(expected, "|") {
		t.Errorf("Objects = %v, want %v", labels, expected)
	}

	if value := tripleStore.Value(testClassC01, RDFSLabel); value != `"Marcher"@fr` {
		t.Errorf("Value = %s, want first sorted label", value)
	}
	if value := tripleStore.Value(testClassC01, RDFSSubClassOf); value != "" {
		t.Errorf("Value = %s, want empty", value)
	}
}

func TestTripleStore_SubjectsWith(t *testing.T) {
	tripleStore := newTestStore(t)

	classes := tripleStore.SubjectsWith(RDFType, OWLClass)
	if strings.Join(classes, ",") != testClassC01+","+testClassC02 {
		t.Errorf("SubjectsWith(rdf:type, owl:Class) = %v", classes)
	}

	labelled := tripleStore.SubjectsWith(RDFSLabel, "")
	if len(labelled) != 1 || labelled[0] != testClassC01 {
		t.Errorf("SubjectsWith(rdfs:label, *) = %v", labelled)
	}

	if none := tripleStore.SubjectsWith(RDFSLabel, Literal("nothing")); len(none) != 0 {
		t.Errorf("Expected no subjects, got %v", none)
	}
}

func TestTripleStore_MergeFrom(t *testing.T) {
	target := NewTripleStore()
	_ = target.Add(testClassC01, RDFType, OWLClass)

	added := target.MergeFrom(newTestStore(t))
	if added != 6 {
		t.Errorf("MergeFrom added %d, want 6", added)
	}
	if target.Count() != 7 {
		t.Errorf("Count = %d, want 7", target.Count())
	}
}

func TestTripleStore_Listings(t *testing.T) {
	tripleStore := newTestStore(t)

	if got := len(tripleStore.Subjects()); got != 3 {
		t.Errorf("Subjects() = %d, want 3", got)
	}
	if got := len(tripleStore.Predicates()); got != 4 {
		t.Errorf("Predicates() = %d, want 4", got)
	}
	if !tripleStore.Exists(testClassC02, RDFSSubClassOf, testClassC01) {
		t.Error("Expected subClassOf triple to exist")
	}
	if !strings.Contains(tripleStore.String(), "triples: 7") {
		t.Errorf("Unexpected summary %s", tripleStore.String())
	}
}
