package store

import "fmt"

// Triple represents an RDF Subject-Predicate-Object statement. Each component
// is a term in N-Triples lexical form (see IRI, Blank, Literal):
//   - Subject: an IRI or blank node (e.g., "<https://w3id.org/ofco/C01>")
//   - Predicate: an IRI (e.g., "<http://www.w3.org/2000/01/rdf-schema#label>")
//   - Object: an IRI, blank node or literal (e.g., "\"Walking\"@en")
type Triple struct {
	Subject   string
	Predicate string
	Object    string
}

// NewTriple creates a new triple with the given components.
func NewTriple(subject, predicate, object string) Triple {
	return Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

// String returns the triple as an N-Triples statement.
func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// IsValid returns true if the subject is an IRI or blank node, the predicate
// an IRI and the object any well-formed term.
func (t Triple) IsValid() bool {
	subjectKind := Kind(t.Subject)
	return (subjectKind == KindIRI || subjectKind == KindBlank) &&
		Kind(t.Predicate) == KindIRI &&
		Kind(t.Object) != KindInvalid
}

// TriplePattern represents a pattern for matching triples.
// Empty strings act as wildcards that match any value.
type TriplePattern struct {
	Subject   string
	Predicate string
	Object    string
}

// NewTriplePattern creates a new pattern for querying.
// Use empty string "" for wildcards.
func NewTriplePattern(subject, predicate, object string) TriplePattern {
	return TriplePattern{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}
