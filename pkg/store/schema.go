// Package store provides an in-memory RDF graph for the OFCO thesaurus, the
// term encoding it uses and serializers to Turtle, N-Triples and RDF/XML.
package store

// Standard namespace URIs.
const (
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
	NamespaceSKOS = "http://www.w3.org/2004/02/skos/core#"
	NamespaceOBO  = "http://purl.obolibrary.org/obo/"

	// NamespaceOFCO is the OFCO thesaurus namespace.
	NamespaceOFCO = "https://w3id.org/ofco/"

	// NamespaceORDO is the Orphanet Rare Disease Ontology namespace.
	NamespaceORDO = "http://www.orpha.net/ORDO/"
)

// RDF vocabulary terms used by the decoder and the exports, in term form.
var (
	RDFType        = IRI(NamespaceRDF + "type")
	RDFFirst       = IRI(NamespaceRDF + "first")
	RDFRest        = IRI(NamespaceRDF + "rest")
	RDFNil         = IRI(NamespaceRDF + "nil")
	RDFSLabel      = IRI(NamespaceRDFS + "label")
	RDFSSubClassOf = IRI(NamespaceRDFS + "subClassOf")

	RDFXMLLiteral = NamespaceRDF + "XMLLiteral"

	OWLClass              = IRI(NamespaceOWL + "Class")
	OWLAnnotationProperty = IRI(NamespaceOWL + "AnnotationProperty")
	OWLAxiom              = IRI(NamespaceOWL + "Axiom")
	OWLAnnotatedSource    = IRI(NamespaceOWL + "annotatedSource")
	OWLAnnotatedProperty  = IRI(NamespaceOWL + "annotatedProperty")
	OWLAnnotatedTarget    = IRI(NamespaceOWL + "annotatedTarget")
)
