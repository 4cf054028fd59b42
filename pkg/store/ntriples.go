package store

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// WriteNTriples writes every triple of the store as one sorted N-Triples line.
func WriteNTriples(writer io.Writer, store *TripleStore) error {
	buffered := bufio.NewWriter(writer)

	for _, triple := range store.All() {
		statement := &rdf.Statement{
			Subject:   rdf.Term{Value: triple.Subject},
			Predicate: rdf.Term{Value: triple.Predicate},
			Object:    rdf.Term{Value: triple.Object},
		}
		if _, err := fmt.Fprintln(buffered, statement); err != nil {
			return fmt.Errorf("failed to write N-Triples: %w", err)
		}
	}

	return buffered.Flush()
}

// SerializeNTriples returns the store as an N-Triples document.
func SerializeNTriples(store *TripleStore) string {
	var builder strings.Builder
	_ = WriteNTriples(&builder, store)
	return builder.String()
}

// ReadNTriples loads an N-Triples (or N-Quads, graph labels dropped) document.
func ReadNTriples(reader io.Reader) (*TripleStore, error) {
	tripleStore := NewTripleStore()
	decoder := rdf.NewDecoder(reader)

	for {
		statement, err := decoder.Unmarshal()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode N-Triples: %w", err)
		}

		triple := NewTriple(statement.Subject.Value, statement.Predicate.Value, statement.Object.Value)
		if err := tripleStore.AddTriple(triple); err != nil {
			return nil, fmt.Errorf("invalid statement %s: %w", statement, err)
		}
	}

	return tripleStore, nil
}
