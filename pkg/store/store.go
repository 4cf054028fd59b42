package store

import (
	"fmt"
	"sort"
	"sync"
)

// TripleStore is an in-memory RDF graph with three indexes:
//   - SPO: Subject -> Predicate -> Object (find facts about a subject)
//   - POS: Predicate -> Object -> Subject (find subjects with property=value)
//   - OSP: Object -> Subject -> Predicate (find subjects pointing to object)
//
// Every query returns its results sorted so that the exports built on top of
// the store are deterministic.
type TripleStore struct {
	mu sync.RWMutex

	spo map[string]map[string]map[string]bool
	pos map[string]map[string]map[string]bool
	osp map[string]map[string]map[string]bool

	count int
}

// NewTripleStore creates a new in-memory triple store with all indexes initialized.
func NewTripleStore() *TripleStore {
	return &TripleStore{
		spo: make(map[string]map[string]map[string]bool),
		pos: make(map[string]map[string]map[string]bool),
		osp: make(map[string]map[string]map[string]bool),
	}
}

// Add inserts a triple into the store. Adding an existing triple is a no-op.
func (ts *TripleStore) Add(subject, predicate, object string) error {
	if subject == "" || predicate == "" || object == "" {
		return fmt.Errorf("triple components cannot be empty")
	}

	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.addUnsafe(subject, predicate, object)
	return nil
}

// AddTriple inserts a Triple struct into the store. Unlike Add it rejects
// triples whose terms are not well-formed for their position.
func (ts *TripleStore) AddTriple(triple Triple) error {
	if !triple.IsValid() {
		return fmt.Errorf("malformed triple: %s", triple)
	}
	return ts.Add(triple.Subject, triple.Predicate, triple.Object)
}

// BulkAdd inserts multiple triples under a single lock. Triples with empty
// components are skipped.
func (ts *TripleStore) BulkAdd(triples []Triple) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	for _, triple := range triples {
		if triple.Subject == "" || triple.Predicate == "" || triple.Object == "" {
			continue
		}
		ts.addUnsafe(triple.Subject, triple.Predicate, triple.Object)
	}
}

// MergeFrom copies all triples from the source store into this store and
// returns the number of new triples.
func (ts *TripleStore) MergeFrom(source *TripleStore) int {
	sourceTriples := source.All()
	previousCount := ts.Count()
	ts.BulkAdd(sourceTriples)
	return ts.Count() - previousCount
}

// Find queries triples matching the pattern. Use empty string "" for wildcards.
func (ts *TripleStore) Find(subject, predicate, object string) []Triple {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	results := ts.findUnsafe(subject, predicate, object)
	sortTriples(results)
	return results
}

// FindPattern queries using a TriplePattern.
func (ts *TripleStore) FindPattern(pattern TriplePattern) []Triple {
	return ts.Find(pattern.Subject, pattern.Predicate, pattern.Object)
}

// Exists checks if a specific triple exists in the store.
func (ts *TripleStore) Exists(subject, predicate, object string) bool {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.existsUnsafe(subject, predicate, object)
}

// Objects returns the sorted objects of all (subject, predicate, *) triples.
func (ts *TripleStore) Objects(subject, predicate string) []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	oMap := ts.spo[subject][predicate]
	objects := make([]string, 0, len(oMap))
	for object := range oMap {
		objects = append(objects, object)
	}
	sort.Strings(objects)
	return objects
}

// Value returns the first (sorted) object of (subject, predicate, *), or ""
// when there is none.
func (ts *TripleStore) Value(subject, predicate string) string {
	objects := ts.Objects(subject, predicate)
	if len(objects) == 0 {
		return ""
	}
	return objects[0]
}

// SubjectsWith returns the sorted subjects of all (*, predicate, object)
// triples. An empty object matches any object.
func (ts *TripleStore) SubjectsWith(predicate, object string) []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	seen := make(map[string]bool)
	if object != "" {
		for subject := range ts.pos[predicate][object] {
			seen[subject] = true
		}
	} else {
		for _, sMap := range ts.pos[predicate] {
			for subject := range sMap {
				seen[subject] = true
			}
		}
	}

	return sortedKeys(seen)
}

// Count returns the total number of triples in the store.
func (ts *TripleStore) Count() int {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.count
}

// Subjects returns all unique subjects in the store, sorted.
func (ts *TripleStore) Subjects() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return sortedKeys(ts.spo)
}

// Predicates returns all unique predicates in the store, sorted.
func (ts *TripleStore) Predicates() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return sortedKeys(ts.pos)
}

// String returns a summary of the store.
func (ts *TripleStore) String() string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return fmt.Sprintf("TripleStore{triples: %d, subjects: %d, predicates: %d, objects: %d}",
		ts.count, len(ts.spo), len(ts.pos), len(ts.osp))
}

// All returns all triples in the store, sorted.
func (ts *TripleStore) All() []Triple {
	return ts.Find("", "", "")
}

func (ts *TripleStore) addUnsafe(subject, predicate, object string) {
	if ts.existsUnsafe(subject, predicate, object) {
		return
	}

	if ts.spo[subject] == nil {
		ts.spo[subject] = make(map[string]map[string]bool)
	}
	if ts.spo[subject][predicate] == nil {
		ts.spo[subject][predicate] = make(map[string]bool)
	}
	ts.spo[subject][predicate][object] = true

	if ts.pos[predicate] == nil {
		ts.pos[predicate] = make(map[string]map[string]bool)
	}
	if ts.pos[predicate][object] == nil {
		ts.pos[predicate][object] = make(map[string]bool)
	}
	ts.pos[predicate][object][subject] = true

	if ts.osp[object] == nil {
		ts.osp[object] = make(map[string]map[string]bool)
	}
	if ts.osp[object][subject] == nil {
		ts.osp[object][subject] = make(map[string]bool)
	}
	ts.osp[object][subject][predicate] = true

	ts.count++
}

// existsUnsafe checks if a triple exists without locking.
func (ts *TripleStore) existsUnsafe(subject, predicate, object string) bool {
	if pMap, ok := ts.spo[subject]; ok {
		if oMap, ok := pMap[predicate]; ok {
			return oMap[object]
		}
	}
	return false
}

// findUnsafe finds triples without locking, using the most specific index.
func (ts *TripleStore) findUnsafe(subject, predicate, object string) []Triple {
	var results []Triple

	switch {
	case subject != "":
		for p, oMap := range ts.spo[subject] {
			if predicate != "" && p != predicate {
				continue
			}
			for o := range oMap {
				if object != "" && o != object {
					continue
				}
				results = append(results, Triple{Subject: subject, Predicate: p, Object: o})
			}
		}
	case predicate != "":
		for o, sMap := range ts.pos[predicate] {
			if object != "" && o != object {
				continue
			}
			for s := range sMap {
				results = append(results, Triple{Subject: s, Predicate: predicate, Object: o})
			}
		}
	case object != "":
		for s, pMap := range ts.osp[object] {
			for p := range pMap {
				results = append(results, Triple{Subject: s, Predicate: p, Object: object})
			}
		}
	default:
		for s, pMap := range ts.spo {
			for p, oMap := range pMap {
				for o := range oMap {
					results = append(results, Triple{Subject: s, Predicate: p, Object: o})
				}
			}
		}
	}

	return results
}

func sortTriples(triples []Triple) {
	sort.Slice(triples, func(i, j int) bool {
		if triples[i].Subject != triples[j].Subject {
			return triples[i].Subject < triples[j].Subject
		}
		if triples[i].Predicate != triples[j].Predicate {
			return triples[i].Predicate < triples[j].Predicate
		}
		return triples[i].Object < triples[j].Object
	})
}

// sortedKeys returns the keys of a map sorted alphabetically.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
