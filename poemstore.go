package poemquiz

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"sync"
	"time"
)

// expectedPoemCount is the size of a complete Hyakunin Isshu corpus. Corpus
// ids must fall in [1, expectedPoemCount]; a different total is tolerated
// with a warning so partial datasets stay usable during development.
const expectedPoemCount = 100

// PoemRepository serves validated poem records to the quiz engine.
type PoemRepository interface {
	// PoemCount returns the number of loaded records.
	PoemCount() int
	// PoemByID returns the poem with the given id.
	PoemByID(id int) (Poem, bool)
	// Poems returns all records in load order.
	Poems() []Poem
	// RandomPoems samples count poems without replacement, skipping
	// excludeID when it is non-zero.
	RandomPoems(count int, excludeID int) []Poem
}

// PoemStore is the in-memory poem repository backing the quiz engine. The
// record set is read-only after construction; the sampling source is guarded
// so RandomPoems is safe for concurrent callers.
type PoemStore struct {
	poems []Poem
	byID  map[int]Poem

	mu  sync.Mutex
	rng *rand.Rand
}

// LoadPoems reads and validates a poem corpus from a JSON file.
func LoadPoems(path string) ([]Poem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read poem data: %w", err)
	}

	var poems []Poem
	if err := json.Unmarshal(data, &poems); err != nil {
		return nil, fmt.Errorf("invalid poem data in %s: %w", path, err)
	}

	if err := validatePoems(poems); err != nil {
		return nil, fmt.Errorf("invalid poem data in %s: %w", path, err)
	}
	return poems, nil
}

// LoadPoemStore builds a PoemStore from a JSON corpus file.
func LoadPoemStore(path string) (*PoemStore, error) {
	poems, err := LoadPoems(path)
	if err != nil {
		return nil, err
	}
	return newPoemStore(poems), nil
}

// NewPoemStore builds a PoemStore from already-parsed records, applying the
// same validation as LoadPoemStore.
func NewPoemStore(poems []Poem) (*PoemStore, error) {
	if err := validatePoems(poems); err != nil {
		return nil, err
	}
	return newPoemStore(poems), nil
}

func newPoemStore(poems []Poem) *PoemStore {
	byID := make(map[int]Poem, len(poems))
	for _, p := range poems {
		byID[p.ID] = p
	}
	return &PoemStore{
		poems: append([]Poem(nil), poems...),
		byID:  byID,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// validatePoems enforces the load-time corpus contract: required fields
// present and non-empty, ids within range. A record count other than the
// full corpus is only warned about.
func validatePoems(poems []Poem) error {
	if len(poems) == 0 {
		return fmt.Errorf("poem data is empty")
	}

	if len(poems) != expectedPoemCount {
		log.Printf("warning: poem corpus has %d records, expected %d", len(poems), expectedPoemCount)
	}

	for i, p := range poems {
		if p.ID < 1 || p.ID > expectedPoemCount {
			return fmt.Errorf("record %d: id %d out of range [1,%d]", i, p.ID, expectedPoemCount)
		}
		for _, f := range []struct {
			name  string
			value string
		}{
			{"author", p.Author},
			{"upper", p.Upper},
			{"lower", p.Lower},
		} {
			if f.value == "" {
				return fmt.Errorf("record %d (id %d): required field %q is missing or empty", i, p.ID, f.name)
			}
		}
	}
	return nil
}

// PoemCount returns the number of loaded poems.
func (ps *PoemStore) PoemCount() int {
	return len(ps.poems)
}

// PoemByID returns the poem with the given id.
func (ps *PoemStore) PoemByID(id int) (Poem, bool) {
	p, ok := ps.byID[id]
	return p, ok
}

// Poems returns all poems in load order. The returned slice is a copy.
func (ps *PoemStore) Poems() []Poem {
	return append([]Poem(nil), ps.poems...)
}

// RandomPoems samples count poems without replacement, skipping excludeID
// when it is non-zero. Fewer poems are returned when the corpus is smaller
// than count.
func (ps *PoemStore) RandomPoems(count int, excludeID int) []Poem {
	available := make([]Poem, 0, len(ps.poems))
	for _, p := range ps.poems {
		if excludeID == 0 || p.ID != excludeID {
			available = append(available, p)
		}
	}

	ps.mu.Lock()
	ps.rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})
	ps.mu.Unlock()

	if count > len(available) {
		count = len(available)
	}
	return available[:count]
}

// Authors returns every distinct author name, sorted.
func (ps *PoemStore) Authors() []string {
	seen := make(map[string]bool)
	var authors []string
	for _, p := range ps.poems {
		if !seen[p.Author] {
			seen[p.Author] = true
			authors = append(authors, p.Author)
		}
	}
	sort.Strings(authors)
	return authors
}

// PoemsByAuthor returns all poems attributed to the given author.
func (ps *PoemStore) PoemsByAuthor(author string) []Poem {
	var out []Poem
	for _, p := range ps.poems {
		if p.Author == author {
			out = append(out, p)
		}
	}
	return out
}

// PoemOfTheDay picks the poem for the given date. The pick is seeded from
// the date alone, so every caller sees the same poem on the same day, and
// the quiz engine's own random source is left untouched.
func (ps *PoemStore) PoemOfTheDay(day time.Time) Poem {
	seed, _ := strconv.ParseInt(day.Format("20060102"), 10, 64)
	rng := rand.New(rand.NewSource(seed))
	return ps.poems[rng.Intn(len(ps.poems))]
}
