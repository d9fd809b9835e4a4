package poemquiz

import (
	"fmt"
	"testing"
)

// testPoems builds a corpus of n synthetic poems with unique field values.
func testPoems(n int) []Poem {
	poems := make([]Poem, n)
	for i := range poems {
		id := i + 1
		poems[i] = Poem{
			ID:           id,
			Author:       fmt.Sprintf("作者%03d", id),
			Upper:        fmt.Sprintf("上の句%03d", id),
			Lower:        fmt.Sprintf("下の句%03d", id),
			ReadingUpper: fmt.Sprintf("かみのく%03d", id),
			ReadingLower: fmt.Sprintf("しものく%03d", id),
			Description:  fmt.Sprintf("解説%03d", id),
		}
	}
	return poems
}

func testStore(t *testing.T, n int) *PoemStore {
	t.Helper()
	store, err := NewPoemStore(testPoems(n))
	if err != nil {
		t.Fatalf("NewPoemStore: %v", err)
	}
	return store
}
