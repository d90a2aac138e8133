package googleEmbedding

import (
	"fmt"
	"testing"
)

func TestSplitBatches(t *testing.T) {
	texts := make([]string, 250) // Should trigger 3 batches (100 + 100 + 50)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk-%d", i)
	}

	batches := splitBatches(texts)

	if len(batches) != 3 {
		t.Fatalf("Expected 3 batches, got %d", len(batches))
	}
	for i, want := range []int{100, 100, 50} {
		if len(batches[i]) != want {
			t.Errorf("Batch %d has %d items, want %d", i, len(batches[i]), want)
		}
	}
	if batches[0][0] != "chunk-0" || batches[2][49] != "chunk-249" {
		t.Error("Batches are out of order")
	}
}

func TestSplitBatches_SmallAndEmpty(t *testing.T) {
	if got := splitBatches(nil); len(got) != 0 {
		t.Errorf("Expected no batches for empty input, got %d", len(got))
	}

	batches := splitBatches([]string{"a", "b"})
	if len(batches) != 1 || len(batches[0]) != 2 {
		t.Errorf("Small input should stay a single batch, got %v", batches)
	}
}
