package vectorDB

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/avikram/studybuddy/internal/domain/docModel"
)

func sampleRecord(chunks int) docModel.DocumentRecord {
	ids := make([]string, chunks)
	for i := range ids {
		ids[i] = "id-" + string(rune('a'+i))
	}
	return docModel.DocumentRecord{
		ChunkCount: chunks,
		ChunkIDs:   ids,
		FileType:   docModel.PDF,
		IngestedAt: time.Now().UTC(),
	}
}

func TestRegistry_PutAndReload(t *testing.T) {
	dir := t.TempDir()

	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if err := reg.Put("notes.pdf", sampleRecord(3)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	//a fresh load must see the persisted record
	reloaded, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	record, ok := reloaded.Get("notes.pdf")
	if !ok {
		t.Fatal("Record missing after reload")
	}
	if record.ChunkCount != 3 || len(record.ChunkIDs) != 3 {
		t.Errorf("Record wrong after reload: %+v", record)
	}
}

func TestRegistry_RemoveAndTotals(t *testing.T) {
	reg, err := LoadRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	reg.Put("a.pdf", sampleRecord(2))
	reg.Put("b.txt", sampleRecord(4))

	if got := reg.TotalChunks(); got != 6 {
		t.Errorf("TotalChunks = %d, want 6", got)
	}
	if err := reg.Remove("a.pdf"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if got := reg.TotalChunks(); got != 4 {
		t.Errorf("TotalChunks after remove = %d, want 4", got)
	}
	if _, ok := reg.Get("a.pdf"); ok {
		t.Error("Removed record still present")
	}
}

func TestRegistry_DocumentsSorted(t *testing.T) {
	reg, err := LoadRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	reg.Put("zebra.pdf", sampleRecord(1))
	reg.Put("alpha.txt", sampleRecord(1))

	names := reg.Documents()
	if len(names) != 2 || names[0] != "alpha.txt" || names[1] != "zebra.pdf" {
		t.Errorf("Documents = %v, want sorted [alpha.txt zebra.pdf]", names)
	}
}

func TestRegistry_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, registryFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry failed on corrupt file: %v", err)
	}
	if len(reg.Documents()) != 0 {
		t.Errorf("Expected empty registry, got %v", reg.Documents())
	}
}

func TestRegistry_Clear(t *testing.T) {
	reg, err := LoadRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	reg.Put("a.pdf", sampleRecord(2))
	if err := reg.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if reg.TotalChunks() != 0 || len(reg.Documents()) != 0 {
		t.Error("Registry not empty after Clear")
	}
}
