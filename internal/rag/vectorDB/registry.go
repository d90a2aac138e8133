package vectorDB

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/avikram/studybuddy/internal/domain/docModel"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

const registryFileName = "registry.json"

// Registry tracks which documents are indexed and which point IDs
// belong to each, persisted as JSON so the corpus survives restarts.
// The vector index itself has no cheap listing of documents.
type Registry struct {
	mu      sync.RWMutex
	path    string
	records map[string]docModel.DocumentRecord
	logger  *logger_i.Logger
}

// LoadRegistry reads the registry file under dir, creating dir if
// needed. A corrupt or missing file degrades to an empty registry.
func LoadRegistry(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	r := &Registry{
		path:    filepath.Join(dir, registryFileName),
		records: make(map[string]docModel.DocumentRecord),
		logger:  logger_i.NewLogger("doc_registry"),
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return r, nil
	}

	if err := json.Unmarshal(data, &r.records); err != nil {
		r.logger.Warn("Registry file corrupt, starting empty", "path", r.path, "error", err)
		r.records = make(map[string]docModel.DocumentRecord)
	}
	return r, nil
}

func (r *Registry) Put(documentName string, record docModel.DocumentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[documentName] = record
	return r.save()
}

func (r *Registry) Remove(documentName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, documentName)
	return r.save()
}

func (r *Registry) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]docModel.DocumentRecord)
	return r.save()
}

func (r *Registry) Get(documentName string) (docModel.DocumentRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.records[documentName]
	return record, ok
}

// Documents returns the indexed document names, sorted for stable
// listings.
func (r *Registry) Documents() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.records))
	for name := range r.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) TotalChunks() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, record := range r.records {
		total += record.ChunkCount
	}
	return total
}

// save writes through a temp file then renames, so a crash mid-write
// never leaves a half-written registry.
func (r *Registry) save() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, r.path)
}
