package docModel

import "time"

type DocType string

var (
	PDF DocType = "PDF"
	TXT DocType = "TXT"
	MD  DocType = "MD"
	DOC DocType = "DOCX"
	ERR DocType = "ERROR"
)

// Chunk is the atomic retrieval unit: a bounded slice of document text
// tagged with the page it started on and the document it belongs to.
type Chunk struct {
	Text     string `json:"text"`
	Page     int    `json:"page"`
	Document string `json:"document"`
}

// DocumentRecord is the registry entry for one indexed document.
// ChunkIDs keeps the index keys in chunk order so removal is exact.
type DocumentRecord struct {
	ChunkCount int       `json:"chunk_count"`
	ChunkIDs   []string  `json:"chunk_ids"`
	FileType   DocType   `json:"file_type,omitempty"`
	IngestedAt time.Time `json:"ingested_at,omitempty"`
}

// QueryMatch is a retrieval hit, distance ascending means best first.
type QueryMatch struct {
	Content  string
	Page     int
	Document string
	Distance float64
}

// ProcessResult summarizes a successful document upload.
type ProcessResult struct {
	DocumentName    string  `json:"document_name"`
	FileType        DocType `json:"file_type"`
	TotalCharacters int     `json:"total_characters"`
	NumChunks       int     `json:"num_chunks"`
	NumPages        int     `json:"num_pages"`
	TotalDocuments  int     `json:"total_documents"`
}
