package ragErrors

import "errors"

// Upload-time failures. These surface to the caller as structured errors
// and never leave a partially registered document behind.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoExtractableText = errors.New("no extractable text")
	ErrEncoding          = errors.New("could not decode text file")
	ErrEmptyChunkResult  = errors.New("chunking produced no chunks")
	ErrDocumentNotFound  = errors.New("document not found")
)

// Backend failures, embedding or generation. Timeout is kept distinct so
// the ask pipeline can report it as a non-fatal answer.
var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBackendTimeout     = errors.New("backend timed out")
	ErrBackendError       = errors.New("backend error")
)
