package extract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/avikram/studybuddy/internal/domain/docModel"
	"github.com/avikram/studybuddy/internal/domain/ragErrors"
	"github.com/avikram/studybuddy/pkg/logger_i"
)

var logger *logger_i.Logger

func init() {
	logger = logger_i.NewLogger("Text Extraction")
}

// SupportedFormats maps file extensions to display names.
var SupportedFormats = map[string]string{
	"pdf":  "PDF Document",
	"txt":  "Text File",
	"docx": "Word Document",
	"md":   "Markdown File",
	"rtf":  "Rich Text File",
}

// TextExtractor turns a staged upload into raw text plus a page map.
// The returned full text embeds [Page N] markers that the chunker
// consumes to tag chunks with their page of origin.
type TextExtractor interface {
	Extract(path string) (fullText string, pageMap map[int]string, err error)
}

// DetectType classifies a file by its extension.
func DetectType(fileName string) docModel.DocType {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return docModel.PDF
	case ".txt":
		return docModel.TXT
	case ".md":
		return docModel.MD
	case ".docx", ".rtf", ".odt":
		return docModel.DOC
	default:
		return docModel.ERR
	}
}

// ForType selects the extractor variant for a detected type.
func ForType(docType docModel.DocType) (TextExtractor, error) {
	switch docType {
	case docModel.PDF:
		return pdfExtractor{}, nil
	case docModel.TXT, docModel.MD:
		return textExtractor{}, nil
	case docModel.DOC:
		return docxExtractor{}, nil
	default:
		return nil, ragErrors.ErrUnsupportedFormat
	}
}

// File extracts text from a staged upload, dispatching on the original
// file name's extension.
func File(path string, fileName string) (string, map[int]string, docModel.DocType, error) {
	docType := DetectType(fileName)
	extractor, err := ForType(docType)
	if err != nil {
		return "", nil, docModel.ERR, fmt.Errorf("%w: %s", err, filepath.Ext(fileName))
	}

	logger.Debug("Extracting document", "file", fileName, "type", docType)
	text, pageMap, err := extractor.Extract(path)
	if err != nil {
		return "", nil, docType, err
	}
	if strings.TrimSpace(text) == "" {
		return "", nil, docType, ragErrors.ErrNoExtractableText
	}
	return text, pageMap, docType, nil
}

var (
	excessNewlines = regexp.MustCompile(`\n{3,}`)
	excessSpaces   = regexp.MustCompile(` {2,}`)
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f]`)
)

// cleanText strips extraction artifacts: control bytes, runs of spaces
// and stacks of blank lines.
func cleanText(text string) string {
	text = excessNewlines.ReplaceAllString(text, "\n\n")
	text = excessSpaces.ReplaceAllString(text, " ")
	text = controlChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// pageBlock prefixes a page's text with its marker. Blocks must be
// assembled with joinPageBlocks so a blank line separates each marker
// from the previous page and paragraph splitting sees the marker at a
// paragraph start.
func pageBlock(page int, text string) string {
	return fmt.Sprintf("[Page %d]\n%s", page, text)
}

func joinPageBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n")
}
