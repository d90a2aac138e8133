package extract

import (
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"github.com/avikram/studybuddy/internal/domain/ragErrors"
)

type textExtractor struct{}

// fallbackEncodings are tried in order when the file is not valid UTF-8.
var fallbackEncodings = []encoding.Encoding{
	charmap.ISO8859_1,
	charmap.Windows1252,
}

func (textExtractor) Extract(path string) (string, map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read text file: %w", err)
	}

	text, err := decodeText(data)
	if err != nil {
		return "", nil, err
	}

	cleaned := cleanText(text)
	if cleaned == "" {
		return "", nil, fmt.Errorf("%w: file is empty", ragErrors.ErrNoExtractableText)
	}

	//text files have no pages, treat the whole file as page 1
	pageMap := map[int]string{1: cleaned}
	return pageBlock(1, cleaned), pageMap, nil
}

func decodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	for _, enc := range fallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err == nil {
			return string(decoded), nil
		}
	}
	return "", ragErrors.ErrEncoding
}
