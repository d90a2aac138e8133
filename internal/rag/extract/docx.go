package extract

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"

	"github.com/avikram/studybuddy/internal/domain/ragErrors"
)

// Word documents have no page boundaries in the file itself, so pages
// are estimated at roughly this many characters each.
const charsPerEstimatedPage = 3000

type docxExtractor struct{}

func (docxExtractor) Extract(path string) (string, map[int]string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to extract document: %w", err)
	}

	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	if len(paragraphs) == 0 {
		return "", nil, fmt.Errorf("%w: document contains no text", ragErrors.ErrNoExtractableText)
	}

	pageMap := make(map[int]string)
	var blocks []string
	currentPage := 1
	currentChars := 0
	var currentPageParas []string

	flushPage := func() {
		if len(currentPageParas) == 0 {
			return
		}
		pageText := strings.Join(currentPageParas, "\n\n")
		pageMap[currentPage] = pageText
		blocks = append(blocks, pageBlock(currentPage, pageText))
		currentPage++
		currentChars = 0
		currentPageParas = nil
	}

	for _, para := range paragraphs {
		currentPageParas = append(currentPageParas, para)
		currentChars += len(para)
		if currentChars >= charsPerEstimatedPage {
			flushPage()
		}
	}
	flushPage()

	return joinPageBlocks(blocks), pageMap, nil
}
