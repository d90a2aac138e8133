package extract

import (
	"errors"
	"fmt"
	"time"

	"github.com/dslipak/pdf"

	"github.com/avikram/studybuddy/internal/domain/ragErrors"
)

type pdfExtractor struct{}

func (pdfExtractor) Extract(path string) (string, map[int]string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	if numPages == 0 {
		return "", nil, fmt.Errorf("%w: pdf has no pages", ragErrors.ErrNoExtractableText)
	}

	pageMap := make(map[int]string)
	var blocks []string

	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// Log warning but continue with other pages
			logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		cleaned := cleanText(content)
		if cleaned == "" {
			continue
		}
		pageMap[i] = cleaned
		blocks = append(blocks, pageBlock(i, cleaned))
	}

	if len(pageMap) == 0 {
		//scanned-image PDFs land here
		return "", nil, fmt.Errorf("%w: pdf contains no extractable text", ragErrors.ErrNoExtractableText)
	}
	return joinPageBlocks(blocks), pageMap, nil
}

// protectExtract guards against the parser hanging on malformed pages.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
