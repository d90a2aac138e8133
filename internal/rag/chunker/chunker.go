package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/avikram/studybuddy/internal/domain/docModel"
)

var (
	paragraphSplitter = regexp.MustCompile(`\n\n+`)
	pageMarker        = regexp.MustCompile(`^\[Page (\d+)\]`)
	pageMarkerStrip   = regexp.MustCompile(`\[Page \d+\]\s*`)
	sentenceBoundary  = regexp.MustCompile(`[.!?]\s+`)
)

// Chunk splits extracted text into bounded, overlapping segments that
// respect paragraph boundaries. Paragraphs are accumulated greedily; a
// paragraph that alone exceeds chunkSize is re-split on sentence
// boundaries with the same overlap policy. Each chunk records the page
// that was active when its buffer was started.
//
// Empty or whitespace-only input yields no chunks.
func Chunk(text string, pageMap map[int]string, documentName string, chunkSize int, chunkOverlap int) []docModel.Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var chunks []docModel.Chunk
	currentPage := 1

	paragraphs := paragraphSplitter.Split(text, -1)

	currentChunk := ""
	currentChunkPage := 1
	seedOnly := false //buffer holds only carried overlap, nothing flushable

	flush := func() {
		if seedOnly || strings.TrimSpace(currentChunk) == "" {
			return
		}
		chunks = append(chunks, docModel.Chunk{
			Text:     strings.TrimSpace(currentChunk),
			Page:     currentChunkPage,
			Document: documentName,
		})
	}

	for _, para := range paragraphs {
		if m := pageMarker.FindStringSubmatch(para); m != nil {
			page, err := strconv.Atoi(m[1])
			if err == nil && pageExists(pageMap, page) {
				currentPage = page
			} else {
				//malformed page map, tolerate and fall back
				currentPage = 1
			}
			para = pageMarkerStrip.ReplaceAllString(para, "")
		}

		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(currentChunk)+len(para)+1 <= chunkSize {
			if currentChunk != "" {
				currentChunk += "\n\n" + para
				seedOnly = false
			} else {
				currentChunk = para
				currentChunkPage = currentPage
			}
			continue
		}

		flush()

		if len(para) > chunkSize {
			//the paragraph alone blows the budget, fall back to sentences
			sentenceChunks := splitLongParagraph(para, currentPage, documentName, chunkSize, chunkOverlap)
			chunks = append(chunks, sentenceChunks...)

			//carry overlap continuity into whatever follows
			if chunkOverlap > 0 && len(sentenceChunks) > 0 {
				currentChunk = overlapTail(sentenceChunks[len(sentenceChunks)-1].Text, chunkOverlap)
				currentChunkPage = currentPage
				seedOnly = true
			} else {
				currentChunk = ""
			}
		} else {
			if currentChunk != "" && chunkOverlap > 0 {
				currentChunk = overlapTail(currentChunk, chunkOverlap) + "\n\n" + para
			} else {
				currentChunk = para
			}
			currentChunkPage = currentPage
			seedOnly = false
		}
	}

	flush()

	return chunks
}

// splitLongParagraph applies the same greedy accumulate-and-flush rule at
// sentence granularity. A single sentence longer than chunkSize is kept
// whole - that is the one documented case where a chunk may exceed the
// budget.
func splitLongParagraph(paragraph string, page int, document string, chunkSize int, overlap int) []docModel.Chunk {
	sentences := splitSentences(paragraph)

	var chunks []docModel.Chunk
	current := ""

	for _, sentence := range sentences {
		if len(current)+len(sentence)+1 <= chunkSize {
			if current != "" {
				current += " " + sentence
			} else {
				current = sentence
			}
			continue
		}

		if strings.TrimSpace(current) != "" {
			chunks = append(chunks, docModel.Chunk{
				Text:     strings.TrimSpace(current),
				Page:     page,
				Document: document,
			})
		}

		if current != "" && overlap > 0 {
			current = overlapTail(current, overlap) + " " + sentence
		} else {
			current = sentence
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, docModel.Chunk{
			Text:     strings.TrimSpace(current),
			Page:     page,
			Document: document,
		})
	}

	return chunks
}

// splitSentences cuts after `.`, `!` or `?` followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	last := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		//cut right after the punctuation, the whitespace run is dropped
		sentences = append(sentences, text[last:loc[0]+1])
		last = loc[1]
	}
	if last < len(text) {
		sentences = append(sentences, text[last:])
	}
	return sentences
}

// overlapTail returns the trailing overlapChars of text trimmed forward
// to the next word boundary. A buffer shorter than the overlap is
// returned whole.
func overlapTail(text string, overlapChars int) string {
	if len(text) <= overlapChars {
		return text
	}

	tail := text[len(text)-overlapChars:]
	if idx := strings.Index(tail, " "); idx > 0 {
		tail = tail[idx+1:]
	}
	return tail
}

func pageExists(pageMap map[int]string, page int) bool {
	if len(pageMap) == 0 {
		//page-less formats carry a synthetic single page
		return page == 1
	}
	_, ok := pageMap[page]
	return ok
}
