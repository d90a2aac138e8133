package chunker

import (
	"strings"
	"testing"
)

func singlePageMap(text string) map[int]string {
	return map[int]string{1: text}
}

func TestChunk_SingleShortParagraph(t *testing.T) {
	text := "Photosynthesis converts light energy into chemical energy."

	chunks := Chunk(text, singlePageMap(text), "bio.txt", 400, 100)

	if len(chunks) != 1 {
		t.Fatalf("Expected exactly 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Errorf("Chunk text changed: got %q, want %q", chunks[0].Text, text)
	}
	if chunks[0].Page != 1 || chunks[0].Document != "bio.txt" {
		t.Errorf("Metadata mismatch: %+v", chunks[0])
	}
}

func TestChunk_EmptyInput(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\n\n", " \t \n"} {
		if got := Chunk(text, nil, "doc", 400, 100); len(got) != 0 {
			t.Errorf("Chunk(%q) = %d chunks, want 0", text, len(got))
		}
	}
}

func TestChunk_ParagraphExactlyFillsBuffer(t *testing.T) {
	first := strings.Repeat("a", 100)
	//100 + 299 + 1 == 400, the second paragraph still belongs to the buffer
	second := strings.Repeat("b", 299)

	chunks := Chunk(first+"\n\n"+second, nil, "doc", 400, 100)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, second) {
		t.Error("Second paragraph was forced into a new chunk")
	}
}

func TestChunk_RespectsSizeBudget(t *testing.T) {
	var parts []string
	for i := 0; i < 40; i++ {
		parts = append(parts, "This is sentence one of the paragraph. This is sentence two of it. And a third one closes it.")
	}
	text := strings.Join(parts, "\n\n")

	const size = 300
	chunks := Chunk(text, nil, "doc", size, 50)

	if len(chunks) < 2 {
		t.Fatalf("Expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c.Text) > size {
			t.Errorf("Chunk %d exceeds budget: %d > %d", i, len(c.Text), size)
		}
	}
}

func TestChunk_PageTracking(t *testing.T) {
	pageMap := map[int]string{1: "first page text", 2: "second page text"}
	text := "[Page 1]\n" + strings.Repeat("x", 90) + "\n\n[Page 2]\n" + strings.Repeat("y", 90)

	chunks := Chunk(text, pageMap, "doc", 100, 20)

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Page != 1 {
		t.Errorf("First chunk page = %d, want 1", chunks[0].Page)
	}
	if chunks[1].Page != 2 {
		t.Errorf("Second chunk page = %d, want 2", chunks[1].Page)
	}
}

func TestChunk_PageIsTheOneActiveAtBufferStart(t *testing.T) {
	pageMap := map[int]string{1: "a", 2: "b"}
	//both paragraphs fit a single buffer, the recorded page is the one
	//active when the buffer was started
	text := "[Page 1]\nshort one\n\n[Page 2]\nshort two"

	chunks := Chunk(text, pageMap, "doc", 400, 100)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Page != 1 {
		t.Errorf("Chunk page = %d, want 1 (page at buffer start)", chunks[0].Page)
	}
}

func TestChunk_UnknownPageMarkerDefaultsToOne(t *testing.T) {
	pageMap := map[int]string{1: "only page"}
	text := "[Page 7]\nsome content here"

	chunks := Chunk(text, pageMap, "doc", 400, 100)

	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Page != 1 {
		t.Errorf("Chunk page = %d, want fallback 1", chunks[0].Page)
	}
}

func TestChunk_ThreeParagraphScenario(t *testing.T) {
	//150 chars, fits alone but paragraph 2 does not fit after it
	p1 := strings.TrimSpace(strings.Repeat("alpha ", 25))
	//450 chars with no sentence boundary, oversized even after the
	//sentence fallback - kept whole as the documented exception
	p2 := strings.TrimSpace(strings.Repeat("beta ", 90))
	//100 chars
	p3 := strings.TrimSpace(strings.Repeat("gamma ", 17))

	chunks := Chunk(p1+"\n\n"+p2+"\n\n"+p3, nil, "doc", 400, 100)

	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != p1 {
		t.Errorf("Chunk 1 should be paragraph 1 alone, got %q", chunks[0].Text)
	}
	if chunks[1].Text != p2 {
		t.Errorf("Chunk 2 should be the oversized paragraph kept whole, got %d chars", len(chunks[1].Text))
	}
	if !strings.HasSuffix(chunks[2].Text, p3) {
		t.Errorf("Chunk 3 should end with paragraph 3, got %q", chunks[2].Text)
	}
	if chunks[2].Text == p3 {
		t.Error("Chunk 3 is missing the overlap tail carried from chunk 2")
	}
	if !strings.HasSuffix(chunks[1].Text, strings.SplitN(chunks[2].Text, "\n\n", 2)[0]) {
		t.Errorf("Chunk 3 overlap prefix is not a tail of chunk 2")
	}
}

func TestChunk_OversizedMiddleParagraphSplitsOnSentences(t *testing.T) {
	p1 := "Mitochondria are the site of aerobic respiration and ATP synthesis in eukaryotic cells, supplying usable energy to the rest of the cell."
	//~500 chars with real sentence boundaries, must go through the
	//sentence fallback rather than the kept-whole exception
	sentence := "Beta oxidation breaks fatty acids into acetyl units inside the mitochondrial matrix."
	p2 := strings.TrimSpace(strings.Repeat(sentence+" ", 6))
	p3 := "The resulting acetyl units then feed directly into the citric acid cycle."

	chunks := Chunk(p1+"\n\n"+p2+"\n\n"+p3, nil, "doc", 400, 100)

	if len(chunks) != 4 {
		t.Fatalf("Expected 4 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != p1 {
		t.Errorf("Chunk 1 should be paragraph 1 alone, got %q", chunks[0].Text)
	}
	for i, c := range chunks[1:3] {
		if len(c.Text) > 400 {
			t.Errorf("Sentence-split chunk %d exceeds budget: %d chars", i+1, len(c.Text))
		}
		if !strings.Contains(c.Text, "Beta oxidation") {
			t.Errorf("Chunk %d lost paragraph 2 content: %q", i+1, c.Text)
		}
	}
	if !strings.HasSuffix(chunks[3].Text, p3) {
		t.Errorf("Last chunk should end with paragraph 3, got %q", chunks[3].Text)
	}
	if chunks[3].Text == p3 {
		t.Error("Last chunk is missing the overlap carried from the sentence split")
	}
	carried := strings.SplitN(chunks[3].Text, "\n\n", 2)[0]
	if !strings.HasSuffix(chunks[2].Text, carried) {
		t.Errorf("Carried overlap %q is not a tail of the previous chunk", carried)
	}
}

func TestChunk_SentenceSplitCarriesOverlap(t *testing.T) {
	s1 := "First sentence about mitochondria and cellular respiration in detail."
	s2 := "Second sentence continues the discussion with even more elaborate detail."
	s3 := "Third sentence wraps the whole topic up neatly at the very end."
	para := s1 + " " + s2 + " " + s3

	chunks := Chunk(para, nil, "doc", 100, 30)

	if len(chunks) < 2 {
		t.Fatalf("Expected the paragraph to be split, got %d chunks", len(chunks))
	}
	//every later chunk starts with the word-boundary-trimmed tail of its
	//predecessor
	for i := 1; i < len(chunks); i++ {
		prefix := strings.SplitN(chunks[i].Text, " ", 2)[0]
		if !strings.Contains(chunks[i-1].Text, prefix) {
			t.Errorf("Chunk %d does not continue from chunk %d: %q", i, i-1, chunks[i].Text)
		}
	}
}

func TestChunk_RoundTrip(t *testing.T) {
	paragraphs := []string{
		"The cell is the basic unit of life.",
		"Organelles perform specialized functions inside the cell.",
		"The nucleus stores genetic information as DNA.",
	}
	text := strings.Join(paragraphs, "\n\n")

	chunks := Chunk(text, nil, "doc", 400, 0)

	joined := ""
	for _, c := range chunks {
		if joined != "" {
			joined += "\n\n"
		}
		joined += c.Text
	}
	if joined != text {
		t.Errorf("Round trip failed:\ngot  %q\nwant %q", joined, text)
	}
}

func TestOverlapTail(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		overlap int
		want    string
	}{
		{"shorter than overlap", "tiny", 100, "tiny"},
		{"exactly overlap", "12345", 5, "12345"},
		{"trims to word boundary", "the quick brown fox jumps", 10, "fox jumps"},
		{"no space in tail", strings.Repeat("x", 30), 10, strings.Repeat("x", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapTail(tt.text, tt.overlap); got != tt.want {
				t.Errorf("overlapTail(%q, %d) = %q, want %q", tt.text, tt.overlap, got, tt.want)
			}
		})
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("One. Two! Three? Four")
	want := []string{"One.", "Two!", "Three?", "Four"}

	if len(got) != len(want) {
		t.Fatalf("Got %d sentences, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}
