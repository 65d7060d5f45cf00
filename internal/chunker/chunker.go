package chunker

import (
	"regexp"
	"strconv"
	"strings"

	"tenk/internal/domain"
)

// SentenceChunker splits filing text into sentence-based chunks with overlap.
// Each chunk carries the most recent "Item N." heading seen before it, so
// retrieved passages can be attributed to a filing section.
type SentenceChunker struct {
	sentencesPerChunk int
	overlapSentences  int
	splitter          *regexp.Regexp
	itemHeading       *regexp.Regexp
}

func NewSentenceChunker(sentencesPerChunk, overlapSentences int) *SentenceChunker {
	if sentencesPerChunk <= 0 {
		sentencesPerChunk = 8
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	return &SentenceChunker{
		sentencesPerChunk: sentencesPerChunk,
		overlapSentences:  overlapSentences,
		splitter:          regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		itemHeading:       regexp.MustCompile(`(?i)\bITEM\s+\d+[A-C]?\.`),
	}
}

func (c *SentenceChunker) Chunk(filing domain.Filing) ([]domain.Chunk, error) {
	sentences := c.splitter.FindAllString(filing.Content, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(filing.Content)
		if trimmed == "" {
			return nil, nil
		}
		sentences = []string{trimmed}
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	// Section label per sentence: the last Item heading seen so far.
	sections := make([]string, len(sentences))
	current := ""
	for i, s := range sentences {
		if m := c.itemHeading.FindString(s); m != "" {
			current = normalizeHeading(m)
		}
		sections[i] = current
	}

	var chunks []domain.Chunk
	i := 0
	idx := 0
	for i < len(sentences) {
		end := i + c.sentencesPerChunk
		if end > len(sentences) {
			end = len(sentences)
		}
		chunk := domain.Chunk{
			ID:      filing.ID + ":" + strconv.Itoa(idx),
			Source:  filing.Path,
			Section: sections[i],
			Seq:     idx,
			Text:    strings.Join(sentences[i:end], " "),
		}
		chunks = append(chunks, chunk)
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
		if i < 0 {
			i = 0
		}
		idx++
	}
	return chunks, nil
}

func normalizeHeading(h string) string {
	h = strings.Join(strings.Fields(h), " ")
	return "Item" + strings.ToUpper(strings.TrimPrefix(strings.ToUpper(h), "ITEM"))
}
