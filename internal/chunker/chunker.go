package chunker

import (
	"fmt"
	"strings"

	"github.com/dealsense/ragengine/internal/core/domain"
)

// Default chunking parameters, in characters.
const (
	DefaultParentSize    = 3000
	DefaultParentOverlap = 200
	DefaultChildSize     = 500
	DefaultChildOverlap  = 100
	DefaultMinFragment   = 20
)

// Source identifies the file a chunk sequence belongs to.
type Source struct {
	// Path is the file path or external id.
	Path string

	// Name is the human-readable file name.
	Name string
}

// Page is one page of a paginated source.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the raw page text.
	Text string
}

// Chunker builds hierarchical parent/child chunk sequences.
type Chunker struct {
	parentSize    int
	parentOverlap int
	childSize     int
	childOverlap  int
	minFragment   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithParentSize sets the parent chunk target size in characters.
func WithParentSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.parentSize = size
		}
	}
}

// WithChildSize sets the child chunk target size in characters.
func WithChildSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.childSize = size
		}
	}
}

// WithChildOverlap sets the overlap between consecutive child chunks.
func WithChildOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.childOverlap = overlap
		}
	}
}

// WithMinFragment sets the minimum chunk length; shorter fragments are
// discarded.
func WithMinFragment(minLen int) Option {
	return func(c *Chunker) {
		if minLen > 0 {
			c.minFragment = minLen
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		parentSize:    DefaultParentSize,
		parentOverlap: DefaultParentOverlap,
		childSize:     DefaultChildSize,
		childOverlap:  DefaultChildOverlap,
		minFragment:   DefaultMinFragment,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.childOverlap >= c.childSize {
		c.childOverlap = c.childSize / 4
	}
	if c.parentOverlap >= c.parentSize {
		c.parentOverlap = c.parentSize / 4
	}
	return c
}

// Chunk splits unpaginated text into parent and child chunks.
func (c *Chunker) Chunk(text string, src Source) []domain.Chunk {
	chunks := c.chunkBlock(text, src, 0, 0)
	finalize(chunks)
	return chunks
}

// ChunkPages splits a paginated source page by page, stamping every
// chunk with its page number. Chunk ids keep counting across pages so
// the sequence stays unique within the source.
func (c *Chunker) ChunkPages(pages []Page, src Source) []domain.Chunk {
	var chunks []domain.Chunk
	parentSeq := 0
	for _, page := range pages {
		pageChunks := c.chunkBlock(page.Text, src, page.Number, parentSeq)
		parentSeq += countParents(pageChunks)
		chunks = append(chunks, pageChunks...)
	}
	finalize(chunks)
	return chunks
}

// chunkBlock chunks one text block (a whole document or a single page).
func (c *Chunker) chunkBlock(text string, src Source, pageNumber, parentSeq int) []domain.Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []domain.Chunk
	for _, sec := range detectSections(text) {
		if sec.body == "" {
			continue
		}
		pieces := c.splitToSize(sec.body, c.parentSize, c.parentOverlap)
		for _, piece := range pieces {
			parent := domain.Chunk{
				ID:             fmt.Sprintf("%s::p%d", src.Path, parentSeq),
				SourcePath:     src.Path,
				SourceName:     src.Name,
				Content:        piece,
				PageNumber:     pageNumber,
				SectionHeading: sec.heading,
				Type:           domain.ChunkTypeParent,
				ContentHash:    domain.Fingerprint(piece),
			}
			chunks = append(chunks, parent)

			childSeq := 0
			for _, fragment := range c.splitToSize(piece, c.childSize, c.childOverlap) {
				if len(fragment) < c.minFragment {
					continue
				}
				chunks = append(chunks, domain.Chunk{
					ID:             fmt.Sprintf("%s.c%d", parent.ID, childSeq),
					SourcePath:     src.Path,
					SourceName:     src.Name,
					Content:        fragment,
					PageNumber:     pageNumber,
					SectionHeading: sec.heading,
					Type:           domain.ChunkTypeChild,
					ParentID:       parent.ID,
					ContentHash:    domain.Fingerprint(fragment),
				})
				childSeq++
			}
			parentSeq++
		}
	}
	return chunks
}

// splitToSize splits text into pieces of at most target characters,
// preferring paragraph boundaries and falling back to sentences when a
// paragraph alone exceeds the target. Consecutive pieces share a
// bounded character overlap.
func (c *Chunker) splitToSize(text string, target, overlap int) []string {
	if len(text) <= target {
		return []string{text}
	}

	var units []string
	for _, p := range splitParagraphs(text) {
		if len(p) <= target {
			units = append(units, p)
			continue
		}
		for _, s := range splitSentences(p) {
			if len(s) <= target {
				units = append(units, s)
				continue
			}
			// A single oversize sentence gets hard-split.
			units = append(units, hardSplit(s, target)...)
		}
	}

	var pieces []string
	var current []string
	currentLen := 0

	flush := func() {
		if currentLen == 0 {
			return
		}
		pieces = append(pieces, strings.Join(current, "\n\n"))
		// Seed the next piece with trailing units up to the overlap
		// budget, so context carries across the boundary.
		var carry []string
		carryLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			if carryLen+len(current[i]) > overlap {
				break
			}
			carryLen += len(current[i])
			carry = append([]string{current[i]}, carry...)
		}
		current = carry
		currentLen = carryLen
	}

	for _, unit := range units {
		if currentLen > 0 && currentLen+len(unit) > target {
			flush()
			// Drop the carry when even it plus the unit overflows.
			if currentLen+len(unit) > target {
				current = nil
				currentLen = 0
			}
		}
		current = append(current, unit)
		currentLen += len(unit)
	}
	if currentLen > 0 {
		pieces = append(pieces, strings.Join(current, "\n\n"))
	}
	return pieces
}

// hardSplit cuts text into target-sized slices with no boundary logic.
func hardSplit(text string, target int) []string {
	var out []string
	for len(text) > target {
		out = append(out, text[:target])
		text = text[target:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// finalize stamps every chunk with its position in the emitted sequence.
func finalize(chunks []domain.Chunk) {
	for i := range chunks {
		chunks[i].ChunkIndex = i
		chunks[i].TotalChunks = len(chunks)
	}
}

func countParents(chunks []domain.Chunk) int {
	n := 0
	for _, c := range chunks {
		if c.Type == domain.ChunkTypeParent {
			n++
		}
	}
	return n
}
