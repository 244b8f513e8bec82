package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dealsense/ragengine/internal/core/domain"
)

// stubExtractor returns a fixed string for every path.
type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func TestRegistry_DispatchesByExtension(t *testing.T) {
	r := NewRegistry(&stubExtractor{text: "fallback"})
	r.Register(".md", &stubExtractor{text: "markdown"})
	r.Register(".docx", &stubExtractor{text: "docx"})

	ctx := context.Background()

	text, err := r.Extract(ctx, "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, "markdown", text)

	text, err = r.Extract(ctx, "docs/report.docx")
	require.NoError(t, err)
	assert.Equal(t, "docx", text)

	text, err = r.Extract(ctx, "docs/notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "fallback", text)
}

func TestRegistry_CaseInsensitiveExtension(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(".MD", &stubExtractor{text: "markdown"})

	text, err := r.Extract(context.Background(), "docs/README.MD")

	require.NoError(t, err)
	assert.Equal(t, "markdown", text)
}

func TestRegistry_NoFallback(t *testing.T) {
	r := NewRegistry(nil)

	_, err := r.Extract(context.Background(), "docs/scan.pdf")

	assert.ErrorIs(t, err, domain.ErrExtractionUnavailable)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(".md", &stubExtractor{text: "old"})
	r.Register(".md", &stubExtractor{text: "new"})

	text, err := r.Extract(context.Background(), "doc.md")

	require.NoError(t, err)
	assert.Equal(t, "new", text)
}
