package extract

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	renderhtml "github.com/yuin/goldmark/renderer/html"
)

// Markdown renders src to HTML and extracts its blocks. Raw HTML in the
// source is kept, so marker attributes written inline still apply.
func Markdown(src []byte, opts Options) (*Document, error) {
	var out bytes.Buffer
	md := goldmark.New(goldmark.WithRendererOptions(renderhtml.WithUnsafe()))
	if err := md.Convert(src, &out); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return HTML(&out, opts)
}
