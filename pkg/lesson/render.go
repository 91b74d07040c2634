// SPDX-License-Identifier: MPL-2.0

package lesson

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

type (
	// RenderOptions configures NewMarkdownRenderer.
	RenderOptions struct {
		// Style is "auto", "dark", "light" or "notty". Empty means "auto".
		Style string
		// Width wraps text at this column; zero keeps glamour's default.
		Width int
	}

	plainRenderer struct{}
)

func (plainRenderer) Render(markdown string) (string, error) { return markdown, nil }

// PlainRenderer returns a Renderer that leaves markdown untouched.
func PlainRenderer() Renderer { return plainRenderer{} }

// NewMarkdownRenderer returns a glamour-backed Renderer.
func NewMarkdownRenderer(opts RenderOptions) (Renderer, error) {
	var rendererOpts []glamour.TermRendererOption
	switch opts.Style {
	case "", "auto":
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	case styles.DarkStyle, styles.LightStyle, styles.NoTTYStyle:
		rendererOpts = append(rendererOpts, glamour.WithStandardStyle(opts.Style))
	default:
		rendererOpts = append(rendererOpts, glamour.WithAutoStyle())
	}
	if opts.Width > 0 {
		rendererOpts = append(rendererOpts, glamour.WithWordWrap(opts.Width))
	}

	renderer, err := glamour.NewTermRenderer(rendererOpts...)
	if err != nil {
		return nil, err
	}
	return renderer, nil
}
