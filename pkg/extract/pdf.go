package extract

import (
	"context"
	"io"
	"strings"

	"rsc.io/pdf"

	"github.com/matzehuels/wordmosaic/pkg/errors"
)

// wordGap is the horizontal gap between glyphs, relative to the font size,
// above which a space is inserted.
const wordGap = 0.15

// PDF reads the text layer of a PDF document. Scanned pages without a text
// layer yield no text.
type PDF struct{}

// Name implements Extractor.
func (PDF) Name() string { return "pdf" }

// Extract implements Extractor.
func (PDF) Extract(ctx context.Context, r io.ReaderAt, size int64) (text string, err error) {
	// rsc.io/pdf panics on some malformed documents.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", errors.New(errors.ErrCodeExtract, "malformed pdf: %v", p)
		}
	}()

	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExtract, err, "open pdf")
	}

	var b strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		writePage(&b, page.Content().Text)
		b.WriteByte('\n')
	}
	return normalize(b.String()), nil
}

// writePage reassembles words from positioned glyphs. The text stream has no
// spaces, so word breaks are inferred from gaps and line changes.
func writePage(b *strings.Builder, glyphs []pdf.Text) {
	var prev *pdf.Text
	for i := range glyphs {
		g := &glyphs[i]
		if prev != nil {
			switch {
			case g.Y != prev.Y:
				b.WriteByte('\n')
			case g.X-(prev.X+prev.W) > wordGap*g.FontSize:
				b.WriteByte(' ')
			}
		}
		b.WriteString(g.S)
		prev = g
	}
}
