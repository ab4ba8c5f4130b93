package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/matzehuels/wordmosaic/pkg/errors"
)

const docxBody = "word/document.xml"

// DOCX reads the body text of an Office Open XML word processing document.
// Paragraphs, line breaks and tabs become whitespace; formatting is
// ignored.
type DOCX struct{}

// Name implements Extractor.
func (DOCX) Name() string { return "docx" }

// Extract implements Extractor.
func (DOCX) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExtract, err, "open docx")
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", errors.New(errors.ErrCodeExtract, "docx has no %s", docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExtract, err, "open %s", docxBody)
	}
	defer rc.Close()

	text, err := readDocument(ctx, io.LimitReader(rc, MaxSize))
	if err != nil {
		return "", err
	}
	return normalize(text), nil
}

func readDocument(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for n := 0; ; n++ {
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return "", err
			}
		}
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeExtract, err, "parse %s", docxBody)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte(' ')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
