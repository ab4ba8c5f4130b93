package extract

import (
	"bytes"
	"context"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/matzehuels/wordmosaic/pkg/errors"
)

var (
	bomUTF8    = []byte{0xef, 0xbb, 0xbf}
	bomUTF16LE = []byte{0xff, 0xfe}
	bomUTF16BE = []byte{0xfe, 0xff}
)

// PlainText reads UTF-8 text. A UTF-8 byte order mark is dropped and UTF-16
// input is accepted when it starts with a byte order mark. Any other
// encoding is rejected.
type PlainText struct{}

// Name implements Extractor.
func (PlainText) Name() string { return "text" }

// Extract implements Extractor.
func (PlainText) Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.NewSectionReader(r, 0, size))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExtract, err, "read text")
	}

	switch {
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		if data, _, err = transform.Bytes(dec, data); err != nil {
			return "", errors.Wrap(errors.ErrCodeExtract, err, "decode UTF-16 text")
		}
	default:
		data = bytes.TrimPrefix(data, bomUTF8)
		if !utf8.Valid(data) {
			return "", errors.New(errors.ErrCodeExtract, "text is not valid UTF-8")
		}
	}
	return normalize(string(data)), nil
}
