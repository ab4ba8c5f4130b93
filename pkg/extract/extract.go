// Package extract turns uploaded documents into plain text.
//
// Each supported container format has an [Extractor]. Callers at the edge
// (CLI, API) pick one by file name with [ForFilename]; the word cloud core
// only ever sees the resulting UTF-8 string. All extractors return text in
// Unicode normalization form NFC so that visually identical words count as
// the same token.
package extract

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/wordmosaic/pkg/errors"
)

// MaxSize bounds the size of an input document in bytes.
const MaxSize = 64 << 20

// Extractor reads the text content of one document format.
type Extractor interface {
	// Name returns the format identifier (e.g., "pdf").
	Name() string
	// Extract returns the document text as NFC-normalized UTF-8.
	Extract(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

var byExtension = map[string]Extractor{
	".txt":  PlainText{},
	".text": PlainText{},
	".md":   PlainText{},
	".csv":  PlainText{},
	".pdf":  PDF{},
	".docx": DOCX{},
}

// Extensions returns the supported file extensions.
func Extensions() []string {
	return []string{".txt", ".text", ".md", ".csv", ".pdf", ".docx"}
}

// ForFilename returns the extractor for name's extension.
func ForFilename(name string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if e, ok := byExtension[ext]; ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeUnsupportedFile, "unsupported file type %q (supported: %s)", ext, strings.Join(Extensions(), ", "))
}

// File extracts the text of the document at path.
func File(ctx context.Context, path string) (string, error) {
	e, err := ForFilename(path)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExtract, err, "open %s", filepath.Base(path))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeExtract, err, "stat %s", filepath.Base(path))
	}
	if err := checkSize(info.Size()); err != nil {
		return "", err
	}
	return e.Extract(ctx, f, info.Size())
}

// Bytes extracts the text of an in-memory document named name.
func Bytes(ctx context.Context, name string, data []byte) (string, error) {
	if err := errors.ValidateFilename(name); err != nil {
		return "", err
	}
	e, err := ForFilename(name)
	if err != nil {
		return "", err
	}
	if err := checkSize(int64(len(data))); err != nil {
		return "", err
	}
	return e.Extract(ctx, bytes.NewReader(data), int64(len(data)))
}

func checkSize(n int64) error {
	if n > MaxSize {
		return errors.New(errors.ErrCodeExtract, "document is %d bytes, limit is %d", n, MaxSize)
	}
	return nil
}

func normalize(s string) string {
	return norm.NFC.String(s)
}
