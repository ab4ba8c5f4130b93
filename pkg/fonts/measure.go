package fonts

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/wordmosaic/pkg/layout"
)

// Measurer measures words with the embedded font's glyph advances. It keeps
// one face per size and is safe for concurrent use.
type Measurer struct {
	mu    sync.Mutex
	faces map[float64]font.Face
}

var _ layout.Measurer = (*Measurer)(nil)

// NewMeasurer returns a Measurer backed by the embedded font.
func NewMeasurer() (*Measurer, error) {
	if _, err := Font(); err != nil {
		return nil, err
	}
	return &Measurer{faces: make(map[float64]font.Face)}, nil
}

// Measure returns the advance width and vertical extent of word at size.
func (m *Measurer) Measure(word string, size float64) layout.Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	face, ok := m.faces[size]
	if !ok {
		var err error
		face, err = NewFace(size)
		if err != nil {
			// Font() succeeded in NewMeasurer, so this only fails for
			// non-positive sizes.
			return layout.ApproxMeasurer{}.Measure(word, size)
		}
		m.faces[size] = face
	}

	metrics := face.Metrics()
	return layout.Metrics{
		Width:   toFloat(font.MeasureString(face, word)),
		Ascent:  toFloat(metrics.Ascent),
		Descent: toFloat(metrics.Descent),
	}
}

// Close releases the cached faces.
func (m *Measurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for size, face := range m.faces {
		face.Close()
		delete(m.faces, size)
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
