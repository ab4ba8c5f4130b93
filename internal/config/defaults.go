package config

import (
	"github.com/matzehuels/wordmosaic/pkg/layout"
	"github.com/matzehuels/wordmosaic/pkg/palette"
	"github.com/matzehuels/wordmosaic/pkg/pipeline"
	"github.com/matzehuels/wordmosaic/pkg/render/sink"
	"github.com/matzehuels/wordmosaic/pkg/scale"
)

// Backend names.
const (
	BackendNone   = "none"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// Server defaults.
const (
	DefaultAddr           = "127.0.0.1:8080"
	DefaultRequestTimeout = 60
	DefaultMaxBodyMiB     = 16
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Cloud: Cloud{
			Width:            pipeline.DefaultWidth,
			Height:           pipeline.DefaultHeight,
			Palette:          palette.Default,
			MaxWords:         scale.DefaultMaxWords,
			MinFontSize:      scale.DefaultMinSize,
			MaxFontSize:      scale.DefaultMaxSize,
			Scaling:          string(scale.Linear),
			PreferHorizontal: layout.DefaultPreferHorizontal,
			Margin:           layout.DefaultMargin,
			Seed:             layout.DefaultSeed,
			Tries:            pipeline.DefaultTries,
			Formats:          []string{pipeline.FormatSVG},
			Background:       sink.DefaultBackground,
			Scale:            pipeline.DefaultScale,
		},
		Cache: Cache{
			Backend: BackendFile,
		},
		Store: Store{
			Backend: BackendSQLite,
		},
		Server: Server{
			Addr:           DefaultAddr,
			RequestTimeout: DefaultRequestTimeout,
			MaxBodyMiB:     DefaultMaxBodyMiB,
		},
	}
}

// PipelineOptions converts the cloud and stopword settings to pipeline
// options.
func (c *Config) PipelineOptions() pipeline.Options {
	cl := c.Cloud
	return pipeline.Options{
		Stopwords:          append([]string(nil), c.Stopwords.Extra...),
		NoDefaultStopwords: c.Stopwords.NoDefault,
		Width:              cl.Width,
		Height:             cl.Height,
		Palette:            cl.Palette,
		MaxWords:           cl.MaxWords,
		MinFontSize:        cl.MinFontSize,
		MaxFontSize:        cl.MaxFontSize,
		Scaling:            cl.Scaling,
		PreferHorizontal:   pipeline.Float(cl.PreferHorizontal),
		Margin:             pipeline.Float(cl.Margin),
		Seed:               cl.Seed,
		Tries:              cl.Tries,
		Formats:            append([]string(nil), cl.Formats...),
		Background:         cl.Background,
		Scale:              cl.Scale,
	}
}
