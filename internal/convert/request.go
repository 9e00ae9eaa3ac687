package convert

import (
	"strings"

	"mediabridge/internal/formats"
	"mediabridge/internal/preset"
)

// DefaultOutputFormat is applied when a request omits the output format.
const DefaultOutputFormat = "mp4"

// Request describes one conversion.
type Request struct {
	InputPath    string `json:"input_file_path"`
	OutputFormat string `json:"output_format"`
	Quality      string `json:"quality,omitempty"`
	Framerate    int    `json:"framerate,omitempty"`
}

// Format returns the normalized output format.
func (r Request) Format() string {
	return formats.Normalize(r.OutputFormat)
}

// QualityTier returns the parsed quality; unknown values resolve to unset.
func (r Request) QualityTier() preset.Quality {
	q, _ := preset.ParseQuality(r.Quality)
	return q
}

// WithDefaults fills an empty output format.
func (r Request) WithDefaults() Request {
	if strings.TrimSpace(r.OutputFormat) == "" {
		r.OutputFormat = DefaultOutputFormat
	}
	return r
}

// Preset resolves the quality flags for the request.
func (r Request) Preset() preset.Preset {
	return preset.Resolve(r.QualityTier(), r.Format())
}
