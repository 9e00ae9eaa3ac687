package tools

import (
	"encoding/json"

	"mediabridge/internal/formats"
	"mediabridge/internal/preset"
)

// Definition describes a tool for discovery.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

type schemaProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
	Minimum     *int     `json:"minimum,omitempty"`
}

type objectSchema struct {
	Type                 string                    `json:"type"`
	Properties           map[string]schemaProperty `json:"properties"`
	Required             []string                  `json:"required,omitempty"`
	AdditionalProperties bool                      `json:"additionalProperties"`
}

func mustSchema(s objectSchema) json.RawMessage {
	if s.Properties == nil {
		s.Properties = map[string]schemaProperty{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	return data
}

// Definitions lists the registered tools in a stable order.
func (r *Registry) Definitions() []Definition {
	qualities := make([]string, 0, 3)
	for _, q := range preset.Qualities() {
		qualities = append(qualities, string(q))
	}
	one := 1

	return []Definition{
		{
			Name:        CheckEncoder,
			Description: "Checks if FFmpeg is installed and accessible.",
			InputSchema: mustSchema(objectSchema{Type: "object"}),
		},
		{
			Name:        ConvertVideo,
			Description: "Converts a video file to the specified output format.",
			InputSchema: mustSchema(objectSchema{
				Type: "object",
				Properties: map[string]schemaProperty{
					"input_file_path": {
						Type:        "string",
						Description: "The absolute path to the input video file.",
					},
					"output_format": {
						Type:        "string",
						Description: "The desired output format (e.g., 'mp4', 'webm').",
						Enum:        formats.Supported(),
						Default:     "mp4",
					},
					"quality": {
						Type:        "string",
						Description: "The quality of the output file.",
						Enum:        qualities,
					},
					"framerate": {
						Type:        "integer",
						Description: "Output frame rate for video containers.",
						Minimum:     &one,
					},
				},
				Required: []string{"input_file_path"},
			}),
		},
		{
			Name:        GetSupportedFormats,
			Description: "Returns a list of supported formats for conversion.",
			InputSchema: mustSchema(objectSchema{Type: "object"}),
		},
	}
}
