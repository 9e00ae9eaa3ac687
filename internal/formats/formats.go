// Package formats holds the fixed table of output formats mediabridge accepts.
package formats

import (
	"slices"
	"strings"
)

// Category groups formats by the kind of media they carry.
type Category string

const (
	CategoryVideo Category = "video"
	CategoryAudio Category = "audio"
	CategoryImage Category = "image"
)

var (
	video = []string{"mp4", "webm", "mov", "avi", "mkv", "flv", "gif"}
	audio = []string{"mp3", "wav", "ogg", "aac", "m4a"}
	image = []string{"webp", "jpg", "png", "bmp", "tiff"}
)

// Categories lists the categories in display order.
func Categories() []Category {
	return []Category{CategoryVideo, CategoryAudio, CategoryImage}
}

// ByCategory returns a copy of the formats in one category.
func ByCategory(c Category) []string {
	switch c {
	case CategoryVideo:
		return slices.Clone(video)
	case CategoryAudio:
		return slices.Clone(audio)
	case CategoryImage:
		return slices.Clone(image)
	default:
		return nil
	}
}

// Supported returns every accepted format, video first, then audio, then image.
func Supported() []string {
	out := make([]string, 0, len(video)+len(audio)+len(image))
	out = append(out, video...)
	out = append(out, audio...)
	return append(out, image...)
}

// Normalize trims and lower-cases a format token.
func Normalize(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// CategoryOf reports the category of an already-normalized format.
func CategoryOf(format string) (Category, bool) {
	switch {
	case slices.Contains(video, format):
		return CategoryVideo, true
	case slices.Contains(audio, format):
		return CategoryAudio, true
	case slices.Contains(image, format):
		return CategoryImage, true
	default:
		return "", false
	}
}

// IsSupported reports whether format (in any case) is accepted.
func IsSupported(format string) bool {
	_, ok := CategoryOf(Normalize(format))
	return ok
}

// Lists is the per-category breakdown, serialized in video, audio, image order.
type Lists struct {
	Video []string `json:"video"`
	Audio []string `json:"audio"`
	Image []string `json:"image"`
}

// Table is the advisory format enumeration returned to clients.
type Table struct {
	Success bool  `json:"success"`
	Formats Lists `json:"formats"`
}

// Enumerate returns the fixed format table.
func Enumerate() Table {
	return Table{
		Success: true,
		Formats: Lists{
			Video: ByCategory(CategoryVideo),
			Audio: ByCategory(CategoryAudio),
			Image: ByCategory(CategoryImage),
		},
	}
}
