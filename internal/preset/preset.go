// Package preset maps quality tiers and output formats to encoder flags.
//
// Resolution is a pure table lookup: identical inputs always produce identical
// flag sequences, and combinations the table does not cover resolve to no
// flags rather than an error.
package preset

import (
	"strconv"
	"strings"
)

// Quality is a named quality tier.
type Quality string

const (
	QualityUnset  Quality = ""
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// ParseQuality normalizes a tier name. Unknown values report false and map to unset.
func ParseQuality(value string) (Quality, bool) {
	switch q := Quality(strings.ToLower(strings.TrimSpace(value))); q {
	case QualityLow, QualityMedium, QualityHigh:
		return q, true
	case QualityUnset:
		return QualityUnset, true
	default:
		return QualityUnset, false
	}
}

// Qualities lists the tiers from lowest to highest fidelity.
func Qualities() []Quality {
	return []Quality{QualityLow, QualityMedium, QualityHigh}
}

// Flag is one encoder option and its value.
type Flag struct {
	Name  string
	Value string
}

// Preset is an ordered set of encoder flags.
type Preset []Flag

// Args flattens the preset into argv form.
func (p Preset) Args() []string {
	args := make([]string, 0, len(p)*2)
	for _, f := range p {
		args = append(args, f.Name)
		if f.Value != "" {
			args = append(args, f.Value)
		}
	}
	return args
}

// Value returns the value of the first flag with the given name.
func (p Preset) Value(name string) (string, bool) {
	for _, f := range p {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

type family int

const (
	familyNone family = iota
	familyH264
	familyVP9
	familyAudio
)

var families = map[string]family{
	"mp4":  familyH264,
	"mkv":  familyH264,
	"mov":  familyH264,
	"avi":  familyH264,
	"flv":  familyH264,
	"webm": familyVP9,
	"mp3":  familyAudio,
	"ogg":  familyAudio,
	"m4a":  familyAudio,
}

type tier struct {
	crf     int
	effort  string
	bitrate string
}

var tiers = map[Quality]tier{
	QualityHigh:   {crf: 18, effort: "medium", bitrate: "320k"},
	QualityMedium: {crf: 23, bitrate: "192k"},
	QualityLow:    {crf: 28, effort: "fast", bitrate: "128k"},
}

// vp9 has no named presets; effort maps onto cpu-used.
var vp9CPUUsed = map[string]string{
	"medium": "2",
	"fast":   "4",
}

// Resolve returns the flags for a quality tier and lowercase format token.
func Resolve(quality Quality, format string) Preset {
	t, ok := tiers[quality]
	if !ok {
		return nil
	}
	crf := strconv.Itoa(t.crf)
	switch families[format] {
	case familyH264:
		p := Preset{{"-c:v", "libx264"}, {"-crf", crf}}
		if t.effort != "" {
			p = append(p, Flag{"-preset", t.effort})
		}
		return append(p, Flag{"-c:a", "aac"}, Flag{"-b:a", t.bitrate})
	case familyVP9:
		p := Preset{{"-c:v", "libvpx-vp9"}, {"-b:v", "0"}, {"-crf", crf}}
		if t.effort != "" {
			p = append(p, Flag{"-deadline", "good"}, Flag{"-cpu-used", vp9CPUUsed[t.effort]})
		}
		return append(p, Flag{"-c:a", "libopus"}, Flag{"-b:a", t.bitrate})
	case familyAudio:
		return Preset{{"-b:a", t.bitrate}}
	default:
		return nil
	}
}

// Framerate returns the frame rate flag for frame-based containers when fps > 0.
func Framerate(format string, fps int) Preset {
	if fps <= 0 {
		return nil
	}
	switch families[format] {
	case familyH264, familyVP9:
		return Preset{{"-r", strconv.Itoa(fps)}}
	default:
		return nil
	}
}
