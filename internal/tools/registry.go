// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

// Package tools holds the static catalog of CLI tools a plan may invoke.
// The registry is the single source of truth for which command ids are
// allowed to appear in a plan.
package tools

// CommandNone is the reserved no-op command id. It is always present in a
// registry and is never spawned.
const CommandNone = "none"

// Definition describes one allowed command with human-readable metadata.
type Definition struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// Registry is an immutable catalog of command definitions. Construct once at
// process start and pass by reference; never mutate after construction.
type Registry struct {
	ids  []string
	defs map[string]Definition
}

// NewRegistry builds a registry from the given definitions. The reserved
// "none" entry is injected first if the caller did not supply one, so it is
// always present. Later duplicates of an id are ignored.
func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{defs: make(map[string]Definition)}

	hasNone := false
	for _, d := range defs {
		if d.ID == CommandNone {
			hasNone = true
			break
		}
	}
	if !hasNone {
		r.add(Definition{
			ID:          CommandNone,
			Title:       "No operation",
			Description: "Explicitly does nothing; use when a step has no command to run.",
		})
	}
	for _, d := range defs {
		r.add(d)
	}
	return r
}

func (r *Registry) add(d Definition) {
	if _, ok := r.defs[d.ID]; ok {
		return
	}
	r.ids = append(r.ids, d.ID)
	r.defs[d.ID] = d
}

// DefaultRegistry returns the stock media tool catalog. Extending the
// catalog is a configuration change (see config.Config.ExtraTools), not a
// code change here.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Definition{
			ID:          "ffmpeg",
			Title:       "FFmpeg",
			Description: "Convert, transcode, trim, resize, and filter audio/video files.",
		},
		Definition{
			ID:          "ffprobe",
			Title:       "FFprobe",
			Description: "Inspect media streams, codecs, duration, and metadata as JSON or text.",
		},
		Definition{
			ID:          "magick",
			Title:       "ImageMagick",
			Description: "Convert, resize, crop, composite, and annotate raster images.",
		},
		Definition{
			ID:          "exiftool",
			Title:       "ExifTool",
			Description: "Read and write EXIF/IPTC/XMP metadata on images and other media.",
		},
	)
}

// HasCommand reports whether id is a known command, including "none".
func (r *Registry) HasCommand(id string) bool {
	_, ok := r.defs[id]
	return ok
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id string) (Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// ListCommandIDs returns all command ids, including "none", in declaration
// order.
func (r *Registry) ListCommandIDs() []string {
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// ListExecutableCommandIDs returns all command ids except "none".
func (r *Registry) ListExecutableCommandIDs() []string {
	out := make([]string, 0, len(r.ids))
	for _, id := range r.ids {
		if id != CommandNone {
			out = append(out, id)
		}
	}
	return out
}

// DescribeExecutableCommands returns the definitions of every executable
// command, for prompt building and CLI listing. Excludes "none".
func (r *Registry) DescribeExecutableCommands() []Definition {
	out := make([]Definition, 0, len(r.ids))
	for _, id := range r.ids {
		if id == CommandNone {
			continue
		}
		out = append(out, r.defs[id])
	}
	return out
}
