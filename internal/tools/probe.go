// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package tools

import (
	"strings"

	"github.com/bitfield/script"
)

// ProbeResult reports whether a cataloged tool is installed on this host.
type ProbeResult struct {
	ID        string
	Available bool
	Version   string
}

// probeArgs maps a command id to the argument that makes it print a version
// string and exit. Anything not listed falls back to -version.
var probeArgs = map[string]string{
	"ffmpeg":   "-version",
	"ffprobe":  "-version",
	"magick":   "--version",
	"exiftool": "-ver",
}

// Probe checks every executable command in the registry for availability by
// running its version flag. Availability is advisory only: execution never
// consults it, and a missing tool surfaces as a step failure at run time.
func Probe(r *Registry) []ProbeResult {
	ids := r.ListExecutableCommandIDs()
	results := make([]ProbeResult, 0, len(ids))

	for _, id := range ids {
		arg, ok := probeArgs[id]
		if !ok {
			arg = "-version"
		}

		out, err := script.Exec(id + " " + arg).String()
		res := ProbeResult{ID: id, Available: err == nil}
		if err == nil {
			res.Version = firstLine(out)
		}
		results = append(results, res)
	}
	return results
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
