// Copyright (c) 2025 Media Agent Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_InjectsNone(t *testing.T) {
	r := NewRegistry(Definition{ID: "ffmpeg", Title: "FFmpeg"})

	assert.True(t, r.HasCommand(CommandNone))
	assert.True(t, r.HasCommand("ffmpeg"))
	assert.False(t, r.HasCommand("rm"))
}

func TestRegistry_ListCommandIDs_DeclarationOrder(t *testing.T) {
	r := NewRegistry(
		Definition{ID: "ffmpeg"},
		Definition{ID: "exiftool"},
		Definition{ID: "magick"},
	)

	assert.Equal(t, []string{"none", "ffmpeg", "exiftool", "magick"}, r.ListCommandIDs())
	assert.Equal(t, []string{"ffmpeg", "exiftool", "magick"}, r.ListExecutableCommandIDs())
}

func TestRegistry_DescribeExecutableCommands_ExcludesNone(t *testing.T) {
	r := DefaultRegistry()

	descs := r.DescribeExecutableCommands()
	require.NotEmpty(t, descs)
	for _, d := range descs {
		assert.NotEqual(t, CommandNone, d.ID)
		assert.NotEmpty(t, d.Title)
		assert.NotEmpty(t, d.Description)
	}
}

func TestRegistry_DuplicateIDsIgnored(t *testing.T) {
	r := NewRegistry(
		Definition{ID: "ffmpeg", Title: "first"},
		Definition{ID: "ffmpeg", Title: "second"},
	)

	d, ok := r.Lookup("ffmpeg")
	require.True(t, ok)
	assert.Equal(t, "first", d.Title)
	assert.Len(t, r.ListExecutableCommandIDs(), 1)
}
