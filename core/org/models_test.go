package org

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Vox Lumina", "vox_lumina"},
		{"St. Agnes Choir", "st_agnes_choir"},
		{"  The--Big  Sing!  ", "the_big_sing"},
		{"2026", "2026"},
		{"***", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "Slugify(%q)", tt.in)
	}
}

func TestNewOrganizationValidate(t *testing.T) {
	t.Run("derives the slug from the name", func(t *testing.T) {
		no := NewOrganization{Name: "  Vox Lumina "}
		require.NoError(t, no.Validate())
		assert.Equal(t, "Vox Lumina", no.Name)
		assert.Equal(t, "vox_lumina", no.Slug)
	})

	t.Run("keeps an explicit slug", func(t *testing.T) {
		no := NewOrganization{Name: "Vox Lumina", Slug: "VOXL"}
		require.NoError(t, no.Validate())
		assert.Equal(t, "voxl", no.Slug)
	})

	t.Run("requires a name", func(t *testing.T) {
		no := NewOrganization{}
		assert.Error(t, no.Validate())
	})

	t.Run("rejects a slug with punctuation", func(t *testing.T) {
		no := NewOrganization{Name: "Vox Lumina", Slug: "vox-lumina!"}
		assert.Error(t, no.Validate())
	})
}
