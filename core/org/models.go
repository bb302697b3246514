package org

import (
	"regexp"
	"strings"
	"time"

	"github.com/chorale-hq/chorale/core"
)

type Organization struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	FeedToken string    `json:"-"` // grants access to the public calendar feed
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewOrganization contains information needed to create a new Organization.
type NewOrganization struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"omitempty,alphanum_"`
}

func (no *NewOrganization) Validate() error {
	no.Name = core.CleanString(no.Name)
	no.Slug = core.CleanString(no.Slug, true /* lower */)
	if no.Slug == "" {
		no.Slug = Slugify(no.Name)
	}
	return core.Validate.Struct(no)
}

var slugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowers `s` and collapses all non-alphanumeric runs into single underscores.
func Slugify(s string) string {
	s = slugRegex.ReplaceAllString(strings.ToLower(s), "_")
	return strings.Trim(s, "_")
}
