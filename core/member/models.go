package member

import (
	"time"

	"github.com/chorale-hq/chorale/core"
)

// Roster roles
const (
	RoleMember  = "member"
	RoleSection = "section_leader"
)

// Voice parts
const (
	VoiceSoprano = "soprano"
	VoiceAlto    = "alto"
	VoiceTenor   = "tenor"
	VoiceBass    = "bass"
)

var VoiceParts = []string{VoiceSoprano, VoiceAlto, VoiceTenor, VoiceBass}

type Member struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	VoicePart string    `json:"voice_part"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

func (m Member) FullName() string {
	if m.LastName == "" {
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// NewMember contains information needed to add a Member to the roster.
type NewMember struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	VoicePart string `json:"voice_part" validate:"omitempty,voicepart"`
	Role      string `json:"role" validate:"omitempty,oneof=member section_leader"`
}

func (nm *NewMember) Validate() error {
	nm.FirstName = core.CleanString(nm.FirstName)
	nm.LastName = core.CleanString(nm.LastName)
	nm.Email = core.CleanString(nm.Email, true /* lower */)
	nm.VoicePart = core.CleanString(nm.VoicePart, true /* lower */)
	if nm.Role == "" {
		nm.Role = RoleMember
	}
	return core.Validate.Struct(nm)
}

// UpdateMember defines what information may be provided to modify an existing Member.
type UpdateMember struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"omitempty,email"`
	VoicePart string `json:"voice_part" validate:"omitempty,voicepart"`
	Role      string `json:"role" validate:"omitempty,oneof=member section_leader"`
	IsActive  *bool  `json:"is_active"`
}

func (um *UpdateMember) Validate() error {
	um.FirstName = core.CleanString(um.FirstName)
	um.LastName = core.CleanString(um.LastName)
	um.Email = core.CleanString(um.Email, true /* lower */)
	um.VoicePart = core.CleanString(um.VoicePart, true /* lower */)
	return core.Validate.Struct(um)
}

type QueryFilter struct {
	Search    string `query:"search"`
	VoicePart string `query:"voice_part"`
	IsActive  *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.VoicePart == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.VoicePart = core.CleanString(qf.VoicePart, true /* lower */)
}
