package event

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/chorale-hq/chorale/core"
)

// Event kinds
const (
	KindRehearsal = "rehearsal"
	KindConcert   = "concert"
	KindRetreat   = "retreat"
	KindOther     = "other"
)

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
)

type Venue struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Event struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	ProjectID int       `json:"project_id"`
	VenueID   null.Int  `json:"venue_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	StartsAt  time.Time `json:"starts_at"` // UTC
	EndsAt    time.Time `json:"ends_at"`   // UTC
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Attendance struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	EventID   int       `json:"event_id"`
	MemberID  int       `json:"member_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewVenue contains information needed to create a Venue.
type NewVenue struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address"`
}

func (nv *NewVenue) Validate() error {
	nv.Name = core.CleanString(nv.Name)
	nv.Address = core.CleanString(nv.Address)
	return core.Validate.Struct(nv)
}

// NewEvent contains information needed to create an Event.
type NewEvent struct {
	ProjectID int       `json:"project_id" validate:"required"`
	VenueID   null.Int  `json:"venue_id"`
	Name      string    `json:"name" validate:"required"`
	Kind      string    `json:"kind" validate:"omitempty,oneof=rehearsal concert retreat other"`
	StartsAt  time.Time `json:"starts_at" validate:"required"`
	EndsAt    time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

func (ne *NewEvent) Validate() error {
	ne.Name = core.CleanString(ne.Name)
	if ne.Kind == "" {
		ne.Kind = KindRehearsal
	}
	return core.Validate.Struct(ne)
}

// SetAttendance records one member's attendance for an event; last writer wins.
type SetAttendance struct {
	Status string `json:"status" validate:"required,oneof=present absent excused"`
}

func (sa *SetAttendance) Validate() error {
	sa.Status = core.CleanString(sa.Status, true /* lower */)
	return core.Validate.Struct(sa)
}
