package audition

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/chorale-hq/chorale/core"
)

// Slot review statuses
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusRejected   = "rejected"
	StatusWaitlisted = "waitlisted"
)

var (
	allStatuses = []string{StatusPending, StatusAccepted, StatusRejected, StatusWaitlisted}

	errInvalidStatus = errors.New("invalid status")
)

// ParseStatus parses a case-insensitive status name into its canonical value.
func ParseStatus(s string) (string, error) {
	s = core.CleanString(s, true /* lower */)
	for _, st := range allStatuses {
		if s == st {
			return st, nil
		}
	}
	return "", errInvalidStatus
}

type AuditionDate struct {
	ID            int       `json:"id"`
	OrgID         int       `json:"org_id"`
	ProgramYearID int       `json:"program_year_id"`
	StartsAt      time.Time `json:"starts_at"` // UTC
	EndsAt        time.Time `json:"ends_at"`   // UTC
	BlockMinutes  int       `json:"block_length_minutes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Slots []AuditionSlot `json:"slots,omitempty"` // ordered by slot time
}

type AuditionSlot struct {
	ID             int         `json:"id"`
	OrgID          int         `json:"org_id"`
	AuditionDateID int         `json:"audition_date_id"`
	StartsAt       time.Time   `json:"starts_at"` // UTC
	MemberID       null.Int    `json:"member_id"`
	Status         string      `json:"status"`
	Notes          null.String `json:"notes"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// IsAvailable reports whether the slot can still be claimed:
// unclaimed AND pending review.
func (s AuditionSlot) IsAvailable() bool {
	return !s.MemberID.Valid && s.Status == StatusPending
}

// NewAuditionDate contains information needed to schedule an audition date.
// The window is given as a calendar date plus wall-clock start/end times.
type NewAuditionDate struct {
	ProgramYearID      int    `json:"program_year_id" validate:"required"`
	Date               string `json:"date" validate:"required"`
	StartTime          string `json:"start_time" validate:"required"`
	EndTime            string `json:"end_time" validate:"required"`
	BlockLengthMinutes int    `json:"block_length_minutes" validate:"required"`

	StartsAt time.Time `json:"-"`
	EndsAt   time.Time `json:"-"`
}

func (nd *NewAuditionDate) Validate() error {
	nd.Date = core.CleanString(nd.Date)
	nd.StartTime = core.CleanString(nd.StartTime)
	nd.EndTime = core.CleanString(nd.EndTime)

	if err := core.Validate.Struct(nd); err != nil {
		return err
	}

	day, err := time.Parse("2006-01-02", nd.Date)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "date", Error: "must be a valid date (YYYY-MM-DD)"})
	}
	start, err := parseTimeOfDay(day, nd.StartTime)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "start_time", Error: "must be a valid time (HH:MM)"})
	}
	end, err := parseTimeOfDay(day, nd.EndTime)
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "end_time", Error: "must be a valid time (HH:MM)"})
	}

	if nd.BlockLengthMinutes <= 0 {
		return core.NewValidationError(nil, core.FieldError{
			Field: "block_length_minutes", Error: "must be greater than zero",
		})
	}
	if !end.After(start) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "end_time", Error: "must be after start time",
		})
	}
	if end.Sub(start)%(time.Duration(nd.BlockLengthMinutes)*time.Minute) != 0 {
		return core.NewValidationError(nil, core.FieldError{
			Field: "block_length_minutes", Error: "must evenly divide the audition window",
		})
	}

	nd.StartsAt = start
	nd.EndsAt = end
	return nil
}

func parseTimeOfDay(day time.Time, s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// SignUp contains information submitted by an auditionee claiming a slot.
type SignUp struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email" validate:"required,email"`
}

func (su *SignUp) Validate() error {
	su.FirstName = core.CleanString(su.FirstName)
	su.LastName = core.CleanString(su.LastName)
	su.Email = core.CleanString(su.Email, true /* lower */)
	return core.Validate.Struct(su)
}

// UpdateSlotStatus sets a slot's review status; any transition is allowed.
type UpdateSlotStatus struct {
	Status string `json:"status" validate:"required"`
}

// UpdateSlotNotes overwrites a slot's free-text notes.
type UpdateSlotNotes struct {
	Notes null.String `json:"notes"`
}

// PublicSlot is the unauthenticated projection of a slot: no claimant, no notes.
type PublicSlot struct {
	ID          int       `json:"id"`
	StartsAt    time.Time `json:"starts_at"`
	IsAvailable bool      `json:"is_available"`
}

// PublicAuditionDate is the unauthenticated projection of a date and its slots.
type PublicAuditionDate struct {
	ID           int          `json:"id"`
	StartsAt     time.Time    `json:"starts_at"`
	EndsAt       time.Time    `json:"ends_at"`
	BlockMinutes int          `json:"block_length_minutes"`
	Slots        []PublicSlot `json:"slots"`
}

func NewPublicAuditionDate(d AuditionDate) PublicAuditionDate {
	pub := PublicAuditionDate{
		ID:           d.ID,
		StartsAt:     d.StartsAt,
		EndsAt:       d.EndsAt,
		BlockMinutes: d.BlockMinutes,
		Slots:        make([]PublicSlot, 0, len(d.Slots)),
	}
	for _, s := range d.Slots {
		pub.Slots = append(pub.Slots, PublicSlot{
			ID:          s.ID,
			StartsAt:    s.StartsAt,
			IsAvailable: s.IsAvailable(),
		})
	}
	return pub
}
