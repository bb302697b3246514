package program

import (
	"time"

	"github.com/chorale-hq/chorale/core"
)

type ProgramYear struct {
	ID        int       `json:"id"`
	OrgID     int       `json:"org_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type Project struct {
	ID            int       `json:"id"`
	OrgID         int       `json:"org_id"`
	ProgramYearID int       `json:"program_year_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
}

// NewProgramYear contains information needed to create a ProgramYear.
type NewProgramYear struct {
	Name      string    `json:"name" validate:"required"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

func (np *NewProgramYear) Validate() error {
	np.Name = core.CleanString(np.Name)
	return core.Validate.Struct(np)
}

// NewProject contains information needed to create a Project.
type NewProject struct {
	ProgramYearID int    `json:"program_year_id" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
}

func (np *NewProject) Validate() error {
	np.Name = core.CleanString(np.Name)
	np.Description = core.CleanString(np.Description)
	return core.Validate.Struct(np)
}

// UpdateProject defines what information may be provided to modify an existing Project.
type UpdateProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (up *UpdateProject) Validate() error {
	up.Name = core.CleanString(up.Name)
	up.Description = core.CleanString(up.Description)
	return core.Validate.Struct(up)
}
