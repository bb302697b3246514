package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/program"
)

type programYearRow struct {
	ID        int       `db:"id"`
	OrgID     int       `db:"org_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r programYearRow) model() program.ProgramYear {
	return program.ProgramYear{
		ID:        r.ID,
		OrgID:     r.OrgID,
		Name:      r.Name,
		StartDate: r.StartDate.UTC(),
		EndDate:   r.EndDate.UTC(),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type projectRow struct {
	ID            int       `db:"id"`
	OrgID         int       `db:"org_id"`
	ProgramYearID int       `db:"program_year_id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r projectRow) model() program.Project {
	return program.Project{
		ID:            r.ID,
		OrgID:         r.OrgID,
		ProgramYearID: r.ProgramYearID,
		Name:          r.Name,
		Description:   r.Description,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

const (
	programYearColumns = `id, org_id, name, start_date, end_date, created_at, updated_at`
	projectColumns     = `id, org_id, program_year_id, name, description, created_at, updated_at`
)

type programRepository struct {
	db *sqlx.DB
}

var _ program.Repository = (*programRepository)(nil)

func NewProgramRepository(db *sqlx.DB) program.Repository {
	return &programRepository{db: db}
}

func (repo *programRepository) CreateProgramYear(py program.ProgramYear) (program.ProgramYear, error) {
	const query = `
		INSERT INTO program_year (org_id, name, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := repo.db.Get(&py.ID, query, py.OrgID, py.Name, py.StartDate, py.EndDate, py.CreatedAt, py.UpdatedAt)
	if err != nil {
		return program.ProgramYear{}, errors.Wrap(err, "inserting program year")
	}
	return py, nil
}

func (repo *programRepository) GetProgramYearByID(id, orgID int) (program.ProgramYear, error) {
	var row programYearRow
	query := `SELECT ` + programYearColumns + ` FROM program_year WHERE id = $1 AND org_id = $2`
	if err := repo.db.Get(&row, query, id, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return program.ProgramYear{}, program.ErrYearNotFound
		}
		return program.ProgramYear{}, errors.Wrap(err, "getting program year")
	}
	return row.model(), nil
}

func (repo *programRepository) QueryProgramYears(orgID int) ([]program.ProgramYear, error) {
	var rows []programYearRow
	query := `SELECT ` + programYearColumns + ` FROM program_year WHERE org_id = $1 ORDER BY id`
	if err := repo.db.Select(&rows, query, orgID); err != nil {
		return nil, errors.Wrap(err, "querying program years")
	}
	years := make([]program.ProgramYear, 0, len(rows))
	for _, row := range rows {
		years = append(years, row.model())
	}
	return years, nil
}

// DeleteProgramYear removes the year and everything scheduled under it.
func (repo *programRepository) DeleteProgramYear(id, orgID int) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning delete")
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.Get(&exists, `SELECT true FROM program_year WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return program.ErrYearNotFound
		}
		return errors.Wrap(err, "checking program year")
	}

	steps := []string{
		`DELETE FROM audition_slot WHERE audition_date_id IN (SELECT id FROM audition_date WHERE program_year_id = $1)`,
		`DELETE FROM audition_date WHERE program_year_id = $1`,
		`DELETE FROM attendance WHERE event_id IN (SELECT id FROM event WHERE project_id IN (SELECT id FROM project WHERE program_year_id = $1))`,
		`DELETE FROM event WHERE project_id IN (SELECT id FROM project WHERE program_year_id = $1)`,
		`DELETE FROM project WHERE program_year_id = $1`,
		`DELETE FROM program_year WHERE id = $1`,
	}
	for _, step := range steps {
		if _, err = tx.Exec(step, id); err != nil {
			return errors.Wrap(err, "deleting program year")
		}
	}
	return errors.Wrap(tx.Commit(), "committing delete")
}

func (repo *programRepository) CreateProject(p program.Project) (program.Project, error) {
	const query = `
		INSERT INTO project (org_id, program_year_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := repo.db.Get(&p.ID, query, p.OrgID, p.ProgramYearID, p.Name, p.Description, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return program.Project{}, errors.Wrap(err, "inserting project")
	}
	return p, nil
}

func (repo *programRepository) GetProjectByID(id, orgID int) (program.Project, error) {
	var row projectRow
	query := `SELECT ` + projectColumns + ` FROM project WHERE id = $1 AND org_id = $2`
	if err := repo.db.Get(&row, query, id, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return program.Project{}, program.ErrProjectNotFound
		}
		return program.Project{}, errors.Wrap(err, "getting project")
	}
	return row.model(), nil
}

func (repo *programRepository) QueryProjectsByYear(programYearID, orgID int) ([]program.Project, error) {
	var rows []projectRow
	query := `SELECT ` + projectColumns + ` FROM project WHERE program_year_id = $1 AND org_id = $2 ORDER BY id`
	if err := repo.db.Select(&rows, query, programYearID, orgID); err != nil {
		return nil, errors.Wrap(err, "querying projects")
	}
	projects := make([]program.Project, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.model())
	}
	return projects, nil
}

func (repo *programRepository) CountProjectsByYear(programYearID, orgID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM project WHERE program_year_id = $1 AND org_id = $2`
	if err := repo.db.Get(&count, query, programYearID, orgID); err != nil {
		return 0, errors.Wrap(err, "counting projects")
	}
	return count, nil
}

// UpdateProject only saves set fields; see userRepository.UpdateUser.
func (repo *programRepository) UpdateProject(p program.Project) (program.Project, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return program.Project{}, errors.Wrap(err, "beginning update")
	}
	defer func() { _ = tx.Rollback() }()

	var row projectRow
	err = tx.Get(&row, `SELECT `+projectColumns+` FROM project WHERE id = $1 AND org_id = $2 FOR UPDATE`, p.ID, p.OrgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return program.Project{}, program.ErrProjectNotFound
		}
		return program.Project{}, errors.Wrap(err, "getting project for update")
	}

	if p.Name != "" {
		row.Name = p.Name
	}
	if p.Description != "" {
		row.Description = p.Description
	}
	row.UpdatedAt = p.UpdatedAt

	const query = `UPDATE project SET name = $2, description = $3, updated_at = $4 WHERE id = $1`
	if _, err = tx.Exec(query, row.ID, row.Name, row.Description, row.UpdatedAt); err != nil {
		return program.Project{}, errors.Wrap(err, "updating project")
	}
	if err = tx.Commit(); err != nil {
		return program.Project{}, errors.Wrap(err, "committing update")
	}
	return row.model(), nil
}

// DeleteProject removes the project, its events and their attendance.
func (repo *programRepository) DeleteProject(id, orgID int) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning delete")
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.Get(&exists, `SELECT true FROM project WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return program.ErrProjectNotFound
		}
		return errors.Wrap(err, "checking project")
	}

	steps := []string{
		`DELETE FROM attendance WHERE event_id IN (SELECT id FROM event WHERE project_id = $1)`,
		`DELETE FROM event WHERE project_id = $1`,
		`DELETE FROM project WHERE id = $1`,
	}
	for _, step := range steps {
		if _, err = tx.Exec(step, id); err != nil {
			return errors.Wrap(err, "deleting project")
		}
	}
	return errors.Wrap(tx.Commit(), "committing delete")
}
