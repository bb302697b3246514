package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/chorale-hq/chorale/core/audition"
)

type auditionDateRow struct {
	ID            int       `db:"id"`
	OrgID         int       `db:"org_id"`
	ProgramYearID int       `db:"program_year_id"`
	StartsAt      time.Time `db:"starts_at"`
	EndsAt        time.Time `db:"ends_at"`
	BlockMinutes  int       `db:"block_minutes"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r auditionDateRow) model() audition.AuditionDate {
	return audition.AuditionDate{
		ID:            r.ID,
		OrgID:         r.OrgID,
		ProgramYearID: r.ProgramYearID,
		StartsAt:      r.StartsAt.UTC(),
		EndsAt:        r.EndsAt.UTC(),
		BlockMinutes:  r.BlockMinutes,
		CreatedAt:     r.CreatedAt.UTC(),
		UpdatedAt:     r.UpdatedAt.UTC(),
	}
}

type auditionSlotRow struct {
	ID             int         `db:"id"`
	OrgID          int         `db:"org_id"`
	AuditionDateID int         `db:"audition_date_id"`
	StartsAt       time.Time   `db:"starts_at"`
	MemberID       null.Int    `db:"member_id"`
	Status         string      `db:"status"`
	Notes          null.String `db:"notes"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r auditionSlotRow) model() audition.AuditionSlot {
	return audition.AuditionSlot{
		ID:             r.ID,
		OrgID:          r.OrgID,
		AuditionDateID: r.AuditionDateID,
		StartsAt:       r.StartsAt.UTC(),
		MemberID:       r.MemberID,
		Status:         r.Status,
		Notes:          r.Notes,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

const (
	auditionDateColumns = `id, org_id, program_year_id, starts_at, ends_at, block_minutes, created_at, updated_at`
	auditionSlotColumns = `id, org_id, audition_date_id, starts_at, member_id, status, notes, created_at, updated_at`
)

type auditionRepository struct {
	db *sqlx.DB
}

var _ audition.Repository = (*auditionRepository)(nil)

func NewAuditionRepository(db *sqlx.DB) audition.Repository {
	return &auditionRepository{db: db}
}

// CreateAuditionDate inserts the date and its slots in one transaction.
func (repo *auditionRepository) CreateAuditionDate(d audition.AuditionDate) (audition.AuditionDate, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return audition.AuditionDate{}, errors.Wrap(err, "beginning create")
	}
	defer func() { _ = tx.Rollback() }()

	const dateQuery = `
		INSERT INTO audition_date (org_id, program_year_id, starts_at, ends_at, block_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err = tx.Get(
		&d.ID, dateQuery,
		d.OrgID, d.ProgramYearID, d.StartsAt, d.EndsAt, d.BlockMinutes, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return audition.AuditionDate{}, errors.Wrap(err, "inserting audition date")
	}

	const slotQuery = `
		INSERT INTO audition_slot (org_id, audition_date_id, starts_at, member_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	for i := range d.Slots {
		s := &d.Slots[i]
		s.AuditionDateID = d.ID
		err = tx.Get(&s.ID, slotQuery, s.OrgID, s.AuditionDateID, s.StartsAt, s.MemberID, s.Status, s.Notes, s.CreatedAt, s.UpdatedAt)
		if err != nil {
			return audition.AuditionDate{}, errors.Wrap(err, "inserting audition slot")
		}
	}
	if err = tx.Commit(); err != nil {
		return audition.AuditionDate{}, errors.Wrap(err, "committing create")
	}
	return d, nil
}

func (repo *auditionRepository) GetAuditionDateByID(id, orgID int) (audition.AuditionDate, error) {
	query := `SELECT ` + auditionDateColumns + ` FROM audition_date WHERE id = $1 AND org_id = $2`
	return repo.getAuditionDate(query, id, orgID)
}

func (repo *auditionRepository) GetAuditionDateAny(id int) (audition.AuditionDate, error) {
	query := `SELECT ` + auditionDateColumns + ` FROM audition_date WHERE id = $1`
	return repo.getAuditionDate(query, id)
}

func (repo *auditionRepository) getAuditionDate(query string, args ...interface{}) (audition.AuditionDate, error) {
	var row auditionDateRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return audition.AuditionDate{}, audition.ErrDateNotFound
		}
		return audition.AuditionDate{}, errors.Wrap(err, "getting audition date")
	}

	d := row.model()
	var slotRows []auditionSlotRow
	slotQuery := `SELECT ` + auditionSlotColumns + ` FROM audition_slot WHERE audition_date_id = $1 ORDER BY starts_at`
	if err := repo.db.Select(&slotRows, slotQuery, d.ID); err != nil {
		return audition.AuditionDate{}, errors.Wrap(err, "querying audition slots")
	}
	d.Slots = make([]audition.AuditionSlot, 0, len(slotRows))
	for _, sr := range slotRows {
		d.Slots = append(d.Slots, sr.model())
	}
	return d, nil
}

func (repo *auditionRepository) QueryAuditionDatesByYear(programYearID, orgID int) ([]audition.AuditionDate, error) {
	var rows []auditionDateRow
	query := `SELECT ` + auditionDateColumns + ` FROM audition_date WHERE program_year_id = $1 AND org_id = $2 ORDER BY starts_at, id`
	if err := repo.db.Select(&rows, query, programYearID, orgID); err != nil {
		return nil, errors.Wrap(err, "querying audition dates")
	}

	dates := make([]audition.AuditionDate, 0, len(rows))
	for _, row := range rows {
		d, err := repo.getAuditionDate(`SELECT `+auditionDateColumns+` FROM audition_date WHERE id = $1`, row.ID)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

// DeleteAuditionDate removes the date's slots, then the date.
func (repo *auditionRepository) DeleteAuditionDate(id, orgID int) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning delete")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM audition_slot WHERE audition_date_id = $1 AND org_id = $2`, id, orgID); err != nil {
		return errors.Wrap(err, "deleting audition slots")
	}
	res, err := tx.Exec(`DELETE FROM audition_date WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.Wrap(err, "deleting audition date")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return audition.ErrDateNotFound
	}
	return errors.Wrap(tx.Commit(), "committing delete")
}

func (repo *auditionRepository) GetSlotByID(id, orgID int) (audition.AuditionSlot, error) {
	query := `SELECT ` + auditionSlotColumns + ` FROM audition_slot WHERE id = $1 AND org_id = $2`
	return repo.getSlot(query, id, orgID)
}

func (repo *auditionRepository) GetSlotAny(id int) (audition.AuditionSlot, error) {
	query := `SELECT ` + auditionSlotColumns + ` FROM audition_slot WHERE id = $1`
	return repo.getSlot(query, id)
}

func (repo *auditionRepository) getSlot(query string, args ...interface{}) (audition.AuditionSlot, error) {
	var row auditionSlotRow
	if err := repo.db.Get(&row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return audition.AuditionSlot{}, audition.ErrSlotNotFound
		}
		return audition.AuditionSlot{}, errors.Wrap(err, "getting audition slot")
	}
	return row.model(), nil
}

// ClaimSlot is a conditional update: it matches only while the slot is
// unclaimed and pending, so exactly one concurrent claimant wins.
func (repo *auditionRepository) ClaimSlot(slotID, memberID int) (audition.AuditionSlot, error) {
	const query = `
		UPDATE audition_slot
		SET member_id = $2, updated_at = $3
		WHERE id = $1 AND member_id IS NULL AND status = 'pending'
		RETURNING ` + auditionSlotColumns
	var row auditionSlotRow
	err := repo.db.Get(&row, query, slotID, memberID, time.Now().UTC())
	if err == nil {
		return row.model(), nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return audition.AuditionSlot{}, errors.Wrap(err, "claiming audition slot")
	}

	// no row matched: distinguish a missing slot from a lost race
	if _, err = repo.GetSlotAny(slotID); err != nil {
		return audition.AuditionSlot{}, err
	}
	return audition.AuditionSlot{}, audition.ErrSlotTaken
}

func (repo *auditionRepository) UpdateSlotStatus(id, orgID int, status string) (audition.AuditionSlot, error) {
	const query = `
		UPDATE audition_slot SET status = $3, updated_at = $4
		WHERE id = $1 AND org_id = $2
		RETURNING ` + auditionSlotColumns
	var row auditionSlotRow
	if err := repo.db.Get(&row, query, id, orgID, status, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return audition.AuditionSlot{}, audition.ErrSlotNotFound
		}
		return audition.AuditionSlot{}, errors.Wrap(err, "updating slot status")
	}
	return row.model(), nil
}

func (repo *auditionRepository) UpdateSlotNotes(id, orgID int, notes null.String) (audition.AuditionSlot, error) {
	const query = `
		UPDATE audition_slot SET notes = $3, updated_at = $4
		WHERE id = $1 AND org_id = $2
		RETURNING ` + auditionSlotColumns
	var row auditionSlotRow
	if err := repo.db.Get(&row, query, id, orgID, notes, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return audition.AuditionSlot{}, audition.ErrSlotNotFound
		}
		return audition.AuditionSlot{}, errors.Wrap(err, "updating slot notes")
	}
	return row.model(), nil
}
