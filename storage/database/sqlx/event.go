package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/chorale-hq/chorale/core/event"
)

type venueRow struct {
	ID        int       `db:"id"`
	OrgID     int       `db:"org_id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r venueRow) model() event.Venue {
	return event.Venue{
		ID:        r.ID,
		OrgID:     r.OrgID,
		Name:      r.Name,
		Address:   r.Address,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type eventRow struct {
	ID        int       `db:"id"`
	OrgID     int       `db:"org_id"`
	ProjectID int       `db:"project_id"`
	VenueID   null.Int  `db:"venue_id"`
	Name      string    `db:"name"`
	Kind      string    `db:"kind"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r eventRow) model() event.Event {
	return event.Event{
		ID:        r.ID,
		OrgID:     r.OrgID,
		ProjectID: r.ProjectID,
		VenueID:   r.VenueID,
		Name:      r.Name,
		Kind:      r.Kind,
		StartsAt:  r.StartsAt.UTC(),
		EndsAt:    r.EndsAt.UTC(),
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type attendanceRow struct {
	ID        int       `db:"id"`
	OrgID     int       `db:"org_id"`
	EventID   int       `db:"event_id"`
	MemberID  int       `db:"member_id"`
	Status    string    `db:"status"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r attendanceRow) model() event.Attendance {
	return event.Attendance{
		ID:        r.ID,
		OrgID:     r.OrgID,
		EventID:   r.EventID,
		MemberID:  r.MemberID,
		Status:    r.Status,
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

const (
	venueColumns      = `id, org_id, name, address, created_at, updated_at`
	eventColumns      = `id, org_id, project_id, venue_id, name, kind, starts_at, ends_at, created_at, updated_at`
	attendanceColumns = `id, org_id, event_id, member_id, status, updated_at`
)

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateVenue(v event.Venue) (event.Venue, error) {
	const query = `
		INSERT INTO venue (org_id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := repo.db.Get(&v.ID, query, v.OrgID, v.Name, v.Address, v.CreatedAt, v.UpdatedAt); err != nil {
		return event.Venue{}, errors.Wrap(err, "inserting venue")
	}
	return v, nil
}

func (repo *eventRepository) GetVenueByID(id, orgID int) (event.Venue, error) {
	var row venueRow
	query := `SELECT ` + venueColumns + ` FROM venue WHERE id = $1 AND org_id = $2`
	if err := repo.db.Get(&row, query, id, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Venue{}, event.ErrVenueNotFound
		}
		return event.Venue{}, errors.Wrap(err, "getting venue")
	}
	return row.model(), nil
}

func (repo *eventRepository) QueryVenues(orgID int) ([]event.Venue, error) {
	var rows []venueRow
	query := `SELECT ` + venueColumns + ` FROM venue WHERE org_id = $1 ORDER BY id`
	if err := repo.db.Select(&rows, query, orgID); err != nil {
		return nil, errors.Wrap(err, "querying venues")
	}
	venues := make([]event.Venue, 0, len(rows))
	for _, row := range rows {
		venues = append(venues, row.model())
	}
	return venues, nil
}

// DeleteVenue detaches the venue from its events before removing it.
func (repo *eventRepository) DeleteVenue(id, orgID int) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning delete")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`UPDATE event SET venue_id = NULL WHERE venue_id = $1 AND org_id = $2`, id, orgID); err != nil {
		return errors.Wrap(err, "detaching venue")
	}
	res, err := tx.Exec(`DELETE FROM venue WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.Wrap(err, "deleting venue")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return event.ErrVenueNotFound
	}
	return errors.Wrap(tx.Commit(), "committing delete")
}

func (repo *eventRepository) CreateEvent(e event.Event) (event.Event, error) {
	const query = `
		INSERT INTO event (org_id, project_id, venue_id, name, kind, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := repo.db.Get(
		&e.ID, query,
		e.OrgID, e.ProjectID, e.VenueID, e.Name, e.Kind, e.StartsAt, e.EndsAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "inserting event")
	}
	return e, nil
}

func (repo *eventRepository) GetEventByID(id, orgID int) (event.Event, error) {
	var row eventRow
	query := `SELECT ` + eventColumns + ` FROM event WHERE id = $1 AND org_id = $2`
	if err := repo.db.Get(&row, query, id, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "getting event")
	}
	return row.model(), nil
}

func (repo *eventRepository) QueryEvents(orgID int) ([]event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE org_id = $1 ORDER BY starts_at, id`
	return repo.queryEvents(query, orgID)
}

func (repo *eventRepository) QueryEventsByProject(projectID, orgID int) ([]event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event WHERE project_id = $1 AND org_id = $2 ORDER BY starts_at, id`
	return repo.queryEvents(query, projectID, orgID)
}

func (repo *eventRepository) queryEvents(query string, args ...interface{}) ([]event.Event, error) {
	var rows []eventRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.model())
	}
	return events, nil
}

func (repo *eventRepository) CountEventsFrom(orgID int, from time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM event WHERE org_id = $1 AND starts_at >= $2`
	if err := repo.db.Get(&count, query, orgID, from); err != nil {
		return 0, errors.Wrap(err, "counting events")
	}
	return count, nil
}

func (repo *eventRepository) DeleteEvent(id, orgID int) error {
	tx, err := repo.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "beginning delete")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.Exec(`DELETE FROM attendance WHERE event_id = $1 AND org_id = $2`, id, orgID); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	res, err := tx.Exec(`DELETE FROM event WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.Wrap(err, "deleting event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return event.ErrNotFound
	}
	return errors.Wrap(tx.Commit(), "committing delete")
}

func (repo *eventRepository) UpsertAttendance(a event.Attendance) (event.Attendance, error) {
	const query = `
		INSERT INTO attendance (org_id, event_id, member_id, status, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, member_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING ` + attendanceColumns
	var row attendanceRow
	if err := repo.db.Get(&row, query, a.OrgID, a.EventID, a.MemberID, a.Status, a.UpdatedAt); err != nil {
		return event.Attendance{}, errors.Wrap(err, "upserting attendance")
	}
	return row.model(), nil
}

func (repo *eventRepository) QueryAttendanceByEvent(eventID, orgID int) ([]event.Attendance, error) {
	var rows []attendanceRow
	query := `SELECT ` + attendanceColumns + ` FROM attendance WHERE event_id = $1 AND org_id = $2 ORDER BY id`
	if err := repo.db.Select(&rows, query, eventID, orgID); err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	records := make([]event.Attendance, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.model())
	}
	return records, nil
}
