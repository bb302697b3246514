package sqlxrepos

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/dashboard"
)

type dashboardRepository struct {
	db *sqlx.DB
}

var _ dashboard.Repository = (*dashboardRepository)(nil)

func NewDashboardRepository(db *sqlx.DB) dashboard.Repository {
	return &dashboardRepository{db: db}
}

func (repo *dashboardRepository) CountActiveMembers(orgID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM member WHERE org_id = $1 AND is_active`
	if err := repo.db.Get(&count, query, orgID); err != nil {
		return 0, errors.Wrap(err, "counting active members")
	}
	return count, nil
}

func (repo *dashboardRepository) CountEventsFrom(orgID int, from time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM event WHERE org_id = $1 AND starts_at >= $2`
	if err := repo.db.Get(&count, query, orgID, from); err != nil {
		return 0, errors.Wrap(err, "counting upcoming events")
	}
	return count, nil
}

func (repo *dashboardRepository) CountOpenAuditionSlots(orgID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM audition_slot WHERE org_id = $1 AND member_id IS NULL AND status = 'pending'`
	if err := repo.db.Get(&count, query, orgID); err != nil {
		return 0, errors.Wrap(err, "counting open audition slots")
	}
	return count, nil
}

func (repo *dashboardRepository) CountProjectsByYear(programYearID, orgID int) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM project WHERE program_year_id = $1 AND org_id = $2`
	if err := repo.db.Get(&count, query, programYearID, orgID); err != nil {
		return 0, errors.Wrap(err, "counting projects")
	}
	return count, nil
}
