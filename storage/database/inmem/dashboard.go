package inmemdb

import (
	"time"

	"github.com/chorale-hq/chorale/core/dashboard"
)

type dashboardRepository struct {
	db *DB

	memberRepo  *memberRepository
	eventRepo   *eventRepository
	programRepo *programRepository
}

var _ dashboard.Repository = (*dashboardRepository)(nil)

func NewDashboardRepository(db *DB) dashboard.Repository {
	return &dashboardRepository{
		db:          db,
		memberRepo:  &memberRepository{db: db},
		eventRepo:   &eventRepository{db: db},
		programRepo: &programRepository{db: db},
	}
}

func (repo *dashboardRepository) CountActiveMembers(orgID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, m := range repo.db.members {
		if m.OrgID == orgID && m.IsActive {
			count++
		}
	}
	return count, nil
}

func (repo *dashboardRepository) CountEventsFrom(orgID int, from time.Time) (int, error) {
	return repo.eventRepo.CountEventsFrom(orgID, from)
}

func (repo *dashboardRepository) CountOpenAuditionSlots(orgID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, s := range repo.db.auditionSlots {
		if s.OrgID == orgID && s.IsAvailable() {
			count++
		}
	}
	return count, nil
}

func (repo *dashboardRepository) CountProjectsByYear(programYearID, orgID int) (int, error) {
	return repo.programRepo.CountProjectsByYear(programYearID, orgID)
}
