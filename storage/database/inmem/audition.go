package inmemdb

import (
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/chorale-hq/chorale/core/audition"
)

type auditionRepository struct {
	db *DB
}

var _ audition.Repository = (*auditionRepository)(nil)

func NewAuditionRepository(db *DB) audition.Repository {
	return &auditionRepository{db: db}
}

// CreateAuditionDate inserts the date and all of its slots while holding the
// write lock, so readers never observe a partially created schedule.
func (repo *auditionRepository) CreateAuditionDate(d audition.AuditionDate) (audition.AuditionDate, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	slots := d.Slots
	d.Slots = nil
	d.ID = repo.db.nextID()
	repo.db.auditionDates[d.ID] = &d

	d.Slots = make([]audition.AuditionSlot, 0, len(slots))
	for _, s := range slots {
		s.ID = repo.db.nextID()
		s.AuditionDateID = d.ID
		repo.db.auditionSlots[s.ID] = &s
		d.Slots = append(d.Slots, s)
	}
	return d, nil
}

func (repo *auditionRepository) GetAuditionDateByID(id, orgID int) (audition.AuditionDate, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	d, ok := repo.db.auditionDates[id]
	if !ok || d.OrgID != orgID {
		return audition.AuditionDate{}, audition.ErrDateNotFound
	}
	return repo.withSlots(*d), nil
}

func (repo *auditionRepository) GetAuditionDateAny(id int) (audition.AuditionDate, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	d, ok := repo.db.auditionDates[id]
	if !ok {
		return audition.AuditionDate{}, audition.ErrDateNotFound
	}
	return repo.withSlots(*d), nil
}

// withSlots attaches the date's slots ordered by slot time; callers must hold
// at least the read lock.
func (repo *auditionRepository) withSlots(d audition.AuditionDate) audition.AuditionDate {
	d.Slots = make([]audition.AuditionSlot, 0)
	for _, s := range repo.db.auditionSlots {
		if s.AuditionDateID == d.ID {
			d.Slots = append(d.Slots, *s)
		}
	}
	sort.Slice(d.Slots, func(i, j int) bool { return d.Slots[i].StartsAt.Before(d.Slots[j].StartsAt) })
	return d
}

func (repo *auditionRepository) QueryAuditionDatesByYear(programYearID, orgID int) ([]audition.AuditionDate, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	dates := make([]audition.AuditionDate, 0)
	for _, d := range repo.db.auditionDates {
		if d.OrgID == orgID && d.ProgramYearID == programYearID {
			dates = append(dates, repo.withSlots(*d))
		}
	}
	sort.Slice(dates, func(i, j int) bool {
		if dates[i].StartsAt.Equal(dates[j].StartsAt) {
			return dates[i].ID < dates[j].ID
		}
		return dates[i].StartsAt.Before(dates[j].StartsAt)
	})
	return dates, nil
}

func (repo *auditionRepository) DeleteAuditionDate(id, orgID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	d, ok := repo.db.auditionDates[id]
	if !ok || d.OrgID != orgID {
		return audition.ErrDateNotFound
	}
	for sid, s := range repo.db.auditionSlots {
		if s.AuditionDateID == id {
			delete(repo.db.auditionSlots, sid)
		}
	}
	delete(repo.db.auditionDates, id)
	return nil
}

func (repo *auditionRepository) GetSlotByID(id, orgID int) (audition.AuditionSlot, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.auditionSlots[id]; ok && s.OrgID == orgID {
		return *s, nil
	}
	return audition.AuditionSlot{}, audition.ErrSlotNotFound
}

func (repo *auditionRepository) GetSlotAny(id int) (audition.AuditionSlot, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.auditionSlots[id]; ok {
		return *s, nil
	}
	return audition.AuditionSlot{}, audition.ErrSlotNotFound
}

// ClaimSlot re-checks availability under the write lock so that exactly one
// of any concurrent claimants wins.
func (repo *auditionRepository) ClaimSlot(slotID, memberID int) (audition.AuditionSlot, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.auditionSlots[slotID]
	if !ok {
		return audition.AuditionSlot{}, audition.ErrSlotNotFound
	}
	if s.MemberID.Valid || s.Status != audition.StatusPending {
		return audition.AuditionSlot{}, audition.ErrSlotTaken
	}
	s.MemberID = null.IntFrom(memberID)
	s.UpdatedAt = nowUTC()
	return *s, nil
}

func (repo *auditionRepository) UpdateSlotStatus(id, orgID int, status string) (audition.AuditionSlot, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.auditionSlots[id]
	if !ok || s.OrgID != orgID {
		return audition.AuditionSlot{}, audition.ErrSlotNotFound
	}
	s.Status = status
	s.UpdatedAt = nowUTC()
	return *s, nil
}

func (repo *auditionRepository) UpdateSlotNotes(id, orgID int, notes null.String) (audition.AuditionSlot, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	s, ok := repo.db.auditionSlots[id]
	if !ok || s.OrgID != orgID {
		return audition.AuditionSlot{}, audition.ErrSlotNotFound
	}
	s.Notes = notes
	s.UpdatedAt = nowUTC()
	return *s, nil
}
