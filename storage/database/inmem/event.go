package inmemdb

import (
	"sort"
	"time"

	"github.com/chorale-hq/chorale/core/event"
)

type eventRepository struct {
	db *DB
}

var _ event.Repository = (*eventRepository)(nil)

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateVenue(v event.Venue) (event.Venue, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	v.ID = repo.db.nextID()
	repo.db.venues[v.ID] = &v
	return v, nil
}

func (repo *eventRepository) GetVenueByID(id, orgID int) (event.Venue, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if v, ok := repo.db.venues[id]; ok && v.OrgID == orgID {
		return *v, nil
	}
	return event.Venue{}, event.ErrVenueNotFound
}

func (repo *eventRepository) QueryVenues(orgID int) ([]event.Venue, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	venues := make([]event.Venue, 0)
	for _, v := range repo.db.venues {
		if v.OrgID == orgID {
			venues = append(venues, *v)
		}
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i].ID < venues[j].ID })
	return venues, nil
}

func (repo *eventRepository) DeleteVenue(id, orgID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	v, ok := repo.db.venues[id]
	if !ok || v.OrgID != orgID {
		return event.ErrVenueNotFound
	}
	// detach the venue from events that reference it
	for _, e := range repo.db.events {
		if e.VenueID.Valid && e.VenueID.Int == id {
			e.VenueID.Valid = false
			e.VenueID.Int = 0
		}
	}
	delete(repo.db.venues, id)
	return nil
}

func (repo *eventRepository) CreateEvent(e event.Event) (event.Event, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e.ID = repo.db.nextID()
	repo.db.events[e.ID] = &e
	return e, nil
}

func (repo *eventRepository) GetEventByID(id, orgID int) (event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.db.events[id]; ok && e.OrgID == orgID {
		return *e, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryEvents(orgID int) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]event.Event, 0)
	for _, e := range repo.db.events {
		if e.OrgID == orgID {
			events = append(events, *e)
		}
	}
	sortEvents(events)
	return events, nil
}

func (repo *eventRepository) QueryEventsByProject(projectID, orgID int) ([]event.Event, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	events := make([]event.Event, 0)
	for _, e := range repo.db.events {
		if e.OrgID == orgID && e.ProjectID == projectID {
			events = append(events, *e)
		}
	}
	sortEvents(events)
	return events, nil
}

func sortEvents(events []event.Event) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].StartsAt.Equal(events[j].StartsAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
}

func (repo *eventRepository) CountEventsFrom(orgID int, from time.Time) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, e := range repo.db.events {
		if e.OrgID == orgID && !e.StartsAt.Before(from) {
			count++
		}
	}
	return count, nil
}

func (repo *eventRepository) DeleteEvent(id, orgID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	e, ok := repo.db.events[id]
	if !ok || e.OrgID != orgID {
		return event.ErrNotFound
	}
	for aid, a := range repo.db.attendance {
		if a.EventID == id {
			delete(repo.db.attendance, aid)
		}
	}
	delete(repo.db.events, id)
	return nil
}

func (repo *eventRepository) UpsertAttendance(a event.Attendance) (event.Attendance, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.attendance {
		if existing.EventID == a.EventID && existing.MemberID == a.MemberID {
			existing.Status = a.Status
			existing.UpdatedAt = a.UpdatedAt
			return *existing, nil
		}
	}

	a.ID = repo.db.nextID()
	repo.db.attendance[a.ID] = &a
	return a, nil
}

func (repo *eventRepository) QueryAttendanceByEvent(eventID, orgID int) ([]event.Attendance, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]event.Attendance, 0)
	for _, a := range repo.db.attendance {
		if a.OrgID == orgID && a.EventID == eventID {
			records = append(records, *a)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
