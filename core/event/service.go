package event

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound      = errors.New("event not found")
	ErrVenueNotFound = errors.New("venue not found")
)

type (
	Repository interface {
		CreateVenue(v Venue) (Venue, error)
		GetVenueByID(id, orgID int) (Venue, error)
		QueryVenues(orgID int) ([]Venue, error)
		DeleteVenue(id, orgID int) error

		CreateEvent(e Event) (Event, error)
		GetEventByID(id, orgID int) (Event, error)
		QueryEvents(orgID int) ([]Event, error)
		QueryEventsByProject(projectID, orgID int) ([]Event, error)
		CountEventsFrom(orgID int, from time.Time) (int, error)
		DeleteEvent(id, orgID int) error

		// UpsertAttendance inserts or overwrites the (event, member) record.
		UpsertAttendance(a Attendance) (Attendance, error)
		QueryAttendanceByEvent(eventID, orgID int) ([]Attendance, error)
	}

	Service interface {
		CreateVenue(orgID int, nv NewVenue) (Venue, error)
		QueryVenues(orgID int) ([]Venue, error)
		DeleteVenue(id, orgID int) error

		Create(orgID int, ne NewEvent) (Event, error)
		GetByID(id, orgID int) (Event, error)
		Query(orgID int) ([]Event, error)
		QueryByProject(projectID, orgID int) ([]Event, error)
		Delete(id, orgID int) error

		SetAttendance(eventID, memberID, orgID int, sa SetAttendance) (Attendance, error)
		QueryAttendance(eventID, orgID int) ([]Attendance, error)

		// Feed renders all of the org's events as an iCalendar document.
		Feed(orgID int, orgName string) (string, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateVenue(orgID int, nv NewVenue) (Venue, error) {
	now := time.Now().UTC()
	v := Venue{
		OrgID:     orgID,
		Name:      nv.Name,
		Address:   nv.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateVenue(v)
}

func (svc *service) QueryVenues(orgID int) ([]Venue, error) {
	return svc.repo.QueryVenues(orgID)
}

func (svc *service) DeleteVenue(id, orgID int) error {
	return svc.repo.DeleteVenue(id, orgID)
}

func (svc *service) Create(orgID int, ne NewEvent) (Event, error) {
	if ne.VenueID.Valid {
		if _, err := svc.repo.GetVenueByID(ne.VenueID.Int, orgID); err != nil {
			return Event{}, err
		}
	}

	now := time.Now().UTC()
	e := Event{
		OrgID:     orgID,
		ProjectID: ne.ProjectID,
		VenueID:   ne.VenueID,
		Name:      ne.Name,
		Kind:      ne.Kind,
		StartsAt:  ne.StartsAt.UTC(),
		EndsAt:    ne.EndsAt.UTC(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateEvent(e)
}

func (svc *service) GetByID(id, orgID int) (Event, error) {
	return svc.repo.GetEventByID(id, orgID)
}

func (svc *service) Query(orgID int) ([]Event, error) {
	return svc.repo.QueryEvents(orgID)
}

func (svc *service) QueryByProject(projectID, orgID int) ([]Event, error) {
	return svc.repo.QueryEventsByProject(projectID, orgID)
}

func (svc *service) Delete(id, orgID int) error {
	return svc.repo.DeleteEvent(id, orgID)
}

func (svc *service) SetAttendance(eventID, memberID, orgID int, sa SetAttendance) (Attendance, error) {
	if _, err := svc.repo.GetEventByID(eventID, orgID); err != nil {
		return Attendance{}, err
	}
	a := Attendance{
		OrgID:     orgID,
		EventID:   eventID,
		MemberID:  memberID,
		Status:    sa.Status,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpsertAttendance(a)
}

func (svc *service) QueryAttendance(eventID, orgID int) ([]Attendance, error) {
	if _, err := svc.repo.GetEventByID(eventID, orgID); err != nil {
		return nil, err
	}
	return svc.repo.QueryAttendanceByEvent(eventID, orgID)
}

func (svc *service) Feed(orgID int, orgName string) (string, error) {
	events, err := svc.repo.QueryEvents(orgID)
	if err != nil {
		return "", errors.Wrap(err, "querying events for feed")
	}
	return RenderICS(orgName, events), nil
}
