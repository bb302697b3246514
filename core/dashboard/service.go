// Package dashboard aggregates per-organization summary counts for the
// admin console landing page.
package dashboard

import "time"

type (
	// Summary is the admin console landing payload.
	Summary struct {
		ActiveMembers     int `json:"active_members"`
		UpcomingEvents    int `json:"upcoming_events"`
		OpenAuditionSlots int `json:"open_audition_slots"`
		Projects          int `json:"projects"`
	}

	Repository interface {
		CountActiveMembers(orgID int) (int, error)
		CountEventsFrom(orgID int, from time.Time) (int, error)
		CountOpenAuditionSlots(orgID int) (int, error)
		CountProjectsByYear(programYearID, orgID int) (int, error)
	}

	Service interface {
		Summarize(orgID, programYearID int) (Summary, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Summarize(orgID, programYearID int) (Summary, error) {
	var s Summary
	var err error

	if s.ActiveMembers, err = svc.repo.CountActiveMembers(orgID); err != nil {
		return Summary{}, err
	}
	if s.UpcomingEvents, err = svc.repo.CountEventsFrom(orgID, time.Now().UTC()); err != nil {
		return Summary{}, err
	}
	if s.OpenAuditionSlots, err = svc.repo.CountOpenAuditionSlots(orgID); err != nil {
		return Summary{}, err
	}
	if programYearID != 0 {
		if s.Projects, err = svc.repo.CountProjectsByYear(programYearID, orgID); err != nil {
			return Summary{}, err
		}
	}
	return s, nil
}
