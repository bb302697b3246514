package program

import (
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrYearNotFound    = errors.New("program year not found")
	ErrProjectNotFound = errors.New("project not found")
)

type (
	Repository interface {
		CreateProgramYear(py ProgramYear) (ProgramYear, error)
		GetProgramYearByID(id, orgID int) (ProgramYear, error)
		QueryProgramYears(orgID int) ([]ProgramYear, error)
		DeleteProgramYear(id, orgID int) error

		CreateProject(p Project) (Project, error)
		GetProjectByID(id, orgID int) (Project, error)
		QueryProjectsByYear(programYearID, orgID int) ([]Project, error)
		CountProjectsByYear(programYearID, orgID int) (int, error)
		UpdateProject(p Project) (Project, error)
		DeleteProject(id, orgID int) error
	}

	Service interface {
		CreateYear(orgID int, np NewProgramYear) (ProgramYear, error)
		GetYear(id, orgID int) (ProgramYear, error)
		QueryYears(orgID int) ([]ProgramYear, error)
		DeleteYear(id, orgID int) error

		CreateProject(orgID int, np NewProject) (Project, error)
		GetProject(id, orgID int) (Project, error)
		QueryProjectsByYear(programYearID, orgID int) ([]Project, error)
		UpdateProject(id, orgID int, up UpdateProject) (Project, error)
		DeleteProject(id, orgID int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CreateYear(orgID int, np NewProgramYear) (ProgramYear, error) {
	now := time.Now().UTC()
	py := ProgramYear{
		OrgID:     orgID,
		Name:      np.Name,
		StartDate: np.StartDate,
		EndDate:   np.EndDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateProgramYear(py)
}

func (svc *service) GetYear(id, orgID int) (ProgramYear, error) {
	return svc.repo.GetProgramYearByID(id, orgID)
}

func (svc *service) QueryYears(orgID int) ([]ProgramYear, error) {
	return svc.repo.QueryProgramYears(orgID)
}

func (svc *service) DeleteYear(id, orgID int) error {
	return svc.repo.DeleteProgramYear(id, orgID)
}

func (svc *service) CreateProject(orgID int, np NewProject) (Project, error) {
	// the project's year must belong to the same org
	if _, err := svc.repo.GetProgramYearByID(np.ProgramYearID, orgID); err != nil {
		return Project{}, err
	}

	now := time.Now().UTC()
	p := Project{
		OrgID:         orgID,
		ProgramYearID: np.ProgramYearID,
		Name:          np.Name,
		Description:   np.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return svc.repo.CreateProject(p)
}

func (svc *service) GetProject(id, orgID int) (Project, error) {
	return svc.repo.GetProjectByID(id, orgID)
}

func (svc *service) QueryProjectsByYear(programYearID, orgID int) ([]Project, error) {
	return svc.repo.QueryProjectsByYear(programYearID, orgID)
}

func (svc *service) UpdateProject(id, orgID int, up UpdateProject) (Project, error) {
	p := Project{
		ID:          id,
		OrgID:       orgID,
		Name:        up.Name,
		Description: up.Description,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateProject(p)
}

func (svc *service) DeleteProject(id, orgID int) error {
	return svc.repo.DeleteProject(id, orgID)
}
