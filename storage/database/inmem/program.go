package inmemdb

import (
	"sort"

	"github.com/chorale-hq/chorale/core/program"
)

type programRepository struct {
	db *DB
}

var _ program.Repository = (*programRepository)(nil)

func NewProgramRepository(db *DB) program.Repository {
	return &programRepository{db: db}
}

func (repo *programRepository) CreateProgramYear(py program.ProgramYear) (program.ProgramYear, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	py.ID = repo.db.nextID()
	repo.db.years[py.ID] = &py
	return py, nil
}

func (repo *programRepository) GetProgramYearByID(id, orgID int) (program.ProgramYear, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if py, ok := repo.db.years[id]; ok && py.OrgID == orgID {
		return *py, nil
	}
	return program.ProgramYear{}, program.ErrYearNotFound
}

func (repo *programRepository) QueryProgramYears(orgID int) ([]program.ProgramYear, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	years := make([]program.ProgramYear, 0)
	for _, py := range repo.db.years {
		if py.OrgID == orgID {
			years = append(years, *py)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i].ID < years[j].ID })
	return years, nil
}

func (repo *programRepository) DeleteProgramYear(id, orgID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	py, ok := repo.db.years[id]
	if !ok || py.OrgID != orgID {
		return program.ErrYearNotFound
	}
	for did, d := range repo.db.auditionDates {
		if d.ProgramYearID == id {
			for sid, s := range repo.db.auditionSlots {
				if s.AuditionDateID == did {
					delete(repo.db.auditionSlots, sid)
				}
			}
			delete(repo.db.auditionDates, did)
		}
	}
	for pid, p := range repo.db.projects {
		if p.ProgramYearID == id {
			repo.deleteProjectLocked(pid)
		}
	}
	delete(repo.db.years, id)
	return nil
}

// deleteProjectLocked removes a project, its events and their attendance;
// callers must hold the write lock.
func (repo *programRepository) deleteProjectLocked(id int) {
	for eid, e := range repo.db.events {
		if e.ProjectID == id {
			for aid, a := range repo.db.attendance {
				if a.EventID == eid {
					delete(repo.db.attendance, aid)
				}
			}
			delete(repo.db.events, eid)
		}
	}
	delete(repo.db.projects, id)
}

func (repo *programRepository) CreateProject(p program.Project) (program.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p.ID = repo.db.nextID()
	repo.db.projects[p.ID] = &p
	return p, nil
}

func (repo *programRepository) GetProjectByID(id, orgID int) (program.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.projects[id]; ok && p.OrgID == orgID {
		return *p, nil
	}
	return program.Project{}, program.ErrProjectNotFound
}

func (repo *programRepository) QueryProjectsByYear(programYearID, orgID int) ([]program.Project, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	projects := make([]program.Project, 0)
	for _, p := range repo.db.projects {
		if p.OrgID == orgID && p.ProgramYearID == programYearID {
			projects = append(projects, *p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (repo *programRepository) CountProjectsByYear(programYearID, orgID int) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	count := 0
	for _, p := range repo.db.projects {
		if p.OrgID == orgID && p.ProgramYearID == programYearID {
			count++
		}
	}
	return count, nil
}

func (repo *programRepository) UpdateProject(p program.Project) (program.Project, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.projects[p.ID]
	if !ok || orig.OrgID != p.OrgID {
		return program.Project{}, program.ErrProjectNotFound
	}
	if p.Name != "" {
		orig.Name = p.Name
	}
	if p.Description != "" {
		orig.Description = p.Description
	}
	orig.UpdatedAt = p.UpdatedAt
	return *orig, nil
}

func (repo *programRepository) DeleteProject(id, orgID int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	p, ok := repo.db.projects[id]
	if !ok || p.OrgID != orgID {
		return program.ErrProjectNotFound
	}
	repo.deleteProjectLocked(id)
	return nil
}
