package inmemdb

import (
	"sort"
	"strings"

	"github.com/chorale-hq/chorale/core/member"
)

type memberRepository struct {
	db *DB
}

var _ member.Repository = (*memberRepository)(nil)

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db}
}

func (repo *memberRepository) CreateMember(m member.Member) (member.Member, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.members {
		if existing.OrgID == m.OrgID && existing.Email == m.Email {
			return member.Member{}, member.ErrEmailExists
		}
	}

	m.ID = repo.db.nextID()
	repo.db.members[m.ID] = &m
	return m, nil
}

func (repo *memberRepository) GetOrCreateMemberByEmail(m member.Member) (member.Member, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, existing := range repo.db.members {
		if existing.OrgID == m.OrgID && existing.Email == m.Email {
			return *existing, nil
		}
	}

	m.ID = repo.db.nextID()
	repo.db.members[m.ID] = &m
	return m, nil
}

func (repo *memberRepository) GetMemberByID(id, orgID int) (member.Member, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if m, ok := repo.db.members[id]; ok && m.OrgID == orgID {
		return *m, nil
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) GetMemberByEmail(orgID int, email string) (member.Member, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if email != "" {
		for _, m := range repo.db.members {
			if m.OrgID == orgID && m.Email == email {
				return *m, nil
			}
		}
	}
	return member.Member{}, member.ErrNotFound
}

func (repo *memberRepository) FilterMembers(orgID int, filter member.QueryFilter) ([]member.Member, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	search := strings.ToLower(filter.Search)
	members := make([]member.Member, 0)
	for _, m := range repo.db.members {
		if m.OrgID != orgID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.FullName()), search) &&
			!strings.Contains(m.Email, search) {
			continue
		}
		if filter.VoicePart != "" && m.VoicePart != filter.VoicePart {
			continue
		}
		if filter.IsActive != nil && m.IsActive != *filter.IsActive {
			continue
		}
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
	return members, nil
}

func (repo *memberRepository) UpdateMember(m member.Member, isActive *bool) (member.Member, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.members[m.ID]
	if !ok || orig.OrgID != m.OrgID {
		return member.Member{}, member.ErrNotFound
	}
	if m.FirstName != "" {
		orig.FirstName = m.FirstName
	}
	if m.LastName != "" {
		orig.LastName = m.LastName
	}
	if m.Email != "" {
		orig.Email = m.Email
	}
	if m.VoicePart != "" {
		orig.VoicePart = m.VoicePart
	}
	if m.Role != "" {
		orig.Role = m.Role
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = m.UpdatedAt
	return *orig, nil
}

func (repo *memberRepository) DeleteMembersByID(orgID int, ids ...int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		if m, ok := repo.db.members[id]; ok && m.OrgID == orgID {
			delete(repo.db.members, id)
		}
	}
	return nil
}
