package member

import (
	"time"

	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core"
)

var (
	// errors
	ErrNotFound    = errors.New("member not found")
	ErrEmailExists = errors.New("a member with this email already exists")
)

type (
	Repository interface {
		CreateMember(m Member) (Member, error)
		// GetOrCreateMemberByEmail returns the org's member matching m.Email
		// (case-insensitive) or atomically creates m if none exists.
		GetOrCreateMemberByEmail(m Member) (Member, error)
		GetMemberByID(id, orgID int) (Member, error)
		GetMemberByEmail(orgID int, email string) (Member, error)
		// FilterMembers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on name or email.
		FilterMembers(orgID int, filter QueryFilter) ([]Member, error)
		UpdateMember(m Member, isActive *bool) (Member, error)
		DeleteMembersByID(orgID int, ids ...int) error
	}

	Service interface {
		Create(orgID int, nm NewMember) (Member, error)
		GetOrCreateByEmail(orgID int, firstName, lastName, email string) (Member, error)
		GetByID(id, orgID int) (Member, error)
		Filter(orgID int, filter QueryFilter) ([]Member, error)
		Update(id, orgID int, um UpdateMember) (Member, error)
		Delete(orgID int, ids ...int) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(orgID int, nm NewMember) (Member, error) {
	now := time.Now().UTC()
	m := Member{
		OrgID:     orgID,
		FirstName: nm.FirstName,
		LastName:  nm.LastName,
		Email:     nm.Email,
		VoicePart: nm.VoicePart,
		Role:      nm.Role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m, err := svc.repo.CreateMember(m)
	if err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return Member{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return Member{}, err
	}
	return m, nil
}

func (svc *service) GetOrCreateByEmail(orgID int, firstName, lastName, email string) (Member, error) {
	now := time.Now().UTC()
	m := Member{
		OrgID:     orgID,
		FirstName: core.CleanString(firstName),
		LastName:  core.CleanString(lastName),
		Email:     core.CleanString(email, true /* lower */),
		Role:      RoleMember,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.GetOrCreateMemberByEmail(m)
}

func (svc *service) GetByID(id, orgID int) (Member, error) {
	return svc.repo.GetMemberByID(id, orgID)
}

func (svc *service) Filter(orgID int, filter QueryFilter) ([]Member, error) {
	return svc.repo.FilterMembers(orgID, filter)
}

func (svc *service) Update(id, orgID int, um UpdateMember) (Member, error) {
	m := Member{
		ID:        id,
		OrgID:     orgID,
		FirstName: um.FirstName,
		LastName:  um.LastName,
		Email:     um.Email,
		VoicePart: um.VoicePart,
		Role:      um.Role,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateMember(m, um.IsActive)
}

func (svc *service) Delete(orgID int, ids ...int) error {
	return svc.repo.DeleteMembersByID(orgID, ids...)
}
