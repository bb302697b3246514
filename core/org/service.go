package org

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound   = errors.New("organization not found")
	ErrSlugExists = errors.New("an organization with this slug already exists")
)

type (
	Repository interface {
		CreateOrganization(o Organization) (Organization, error)
		GetOrganizationByID(id int) (Organization, error)
		GetOrganizationBySlug(slug string) (Organization, error)
		GetOrganizationByFeedToken(token string) (Organization, error)
		QueryAllOrganizations() ([]Organization, error)
	}

	Service interface {
		Create(no NewOrganization) (Organization, error)
		GetByID(id int) (Organization, error)
		GetBySlug(slug string) (Organization, error)
		GetByFeedToken(token string) (Organization, error)
		QueryAll() ([]Organization, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(no NewOrganization) (Organization, error) {
	now := time.Now().UTC()
	o := Organization{
		Name:      no.Name,
		Slug:      no.Slug,
		FeedToken: uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateOrganization(o)
}

func (svc *service) GetByID(id int) (Organization, error) {
	return svc.repo.GetOrganizationByID(id)
}

func (svc *service) GetBySlug(slug string) (Organization, error) {
	return svc.repo.GetOrganizationBySlug(slug)
}

func (svc *service) GetByFeedToken(token string) (Organization, error) {
	return svc.repo.GetOrganizationByFeedToken(token)
}

func (svc *service) QueryAll() ([]Organization, error) {
	return svc.repo.QueryAllOrganizations()
}
