package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/org"
)

type orgRow struct {
	ID        int       `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	FeedToken string    `db:"feed_token"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r orgRow) model() org.Organization {
	return org.Organization{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		FeedToken: r.FeedToken,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

const orgColumns = `id, name, slug, feed_token, created_at, updated_at`

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil)

func NewOrganizationRepository(db *sqlx.DB) org.Repository {
	return &orgRepository{db: db}
}

func (repo *orgRepository) CreateOrganization(o org.Organization) (org.Organization, error) {
	const query = `
		INSERT INTO organization (name, slug, feed_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := repo.db.Get(&o.ID, query, o.Name, o.Slug, o.FeedToken, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "organization_slug_key") {
			return org.Organization{}, org.ErrSlugExists
		}
		return org.Organization{}, errors.Wrap(err, "inserting organization")
	}
	return o, nil
}

func (repo *orgRepository) GetOrganizationByID(id int) (org.Organization, error) {
	return repo.getOrganization(`SELECT `+orgColumns+` FROM organization WHERE id = $1`, id)
}

func (repo *orgRepository) GetOrganizationBySlug(slug string) (org.Organization, error) {
	return repo.getOrganization(`SELECT `+orgColumns+` FROM organization WHERE slug = $1`, slug)
}

func (repo *orgRepository) GetOrganizationByFeedToken(token string) (org.Organization, error) {
	if token == "" {
		return org.Organization{}, org.ErrNotFound
	}
	return repo.getOrganization(`SELECT `+orgColumns+` FROM organization WHERE feed_token = $1`, token)
}

func (repo *orgRepository) getOrganization(query string, arg interface{}) (org.Organization, error) {
	var row orgRow
	if err := repo.db.Get(&row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return org.Organization{}, org.ErrNotFound
		}
		return org.Organization{}, errors.Wrap(err, "getting organization")
	}
	return row.model(), nil
}

func (repo *orgRepository) QueryAllOrganizations() ([]org.Organization, error) {
	var rows []orgRow
	if err := repo.db.Select(&rows, `SELECT `+orgColumns+` FROM organization ORDER BY id`); err != nil {
		return nil, errors.Wrap(err, "querying organizations")
	}
	orgs := make([]org.Organization, 0, len(rows))
	for _, row := range rows {
		orgs = append(orgs, row.model())
	}
	return orgs, nil
}
