package sqlxrepos

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/member"
)

type memberRow struct {
	ID        int       `db:"id"`
	OrgID     int       `db:"org_id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     string    `db:"email"`
	VoicePart string    `db:"voice_part"`
	Role      string    `db:"role"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r memberRow) model() member.Member {
	return member.Member{
		ID:        r.ID,
		OrgID:     r.OrgID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		VoicePart: r.VoicePart,
		Role:      r.Role,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

const memberColumns = `id, org_id, first_name, last_name, email, voice_part, role, is_active, created_at, updated_at`

type memberRepository struct {
	db *sqlx.DB
}

var _ member.Repository = (*memberRepository)(nil)

func NewMemberRepository(db *sqlx.DB) member.Repository {
	return &memberRepository{db: db}
}

func (repo *memberRepository) CreateMember(m member.Member) (member.Member, error) {
	const query = `
		INSERT INTO member (org_id, first_name, last_name, email, voice_part, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := repo.db.Get(
		&m.ID, query,
		m.OrgID, m.FirstName, m.LastName, m.Email, m.VoicePart, m.Role, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "member_org_id_email_key") {
			return member.Member{}, member.ErrEmailExists
		}
		return member.Member{}, errors.Wrap(err, "inserting member")
	}
	return m, nil
}

// GetOrCreateMemberByEmail upserts in a single statement: the no-op
// DO UPDATE makes ON CONFLICT return the existing row atomically.
func (repo *memberRepository) GetOrCreateMemberByEmail(m member.Member) (member.Member, error) {
	const query = `
		INSERT INTO member (org_id, first_name, last_name, email, voice_part, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (org_id, email) DO UPDATE SET email = member.email
		RETURNING ` + memberColumns
	var row memberRow
	err := repo.db.Get(
		&row, query,
		m.OrgID, m.FirstName, m.LastName, m.Email, m.VoicePart, m.Role, m.IsActive, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return member.Member{}, errors.Wrap(err, "upserting member")
	}
	return row.model(), nil
}

func (repo *memberRepository) GetMemberByID(id, orgID int) (member.Member, error) {
	var row memberRow
	query := `SELECT ` + memberColumns + ` FROM member WHERE id = $1 AND org_id = $2`
	if err := repo.db.Get(&row, query, id, orgID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.Member{}, member.ErrNotFound
		}
		return member.Member{}, errors.Wrap(err, "getting member")
	}
	return row.model(), nil
}

func (repo *memberRepository) GetMemberByEmail(orgID int, email string) (member.Member, error) {
	if email == "" {
		return member.Member{}, member.ErrNotFound
	}
	var row memberRow
	query := `SELECT ` + memberColumns + ` FROM member WHERE org_id = $1 AND email = $2`
	if err := repo.db.Get(&row, query, orgID, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.Member{}, member.ErrNotFound
		}
		return member.Member{}, errors.Wrap(err, "getting member")
	}
	return row.model(), nil
}

func (repo *memberRepository) FilterMembers(orgID int, filter member.QueryFilter) ([]member.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM member WHERE org_id = $1`
	args := []interface{}{orgID}

	if filter.Search != "" {
		query += ` AND (first_name || ' ' || last_name ILIKE $2 OR email ILIKE $2)`
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.VoicePart != "" {
		query += ` AND voice_part = $` + strconv.Itoa(len(args)+1)
		args = append(args, filter.VoicePart)
	}
	if filter.IsActive != nil {
		query += ` AND is_active = $` + strconv.Itoa(len(args)+1)
		args = append(args, *filter.IsActive)
	}
	query += ` ORDER BY id`

	var rows []memberRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering members")
	}
	members := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.model())
	}
	return members, nil
}

// UpdateMember only saves set fields; see userRepository.UpdateUser.
func (repo *memberRepository) UpdateMember(m member.Member, isActive *bool) (member.Member, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return member.Member{}, errors.Wrap(err, "beginning update")
	}
	defer func() { _ = tx.Rollback() }()

	var row memberRow
	err = tx.Get(&row, `SELECT `+memberColumns+` FROM member WHERE id = $1 AND org_id = $2 FOR UPDATE`, m.ID, m.OrgID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.Member{}, member.ErrNotFound
		}
		return member.Member{}, errors.Wrap(err, "getting member for update")
	}

	if m.FirstName != "" {
		row.FirstName = m.FirstName
	}
	if m.LastName != "" {
		row.LastName = m.LastName
	}
	if m.Email != "" {
		row.Email = m.Email
	}
	if m.VoicePart != "" {
		row.VoicePart = m.VoicePart
	}
	if m.Role != "" {
		row.Role = m.Role
	}
	if isActive != nil {
		row.IsActive = *isActive
	}
	row.UpdatedAt = m.UpdatedAt

	const query = `
		UPDATE member
		SET first_name = $2, last_name = $3, email = $4, voice_part = $5, role = $6, is_active = $7, updated_at = $8
		WHERE id = $1`
	_, err = tx.Exec(query, row.ID, row.FirstName, row.LastName, row.Email, row.VoicePart, row.Role, row.IsActive, row.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "member_org_id_email_key") {
			return member.Member{}, member.ErrEmailExists
		}
		return member.Member{}, errors.Wrap(err, "updating member")
	}
	if err = tx.Commit(); err != nil {
		return member.Member{}, errors.Wrap(err, "committing update")
	}
	return row.model(), nil
}

func (repo *memberRepository) DeleteMembersByID(orgID int, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM member WHERE org_id = ? AND id IN (?)`, orgID, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting members")
	}
	return nil
}
