package sqlxrepos

import (
	"database/sql"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/chorale-hq/chorale/core/user"
)

type userRow struct {
	ID           int          `db:"id"`
	OrgID        int          `db:"org_id"`
	Name         string       `db:"name"`
	Username     string       `db:"username"`
	Email        string       `db:"email"`
	IsActive     bool         `db:"is_active"`
	Roles        string       `db:"roles"` // comma-separated
	PasswordHash []byte       `db:"password_hash"`
	LastLogin    sql.NullTime `db:"last_login"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

func (r userRow) model() user.User {
	usr := user.User{
		ID:           r.ID,
		OrgID:        r.OrgID,
		Name:         r.Name,
		Username:     r.Username,
		Email:        r.Email,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if r.Roles != "" {
		usr.Roles = strings.Split(r.Roles, ",")
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time.UTC()
	}
	return usr
}

func joinRoles(roles []string) string {
	return strings.Join(roles, ",")
}

const userColumns = `id, org_id, name, username, email, is_active, roles, password_hash, last_login, created_at, updated_at`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	query := `SELECT username, email FROM app_user WHERE (username = ? OR email = ?)`
	args := []interface{}{username, email}
	if len(excludedUsers) > 0 {
		ids := make([]int, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		var err error
		query, args, err = sqlx.In(query+` AND id NOT IN (?)`, username, email, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
	}

	var rows []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	if err := repo.db.Select(&rows, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	for _, row := range rows {
		if username != "" && row.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && row.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	const query = `
		INSERT INTO app_user (org_id, name, username, email, is_active, roles, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := repo.db.Get(
		&usr.ID, query,
		usr.OrgID, usr.Name, usr.Username, usr.Email, usr.IsActive,
		joinRoles(usr.Roles), usr.PasswordHash, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "app_user_username_key") {
			return user.User{}, user.ErrUsernameExists
		}
		if isUniqueViolation(err, "app_user_email_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) QueryUsersByOrg(orgID int) ([]user.User, error) {
	var rows []userRow
	query := `SELECT ` + userColumns + ` FROM app_user WHERE org_id = $1 ORDER BY id`
	if err := repo.db.Select(&rows, query, orgID); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.model())
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	return repo.getUser(`SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	if email == "" {
		return user.User{}, user.ErrNotFound
	}
	return repo.getUser(`SELECT `+userColumns+` FROM app_user WHERE email = $1`, email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	if username == "" {
		return user.User{}, user.ErrNotFound
	}
	return repo.getUser(`SELECT `+userColumns+` FROM app_user WHERE username = $1 OR email = $1`, username)
}

func (repo *userRepository) getUser(query string, arg interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.model(), nil
}

// UpdateUser only saves set fields; the merge happens inside a transaction
// so concurrent updates cannot interleave.
func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	tx, err := repo.db.Beginx()
	if err != nil {
		return user.User{}, errors.Wrap(err, "beginning update")
	}
	defer func() { _ = tx.Rollback() }()

	var row userRow
	err = tx.Get(&row, `SELECT `+userColumns+` FROM app_user WHERE id = $1 FOR UPDATE`, usr.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user for update")
	}

	if usr.Name != "" {
		row.Name = usr.Name
	}
	if usr.Username != "" {
		row.Username = usr.Username
	}
	if usr.Email != "" {
		row.Email = usr.Email
	}
	if usr.Roles != nil {
		row.Roles = joinRoles(usr.Roles)
	}
	if usr.PasswordHash != nil {
		row.PasswordHash = usr.PasswordHash
	}
	if isActive != nil {
		row.IsActive = *isActive
	}
	row.UpdatedAt = usr.UpdatedAt

	const query = `
		UPDATE app_user
		SET name = $2, username = $3, email = $4, is_active = $5, roles = $6, password_hash = $7, updated_at = $8
		WHERE id = $1`
	_, err = tx.Exec(query, row.ID, row.Name, row.Username, row.Email, row.IsActive, row.Roles, row.PasswordHash, row.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "app_user_username_key") {
			return user.User{}, user.ErrUsernameExists
		}
		if isUniqueViolation(err, "app_user_email_key") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if err = tx.Commit(); err != nil {
		return user.User{}, errors.Wrap(err, "committing update")
	}
	return row.model(), nil
}

func (repo *userRepository) SetUserLastLogin(id int, t time.Time) (user.User, error) {
	var row userRow
	const query = `UPDATE app_user SET last_login = $2 WHERE id = $1 RETURNING ` + userColumns
	if err := repo.db.Get(&row, query, id, t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "setting last login")
	}
	return row.model(), nil
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM app_user WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
