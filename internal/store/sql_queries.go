package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-duct-tape/models"
)

const usersTable = "users"

var userColumns = []string{"user_id", "login", "password_hash", "created_at"}

// buildCreateUserQuery builds the INSERT of a new account returning its id.
func (db *DB) buildCreateUserQuery(user models.User) (string, []any, error) {
	return db.builder().
		Insert(usersTable).
		Columns("login", "password_hash", "created_at").
		Values(user.Login, user.PasswordHash, user.CreatedAt).
		Suffix("RETURNING user_id").
		ToSql()
}

// buildFindUserByLoginQuery builds the SELECT of the account called login.
func (db *DB) buildFindUserByLoginQuery(login string) (string, []any, error) {
	return db.builder().
		Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"login": login}).
		ToSql()
}
