package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/credstore/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock, db
}

const insertQuery = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*$`

func userRows(u *User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).
		AddRow(u.ID, u.UserName, u.PasswordHash, u.CreatedAt)
}

func TestPostgresAdd_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	u := newTestUser("id-42", "alice")

	mock.ExpectExec(insertQuery).
		WithArgs(u.ID, u.UserName, u.PasswordHash, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Add(context.Background(), u))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAdd_DuplicateUsername(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	u := newTestUser("id-42", "alice")

	mock.ExpectExec(insertQuery).
		WithArgs(u.ID, u.UserName, u.PasswordHash, u.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Add(context.Background(), u)
	assert.ErrorIs(t, err, common.ErrorUsernameExists)
}

func TestPostgresAdd_DuplicateIdentifier(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	u := newTestUser("id-42", "alice")

	mock.ExpectExec(insertQuery).
		WithArgs(u.ID, u.UserName, u.PasswordHash, u.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_pkey"})

	err := repo.Add(context.Background(), u)
	assert.ErrorIs(t, err, common.ErrorIdentifierExists)
}

func TestPostgresAdd_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	u := newTestUser("id-42", "alice")

	mock.ExpectExec(insertQuery).
		WithArgs(u.ID, u.UserName, u.PasswordHash, u.CreatedAt).
		WillReturnError(errors.New("db down"))

	err := repo.Add(context.Background(), u)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	assert.NotErrorIs(t, err, common.ErrorUsernameExists)
}

func TestPostgresGetByUserName(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	u := newTestUser("id-42", "alice")

	mock.ExpectQuery(`SELECT\s+id,\s*username,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1`).
		WithArgs("alice").
		WillReturnRows(userRows(u))

	got, err := repo.GetByUserName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.UserName, got.UserName)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
}

func TestPostgresGetByUserName_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+username\s*=\s*\$1`).
		WithArgs("nobody").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUserName(context.Background(), "nobody")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresGetByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs("no-such-id").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPostgresDeleteByID_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	u := newTestUser("id-42", "alice")

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE`).
		WithArgs("id-42").
		WillReturnRows(userRows(u))
	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := repo.DeleteByID(context.Background(), "id-42")
	require.NoError(t, err)
	assert.Equal(t, "alice", deleted.UserName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteByID_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).
		WithArgs("no-such-id").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.DeleteByID(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteByID_DesyncFault(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	u := newTestUser("id-42", "alice")

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR\s+UPDATE`).
		WithArgs("id-42").
		WillReturnRows(userRows(u))
	mock.ExpectExec(`DELETE\s+FROM\s+users`).
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeleteByID(context.Background(), "id-42")
	assert.ErrorIs(t, err, common.ErrorInternal)
	require.NoError(t, mock.ExpectationsWereMet())
}
