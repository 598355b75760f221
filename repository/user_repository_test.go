// file: repository/user_repository_test.go

package repository

import (
	"database/sql"
	"go-auth-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	createdAt := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO users (full_name, email, password, role) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
	)).WithArgs("Ada Lovelace", "ada@example.com", "hashed-password", "user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(1, createdAt))

	user := &model.User{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "hashed-password",
		Role:     "user",
	}
	err = repo.CreateUser(user)

	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "full_name", "email", "password", "role", "created_at"}).
			AddRow(1, "Ada Lovelace", "ada@example.com", "hashed-password", "user", time.Now())

		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT id, full_name, email, password, role, created_at FROM users WHERE email=$1`,
		)).WithArgs("ada@example.com").WillReturnRows(rows)

		user, err := repo.GetUserByEmail("ada@example.com")

		assert.NoError(t, err)
		assert.Equal(t, 1, user.ID)
		assert.Equal(t, "hashed-password", user.Password)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(
			`SELECT id, full_name, email, password, role, created_at FROM users WHERE email=$1`,
		)).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByEmail("nobody@example.com")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetAllUsers(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "password", "role", "created_at"}).
		AddRow(1, "Grace Hopper", "grace@example.com", "hash-1", "admin", time.Now()).
		AddRow(7, "Ada Lovelace", "ada@example.com", "hash-2", "user", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, full_name, email, password, role, created_at FROM users ORDER BY id`,
	)).WillReturnRows(rows)

	users, err := repo.GetAllUsers()

	assert.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "grace@example.com", users[0].Email)
	assert.Equal(t, "user", users[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "full_name", "email", "password", "role", "created_at"}).
		AddRow(7, "Ada Lovelace", "ada@example.com", "hashed-password", "user", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, full_name, email, password, role, created_at FROM users WHERE id=$1`,
	)).WithArgs(7).WillReturnRows(rows)

	user, err := repo.GetUserByID(7)

	assert.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}
