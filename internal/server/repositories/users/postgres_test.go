package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/projectgate/internal/common"
	"github.com/dmitrijs2005/projectgate/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*password_hash,\s*role\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	selectQuery = `(?s)^SELECT\s+id,\s*username,\s*password_hash,\s*role,\s*created_at\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
	updateHash  = `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`
	updateRole  = `(?s)^UPDATE\s+users\s+SET\s+role\s*=\s*\$2\s+WHERE\s+username\s*=\s*\$1\s+RETURNING\s+id,\s*username,\s*password_hash,\s*role,\s*created_at\s*$`
	deleteQuery = `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s*$`
)

var accountColumns = []string{"id", "username", "password_hash", "role", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow("u-42", created)
	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "$2a$04$hash", "user").
		WillReturnRows(rows)

	a := &models.Account{UserName: "alice", PasswordHash: "$2a$04$hash", Role: models.RoleUser}
	got, err := repo.Create(context.Background(), a)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-42" || got.UserName != "alice" || !got.CreatedAt.Equal(created) {
		t.Fatalf("unexpected account: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "h", "user").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	_, err := repo.Create(context.Background(), &models.Account{UserName: "alice", PasswordHash: "h", Role: models.RoleUser})
	if !errors.Is(err, common.ErrDuplicateUsername) {
		t.Fatalf("want common.ErrDuplicateUsername, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "h", "user").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.Account{UserName: "alice", PasswordHash: "h", Role: models.RoleUser})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetUserByLogin_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(accountColumns).
		AddRow("u-1", "alice", "$2a$04$hash", "admin", time.Now())
	mock.ExpectQuery(selectQuery).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetUserByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetUserByLogin error: %v", err)
	}
	if got.ID != "u-1" || got.UserName != "alice" || got.Role != models.RoleAdmin || got.PasswordHash != "$2a$04$hash" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetUserByLogin_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectQuery).
		WithArgs("alice").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByLogin(context.Background(), "alice")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("outage must not look like a missing account")
	}
}

func TestUpdatePasswordHash(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(updateHash).WithArgs("u-1", "new").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.UpdatePasswordHash(context.Background(), "u-1", "new"); err != nil {
		t.Fatalf("UpdatePasswordHash error: %v", err)
	}

	mock.ExpectExec(updateHash).WithArgs("u-2", "new").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.UpdatePasswordHash(context.Background(), "u-2", "new"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}

	mock.ExpectExec(updateHash).WithArgs("u-3", "new").WillReturnError(errors.New("boom"))
	if err := repo.UpdatePasswordHash(context.Background(), "u-3", "new"); err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdateRole_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(accountColumns).
		AddRow("u-1", "alice", "h", "admin", time.Now())
	mock.ExpectQuery(updateRole).
		WithArgs("alice", "admin").
		WillReturnRows(rows)

	got, err := repo.UpdateRole(context.Background(), "alice", models.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateRole error: %v", err)
	}
	if got.Role != models.RoleAdmin || got.ID != "u-1" {
		t.Fatalf("unexpected account: %+v", got)
	}
}

func TestUpdateRole_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateRole).
		WithArgs("ghost", "admin").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateRole(context.Background(), "ghost", models.RoleAdmin)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQuery).WithArgs("alice").WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.Delete(context.Background(), "alice"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}

	mock.ExpectExec(deleteQuery).WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}

	mock.ExpectExec(deleteQuery).WithArgs("alice").WillReturnError(errors.New("boom"))
	if err := repo.Delete(context.Background(), "alice"); err == nil || !regexp.MustCompile(`db error: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
