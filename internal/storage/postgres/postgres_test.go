package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yndnr/reviewgate/internal/core/domain"
	"github.com/yndnr/reviewgate/internal/core/service"
)

func newMock(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return New(sqlDB, time.Second), mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword() error: %v", err)
	}
	return string(h)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(context.Background(), Config{Driver: "mysql"}); err == nil {
		t.Fatal("Open() should reject unknown drivers")
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS accounts").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS profiles").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS permissions").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := db.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestEnsureSchema_Error(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS accounts").WillReturnError(errors.New("permission denied"))

	if err := db.EnsureSchema(context.Background()); err == nil {
		t.Fatal("EnsureSchema() should fail")
	}
	expectationsMet(t, mock)
}

func TestAccountStore_VerifyCredentials(t *testing.T) {
	db, mock := newMock(t)
	store := NewAccountStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(queryAccountByUsername)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "role"}).
			AddRow("1", hashOf(t, "s3cret"), "Reviewer"))

	id, role, err := store.VerifyCredentials(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("VerifyCredentials() error: %v", err)
	}
	if id != "1" || role != domain.RoleReviewer {
		t.Errorf("VerifyCredentials() = (%q, %q), want (1, reviewer)", id, role)
	}
	expectationsMet(t, mock)
}

func TestAccountStore_WrongPassword(t *testing.T) {
	db, mock := newMock(t)
	store := NewAccountStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(queryAccountByUsername)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "role"}).
			AddRow("1", hashOf(t, "s3cret"), "user"))

	_, _, err := store.VerifyCredentials(context.Background(), "alice", "guess")
	if !errors.Is(err, service.ErrCredentialsRejected) {
		t.Fatalf("expected ErrCredentialsRejected, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestAccountStore_UnknownUser(t *testing.T) {
	db, mock := newMock(t)
	store := NewAccountStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(queryAccountByUsername)).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, _, err := store.VerifyCredentials(context.Background(), "ghost", "x")
	if !errors.Is(err, service.ErrCredentialsRejected) {
		t.Fatalf("expected ErrCredentialsRejected, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestAccountStore_QueryFailure(t *testing.T) {
	db, mock := newMock(t)
	store := NewAccountStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(queryAccountByUsername)).
		WithArgs("alice").
		WillReturnError(errors.New("connection reset"))

	_, _, err := store.VerifyCredentials(context.Background(), "alice", "x")
	if err == nil || errors.Is(err, service.ErrCredentialsRejected) {
		t.Fatalf("expected non-rejection failure, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestProfileStore_FetchProfile(t *testing.T) {
	db, mock := newMock(t)
	store := NewProfileStore(db)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(queryProfile)).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name", "email", "role", "created_at"}).
			AddRow("1", "alice", "Alice A.", "alice@example.com", "publisher", created))

	info, err := store.FetchProfile(context.Background(), "1")
	if err != nil {
		t.Fatalf("FetchProfile() error: %v", err)
	}
	want := domain.UserInfo{
		UserID:      "1",
		Username:    "alice",
		DisplayName: "Alice A.",
		Email:       "alice@example.com",
		Role:        domain.RolePublisher,
		CreatedAt:   created,
	}
	if info != want {
		t.Errorf("FetchProfile() = %+v, want %+v", info, want)
	}
	expectationsMet(t, mock)
}

func TestProfileStore_NotFound(t *testing.T) {
	db, mock := newMock(t)
	store := NewProfileStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(queryProfile)).WithArgs("9").WillReturnError(sql.ErrNoRows)

	if _, err := store.FetchProfile(context.Background(), "9"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestSubmissionStore_QuerySubmissionIDs(t *testing.T) {
	db, mock := newMock(t)
	store := NewSubmissionStore(db)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(querySubmissionIDs)).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"sub_id"}).AddRow(a.String()).AddRow(b.String()))

	ids, err := store.QuerySubmissionIDs(context.Background(), "1")
	if err != nil {
		t.Fatalf("QuerySubmissionIDs() error: %v", err)
	}
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Errorf("QuerySubmissionIDs() = %v, want [%s %s]", ids, a, b)
	}
	expectationsMet(t, mock)
}

func TestSubmissionStore_Empty(t *testing.T) {
	db, mock := newMock(t)
	store := NewSubmissionStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(querySubmissionIDs)).
		WithArgs("2").
		WillReturnRows(sqlmock.NewRows([]string{"sub_id"}))

	ids, err := store.QuerySubmissionIDs(context.Background(), "2")
	if err != nil {
		t.Fatalf("QuerySubmissionIDs() error: %v", err)
	}
	if ids == nil || len(ids) != 0 {
		t.Errorf("QuerySubmissionIDs() = %#v, want empty non-nil slice", ids)
	}
	expectationsMet(t, mock)
}

func TestSubmissionStore_ScanError(t *testing.T) {
	db, mock := newMock(t)
	store := NewSubmissionStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(querySubmissionIDs)).
		WithArgs("1").
		WillReturnRows(sqlmock.NewRows([]string{"sub_id"}).AddRow("not-a-uuid"))

	if _, err := store.QuerySubmissionIDs(context.Background(), "1"); err == nil {
		t.Fatal("QuerySubmissionIDs() should fail on malformed ids")
	}
	expectationsMet(t, mock)
}
