package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpsertLink(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	r := NewWithDB(db, nil)

	mock.ExpectExec("INSERT INTO token_links").
		WithArgs("PEPE", "QmHash", "pepe_mentions_abc.json").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := r.UpsertLink(context.Background(), "PEPE", "QmHash", "pepe_mentions_abc.json"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLatest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	r := NewWithDB(db, nil)

	updated := time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"token", "cid", "file_name", "updated_at"}).
		AddRow("PEPE", "QmHash", "pepe_mentions_abc.json", updated)
	mock.ExpectQuery("SELECT token, cid, file_name, updated_at FROM token_links").
		WithArgs("PEPE").
		WillReturnRows(rows)

	link, err := r.Latest(context.Background(), "PEPE")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if link.CID != "QmHash" || link.FileName != "pepe_mentions_abc.json" {
		t.Fatalf("unexpected link: %+v", link)
	}
	if !link.UpdatedAt.Equal(updated) {
		t.Fatalf("unexpected updated_at: %v", link.UpdatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLatestNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	r := NewWithDB(db, nil)

	mock.ExpectQuery("SELECT token, cid, file_name, updated_at FROM token_links").
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"token", "cid", "file_name", "updated_at"}))

	if _, err := r.Latest(context.Background(), "NOPE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expect ErrNotFound, got %v", err)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()
	r := NewWithDB(db, nil)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS token_links").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := r.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
