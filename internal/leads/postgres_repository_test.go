package leads

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(pgxmock.AnyArg(), (*string)(nil), DefaultFormID, DefaultLeadType, StatusNew, 25,
			pgxmock.AnyArg(), pgxmock.AnyArg(), UnknownValue, "203.0.113.9").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))

	lead := newLeadFixture(25, "hello there world")
	lead.IP = "203.0.113.9"
	id, err := repo.Create(context.Background(), lead)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("expected uuid id, got %q", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}
	id := uuid.NewString()

	mock.ExpectExec("UPDATE leads SET status").
		WithArgs(StatusWon, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateStatus(context.Background(), id, StatusWon); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateStatusNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}

	mock.ExpectExec("UPDATE leads SET status").
		WithArgs(StatusLost, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.UpdateStatus(context.Background(), "missing", StatusLost); err != ErrLeadNotFound {
		t.Fatalf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresUpdateStatusRejectsUnknownValueBeforeWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}

	if err := repo.UpdateStatus(context.Background(), "any", Status("pending")); err != ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	// No query may reach the database for a bad enum value.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	repo := &PostgresRepository{pool: mock}
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "created_at", "page_path", "form_id", "lead_type", "status",
		"lead_score", "fields", "attribution", "user_agent", "ip",
	}).AddRow(
		uuid.NewString(), now, (*string)(nil), DefaultFormID, DefaultLeadType, StatusNew,
		25, []byte(`{"name":"Jane Doe","email":"jane@example.com","message":"hello there world","consentToContact":true}`),
		[]byte(nil), UnknownValue, "203.0.113.9",
	)
	mock.ExpectQuery("SELECT id, created_at").
		WithArgs(50).
		WillReturnRows(rows)

	out, err := repo.List(context.Background(), 50)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one lead, got %d", len(out))
	}
	if out[0].Fields.Name != "Jane Doe" {
		t.Errorf("expected decoded fields, got %+v", out[0].Fields)
	}
	if out[0].Status != StatusNew {
		t.Errorf("expected status new, got %s", out[0].Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
