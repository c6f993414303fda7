package contact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/db"
)

// ErrNotFound is returned when an archived message does not exist.
var ErrNotFound = errors.New("contact: message not found")

// Delivery states of an archived message.
const (
	DeliveryPending = "pending"
	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
)

// ArchivedMessage is a submission as kept in the database.
type ArchivedMessage struct {
	Submission    `yaml:",inline"`
	Status        string `json:"status" yaml:"status"`
	FailureReason string `json:"failure_reason,omitempty" yaml:"failure_reason,omitempty"`
}

// Archive keeps every submission and its delivery state in SQLite.
type Archive struct {
	db *db.DB
}

// NewArchive creates an Archive backed by database.
func NewArchive(database *db.DB) *Archive {
	return &Archive{db: database}
}

// Save inserts s as pending. s.ID is generated when empty.
func (a *Archive) Save(ctx context.Context, s *Submission) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, status, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Email, s.Subject, s.Message, DeliveryPending, s.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting contact message: %w", err)
	}
	return nil
}

// MarkStatus records the delivery result of a message.
func (a *Archive) MarkStatus(ctx context.Context, id, status, reason string) error {
	res, err := a.db.ExecContext(ctx,
		`UPDATE contact_messages SET status = ?, failure_reason = ? WHERE id = ?`,
		status, reason, id,
	)
	if err != nil {
		return fmt.Errorf("updating contact message %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns one message.
func (a *Archive) Get(ctx context.Context, id string) (*ArchivedMessage, error) {
	row := a.db.QueryRowContext(ctx, `
		SELECT id, name, email, subject, message, status, failure_reason, submitted_at
		FROM contact_messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

// List returns the most recent messages first. limit <= 0 means all.
func (a *Archive) List(ctx context.Context, limit int) ([]ArchivedMessage, error) {
	query := `
		SELECT id, name, email, subject, message, status, failure_reason, submitted_at
		FROM contact_messages ORDER BY submitted_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing contact messages: %w", err)
	}
	defer rows.Close()

	var out []ArchivedMessage
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Delete removes a message.
func (a *Archive) Delete(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting contact message %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns the number of messages per delivery status.
func (a *Archive) Counts(ctx context.Context) (map[string]int64, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM contact_messages GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting contact messages: %w", err)
	}
	defer rows.Close()

	out := map[string]int64{DeliveryPending: 0, DeliverySent: 0, DeliveryFailed: 0}
	for rows.Next() {
		var (
			status string
			n      int64
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMessage(s scanner) (*ArchivedMessage, error) {
	var m ArchivedMessage
	err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.FailureReason, &m.SubmittedAt)
	if err != nil {
		return nil, err
	}
	m.Privacy = true
	return &m, nil
}

// ArchiveSubmitter records each submission before handing it to Next and
// stores the delivery result afterwards.
type ArchiveSubmitter struct {
	Archive *Archive
	Next    Submitter
}

// Submit archives s, delegates, and records the outcome. An archive
// failure fails the submission so the user keeps their input.
func (a *ArchiveSubmitter) Submit(ctx context.Context, s Submission) error {
	if err := a.Archive.Save(ctx, &s); err != nil {
		return err
	}

	sendErr := a.Next.Submit(ctx, s)

	status, reason := DeliverySent, ""
	if sendErr != nil {
		status, reason = DeliveryFailed, sendErr.Error()
	}
	// Recorded even when ctx has ended.
	if err := a.Archive.MarkStatus(context.WithoutCancel(ctx), s.ID, status, reason); err != nil && sendErr == nil {
		return fmt.Errorf("recording delivery: %w", err)
	}
	return sendErr
}
