package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/mailpane/internal/model"
)

const emailColumns = `
	id, sender_name, sender_email, sender_avatar,
	recipient_name, recipient_email,
	subject, preview, body, date,
	is_read, is_archived, attachments`

// emailRow mirrors the emails table.
type emailRow struct {
	ID             string `db:"id"`
	SenderName     string `db:"sender_name"`
	SenderEmail    string `db:"sender_email"`
	SenderAvatar   string `db:"sender_avatar"`
	RecipientName  string `db:"recipient_name"`
	RecipientEmail string `db:"recipient_email"`
	Subject        string `db:"subject"`
	Preview        string `db:"preview"`
	Body           string `db:"body"`
	Date           string `db:"date"`
	IsRead         bool   `db:"is_read"`
	IsArchived     bool   `db:"is_archived"`
	Attachments    string `db:"attachments"`
}

func (r emailRow) toEmail() (model.Email, error) {
	e := model.Email{
		ID:          r.ID,
		Sender:      model.Person{Name: r.SenderName, Email: r.SenderEmail, Avatar: r.SenderAvatar},
		Recipient:   model.Person{Name: r.RecipientName, Email: r.RecipientEmail},
		Subject:     r.Subject,
		Preview:     r.Preview,
		Body:        r.Body,
		Date:        r.Date,
		IsRead:      r.IsRead,
		IsArchived:  r.IsArchived,
		Attachments: []model.Attachment{},
	}
	if r.Attachments != "" {
		if err := json.Unmarshal([]byte(r.Attachments), &e.Attachments); err != nil {
			return model.Email{}, fmt.Errorf("decoding attachments for email %s: %w", r.ID, err)
		}
	}
	if e.Attachments == nil {
		e.Attachments = []model.Attachment{}
	}
	return e, nil
}

// filterClause returns the WHERE clause for a list filter. Archived mail is
// kept out of the unread view.
func filterClause(filter model.Filter) string {
	switch filter {
	case model.FilterUnread:
		return "WHERE is_read = 0 AND is_archived = 0"
	case model.FilterArchived:
		return "WHERE is_archived = 1"
	default:
		return ""
	}
}

// ListEmails returns the emails for filter, newest first.
func (s *SQLiteStore) ListEmails(
	ctx context.Context,
	filter model.Filter,
) ([]model.Email, error) {
	query := "SELECT " + emailColumns + " FROM emails " +
		filterClause(filter) + " ORDER BY date DESC, rowid DESC"

	var rows []emailRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("querying %s emails: %w", filter, err)
	}

	emails := make([]model.Email, 0, len(rows))
	for _, r := range rows {
		e, err := r.toEmail()
		if err != nil {
			return nil, err
		}
		emails = append(emails, e)
	}
	return emails, nil
}

// GetEmail retrieves a single email by ID.
func (s *SQLiteStore) GetEmail(ctx context.Context, id string) (*model.Email, error) {
	var r emailRow
	err := s.db.GetContext(ctx, &r, "SELECT "+emailColumns+" FROM emails WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("getting email %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting email %s: %w", id, err)
	}

	e, err := r.toEmail()
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateEmail inserts a new email.
func (s *SQLiteStore) CreateEmail(ctx context.Context, email model.Email) error {
	if strings.TrimSpace(email.ID) == "" {
		return fmt.Errorf("email id must not be empty")
	}
	if email.Attachments == nil {
		email.Attachments = []model.Attachment{}
	}
	attachments, err := json.Marshal(email.Attachments)
	if err != nil {
		return fmt.Errorf("marshaling attachments for email %s: %w", email.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO emails (`+emailColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		email.ID, email.Sender.Name, email.Sender.Email, email.Sender.Avatar,
		email.Recipient.Name, email.Recipient.Email,
		email.Subject, email.Preview, email.Body, email.Date,
		boolToInt(email.IsRead), boolToInt(email.IsArchived), string(attachments),
	)
	if err != nil {
		return fmt.Errorf("creating email %s: %w", email.ID, err)
	}
	return nil
}

// UpdateEmail applies the present fields of patch and returns the result.
func (s *SQLiteStore) UpdateEmail(
	ctx context.Context,
	id string,
	patch model.EmailPatch,
) (*model.Email, error) {
	if patch.Empty() {
		return s.GetEmail(ctx, id)
	}

	var sets []string
	var args []interface{}
	if patch.IsRead != nil {
		sets = append(sets, "is_read = ?")
		args = append(args, boolToInt(*patch.IsRead))
	}
	if patch.IsArchived != nil {
		sets = append(sets, "is_archived = ?")
		args = append(args, boolToInt(*patch.IsArchived))
	}
	if patch.Subject != nil {
		sets = append(sets, "subject = ?")
		args = append(args, *patch.Subject)
	}
	if patch.Body != nil {
		sets = append(sets, "body = ?")
		args = append(args, *patch.Body)
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx,
		"UPDATE emails SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("updating email %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating email %s: checking affected rows: %w", id, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("updating email %s: %w", id, ErrNotFound)
	}

	return s.GetEmail(ctx, id)
}

// DeleteEmail removes an email by ID.
func (s *SQLiteStore) DeleteEmail(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM emails WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting email %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting email %s: checking affected rows: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("deleting email %s: %w", id, ErrNotFound)
	}
	return nil
}
