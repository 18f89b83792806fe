package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// ContactWindow is how long a submission blocks further ones from the same
// address.
const ContactWindow = 24 * time.Hour

type ContactRepository interface {
	HasOpenSubmission(email string) (bool, error)
	Create(email string) error
}

type contactRepository struct {
	DB *sql.DB
}

func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{DB: db}
}

// HasOpenSubmission purges rows past the window, then reports whether one
// remains for the email.
func (r *contactRepository) HasOpenSubmission(email string) (bool, error) {
	if _, err := r.DB.Exec(
		`DELETE FROM contacts WHERE created_at < NOW() - $1::interval`,
		fmt.Sprintf("%d seconds", int(ContactWindow.Seconds())),
	); err != nil {
		return false, fmt.Errorf("purge contacts: %w", err)
	}

	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM contacts WHERE email = $1)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check contact: %w", err)
	}
	return exists, nil
}

func (r *contactRepository) Create(email string) error {
	if _, err := r.DB.Exec(`INSERT INTO contacts (email) VALUES ($1)`, email); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}
