package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"inkpress/internal/models"
)

type SubscriberRepository interface {
	GetByEmail(email string) (*models.Subscriber, error)
	Create(email, token string, expires time.Time) error
	RefreshToken(email, token string, expires time.Time) error
	GetByEmailAndToken(email, token string) (*models.Subscriber, error)
	MarkVerified(id int) error
}

type subscriberRepository struct {
	DB *sql.DB
}

func NewSubscriberRepository(db *sql.DB) SubscriberRepository {
	return &subscriberRepository{DB: db}
}

func (r *subscriberRepository) GetByEmail(email string) (*models.Subscriber, error) {
	return r.getOne(`WHERE email = $1`, email)
}

func (r *subscriberRepository) GetByEmailAndToken(email, token string) (*models.Subscriber, error) {
	return r.getOne(`WHERE email = $1 AND verify_token = $2`, email, token)
}

func (r *subscriberRepository) getOne(where string, args ...any) (*models.Subscriber, error) {
	q := `
		SELECT id, email, verified, verify_token, verify_token_expires
		FROM subscribers ` + where
	s := &models.Subscriber{}
	err := r.DB.QueryRow(q, args...).Scan(&s.ID, &s.Email, &s.Verified, &s.VerifyToken, &s.VerifyTokenExpires)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subscriber: %w", err)
	}
	return s, nil
}

func (r *subscriberRepository) Create(email, token string, expires time.Time) error {
	const q = `
		INSERT INTO subscribers (email, verified, verify_token, verify_token_expires)
		VALUES ($1, FALSE, $2, $3)
	`
	if _, err := r.DB.Exec(q, email, token, expires); err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *subscriberRepository) RefreshToken(email, token string, expires time.Time) error {
	const q = `
		UPDATE subscribers
		SET verify_token=$1, verify_token_expires=$2
		WHERE email=$3
	`
	if _, err := r.DB.Exec(q, token, expires, email); err != nil {
		return fmt.Errorf("refresh subscriber token: %w", err)
	}
	return nil
}

// MarkVerified flips the flag and drops the token columns, matching the
// one-shot nature of the verification link.
func (r *subscriberRepository) MarkVerified(id int) error {
	const q = `
		UPDATE subscribers
		SET verified=TRUE, verify_token=NULL, verify_token_expires=NULL
		WHERE id=$1
	`
	if _, err := r.DB.Exec(q, id); err != nil {
		return fmt.Errorf("verify subscriber: %w", err)
	}
	return nil
}
