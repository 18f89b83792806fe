package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"inkpress/internal/models"
)

// OtpTTL mirrors the 300-second expiry of the stored codes. Expiry is
// enforced at read time: a stale row is deleted and reported as absent.
const OtpTTL = 5 * time.Minute

type OtpRepository interface {
	Upsert(userID int, code string) error
	GetLive(userID int) (*models.Otp, error)
	Delete(userID int) error
}

type otpRepository struct {
	DB *sql.DB
}

func NewOtpRepository(db *sql.DB) OtpRepository {
	return &otpRepository{DB: db}
}

// Upsert replaces any prior code for the user with a fresh one. At most one
// live OTP per user, keyed by the unique user_id index.
func (r *otpRepository) Upsert(userID int, code string) error {
	const q = `
		INSERT INTO otps (user_id, code, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET code = $2, created_at = NOW()
	`
	if _, err := r.DB.Exec(q, userID, code); err != nil {
		return fmt.Errorf("upsert otp: %w", err)
	}
	return nil
}

func (r *otpRepository) GetLive(userID int) (*models.Otp, error) {
	const q = `
		SELECT id, user_id, code, created_at
		FROM otps
		WHERE user_id = $1
	`
	otp := &models.Otp{}
	err := r.DB.QueryRow(q, userID).Scan(&otp.ID, &otp.UserID, &otp.Code, &otp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get otp: %w", err)
	}
	if time.Since(otp.CreatedAt) > OtpTTL {
		if derr := r.Delete(userID); derr != nil {
			return nil, derr
		}
		return nil, ErrNotFound
	}
	return otp, nil
}

func (r *otpRepository) Delete(userID int) error {
	if _, err := r.DB.Exec(`DELETE FROM otps WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete otp: %w", err)
	}
	return nil
}
