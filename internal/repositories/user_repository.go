package repositories

import (
	"database/sql"
	"fmt"

	"inkpress/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateUsername(id int, username string) error
	UpdatePassword(id int, passwordHash string) error
	SetTwoFactor(id int, enabled bool) error
	VerifyUser(id int) error
	DeleteUnverified(id int) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (username, email, password_hash, role, is_verified, two_factor_enabled)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsVerified,
		user.TwoFactorEnabled,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	return r.getOne(`WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne(`WHERE email = $1`, email)
}

func (r *userRepository) getOne(where string, arg any) (*models.User, error) {
	q := `
		SELECT id, username, email, password_hash, role, is_verified, two_factor_enabled, created_at
		FROM users ` + where
	u := &models.User{}
	err := r.DB.QueryRow(q, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsVerified, &u.TwoFactorEnabled, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (r *userRepository) UpdateUsername(id int, username string) error {
	return r.exec(`UPDATE users SET username=$1 WHERE id=$2`, username, id)
}

func (r *userRepository) UpdatePassword(id int, passwordHash string) error {
	return r.exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, id)
}

func (r *userRepository) SetTwoFactor(id int, enabled bool) error {
	return r.exec(`UPDATE users SET two_factor_enabled=$1 WHERE id=$2`, enabled, id)
}

func (r *userRepository) VerifyUser(id int) error {
	return r.exec(`UPDATE users SET is_verified=TRUE WHERE id=$1`, id)
}

// DeleteUnverified removes a stale registration. The is_verified guard makes
// it a no-op (ErrNotFound) if the user verified in the meantime.
func (r *userRepository) DeleteUnverified(id int) error {
	return r.exec(`DELETE FROM users WHERE id=$1 AND is_verified=FALSE`, id)
}

func (r *userRepository) exec(q string, args ...any) error {
	res, err := r.DB.Exec(q, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
