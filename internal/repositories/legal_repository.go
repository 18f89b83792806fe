package repositories

import (
	"database/sql"
	"fmt"

	"inkpress/internal/models"
)

type LegalRepository interface {
	GetByType(pageType string) (*models.LegalPage, error)
	Upsert(pageType, content string) (*models.LegalPage, error)
}

type legalRepository struct {
	DB *sql.DB
}

func NewLegalRepository(db *sql.DB) LegalRepository {
	return &legalRepository{DB: db}
}

func (r *legalRepository) GetByType(pageType string) (*models.LegalPage, error) {
	const q = `
		SELECT id, type, content, updated_at
		FROM legal_pages
		WHERE type = $1
	`
	p := &models.LegalPage{}
	err := r.DB.QueryRow(q, pageType).Scan(&p.ID, &p.Type, &p.Content, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get legal page: %w", err)
	}
	return p, nil
}

func (r *legalRepository) Upsert(pageType, content string) (*models.LegalPage, error) {
	const q = `
		INSERT INTO legal_pages (type, content, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (type) DO UPDATE SET content = $2, updated_at = NOW()
		RETURNING id, type, content, updated_at
	`
	p := &models.LegalPage{}
	err := r.DB.QueryRow(q, pageType, content).Scan(&p.ID, &p.Type, &p.Content, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert legal page: %w", err)
	}
	return p, nil
}
