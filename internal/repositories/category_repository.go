package repositories

import (
	"database/sql"
	"fmt"

	"inkpress/internal/models"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetByID(id int) (*models.Category, error)
	GetByName(name string) (*models.Category, error)
	Rename(id int, name string) error
	Delete(id int) error
	ListWithCounts() ([]*models.Category, error)
}

type categoryRepository struct {
	DB *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{DB: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING id`
	if err := r.DB.QueryRow(q, category.Name).Scan(&category.ID); err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *categoryRepository) GetByID(id int) (*models.Category, error) {
	return r.getOne(`WHERE id = $1`, id)
}

// GetByName matches exactly, case-sensitive. "AI" and "ai" are distinct
// categories.
func (r *categoryRepository) GetByName(name string) (*models.Category, error) {
	return r.getOne(`WHERE name = $1`, name)
}

func (r *categoryRepository) getOne(where string, arg any) (*models.Category, error) {
	q := `SELECT id, name FROM categories ` + where
	c := &models.Category{}
	err := r.DB.QueryRow(q, arg).Scan(&c.ID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *categoryRepository) Rename(id int, name string) error {
	res, err := r.DB.Exec(`UPDATE categories SET name=$1 WHERE id=$2`, name, id)
	if err != nil {
		return translateUnique(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(id int) error {
	if _, err := r.DB.Exec(`DELETE FROM categories WHERE id=$1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// ListWithCounts returns all categories ordered by name with a live count of
// referencing posts. Counts are aggregated, never denormalized.
func (r *categoryRepository) ListWithCounts() ([]*models.Category, error) {
	const q = `
		SELECT c.id, c.name, COUNT(p.id)
		FROM categories c
		LEFT JOIN posts p ON p.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`
	rows, err := r.DB.Query(q)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var res []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.PostCount); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
