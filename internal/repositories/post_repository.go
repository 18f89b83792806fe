package repositories

import (
	"database/sql"
	"fmt"

	"inkpress/internal/models"
)

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	GetBySlug(slug string) (*models.Post, error)
	SlugTakenByOther(slug string, excludeID int) (bool, error)
	Update(post *models.Post) error
	Delete(id int) error
	ListAll() ([]*models.Post, error)
	ListForSitemap() ([]*models.Post, error)
	CountByCategory(categoryID int) (int, error)
	FindExactTitle(query string) (*models.Post, error)
	SearchTitleOrSlug(query string, limit int) ([]*models.Post, error)
}

type postRepository struct {
	DB *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{DB: db}
}

const postColumns = `
	p.id, p.author_id, p.category_id, p.title, p.slug, p.content, p.image_url,
	p.meta_title, p.meta_description, p.meta_keywords, p.created_at, p.updated_at,
	COALESCE(u.username, ''), COALESCE(c.name, '')
`

const postJoins = `
	FROM posts p
	LEFT JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
`

func (r *postRepository) Create(post *models.Post) error {
	const q = `
		INSERT INTO posts (
			author_id, category_id, title, slug, content, image_url,
			meta_title, meta_description, meta_keywords
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRow(q,
		post.AuthorID,
		post.CategoryID,
		post.Title,
		post.Slug,
		post.Content,
		post.ImageURL,
		post.MetaTitle,
		post.MetaDesc,
		post.MetaKeys,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *postRepository) GetByID(id int) (*models.Post, error) {
	return r.getOne(`WHERE p.id = $1`, id)
}

func (r *postRepository) GetBySlug(slug string) (*models.Post, error) {
	return r.getOne(`WHERE p.slug = $1`, slug)
}

func (r *postRepository) getOne(where string, arg any) (*models.Post, error) {
	q := `SELECT ` + postColumns + postJoins + where
	row := r.DB.QueryRow(q, arg)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// SlugTakenByOther reports whether another post already uses the slug. The
// unique index on posts.slug remains the real guard; this only feeds the
// friendly conflict message.
func (r *postRepository) SlugTakenByOther(slug string, excludeID int) (bool, error) {
	var exists bool
	err := r.DB.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func (r *postRepository) Update(post *models.Post) error {
	const q = `
		UPDATE posts
		SET category_id=$1, title=$2, slug=$3, content=$4, image_url=$5,
		    meta_title=$6, meta_description=$7, meta_keywords=$8, updated_at=NOW()
		WHERE id=$9
		RETURNING updated_at
	`
	err := r.DB.QueryRow(q,
		post.CategoryID,
		post.Title,
		post.Slug,
		post.Content,
		post.ImageURL,
		post.MetaTitle,
		post.MetaDesc,
		post.MetaKeys,
		post.ID,
	).Scan(&post.UpdatedAt)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *postRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) ListAll() ([]*models.Post, error) {
	q := `SELECT ` + postColumns + postJoins + `ORDER BY p.created_at DESC`
	return r.list(q)
}

// ListForSitemap only needs slugs and modification times but reuses the full
// scan for simplicity.
func (r *postRepository) ListForSitemap() ([]*models.Post, error) {
	q := `SELECT ` + postColumns + postJoins + `ORDER BY p.id`
	return r.list(q)
}

func (r *postRepository) CountByCategory(categoryID int) (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM posts WHERE category_id = $1`, categoryID).Scan(&c)
	if err != nil {
		return 0, fmt.Errorf("count posts by category: %w", err)
	}
	return c, nil
}

// FindExactTitle matches the whole title case-insensitively.
func (r *postRepository) FindExactTitle(query string) (*models.Post, error) {
	return r.getOne(`WHERE LOWER(p.title) = LOWER($1)`, query)
}

func (r *postRepository) SearchTitleOrSlug(query string, limit int) ([]*models.Post, error) {
	q := `SELECT ` + postColumns + postJoins + `
		WHERE p.title ILIKE '%' || $1 || '%' OR p.slug ILIKE '%' || $1 || '%'
		ORDER BY p.created_at DESC
		LIMIT $2`
	return r.list(q, query, limit)
}

func (r *postRepository) list(q string, args ...any) ([]*models.Post, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var res []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	var categoryID sql.NullInt64
	err := row.Scan(
		&p.ID, &p.AuthorID, &categoryID, &p.Title, &p.Slug, &p.Content, &p.ImageURL,
		&p.MetaTitle, &p.MetaDesc, &p.MetaKeys, &p.CreatedAt, &p.UpdatedAt,
		&p.AuthorName, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		p.CategoryID = &id
	}
	return p, nil
}
