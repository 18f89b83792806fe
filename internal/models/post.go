package models

import "time"

type Post struct {
	ID         int       `json:"id"`
	AuthorID   int       `json:"author_id"`
	CategoryID *int      `json:"category_id,omitempty"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Content    string    `json:"content"`
	ImageURL   string    `json:"image_url"`
	MetaTitle  string    `json:"meta_title"`
	MetaDesc   string    `json:"meta_description"`
	MetaKeys   string    `json:"meta_keywords"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// resolved on reads
	AuthorName   string `json:"author_name,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
}
