package models

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	// PostCount is aggregated on read, not stored.
	PostCount int `json:"post_count"`
}
