package models

import "time"

const (
	LegalTypeTerms   = "terms"
	LegalTypePrivacy = "privacy"
)

type LegalPage struct {
	ID        int       `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsLegalType(t string) bool {
	return t == LegalTypeTerms || t == LegalTypePrivacy
}
