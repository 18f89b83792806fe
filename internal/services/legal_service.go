package services

import (
	"errors"

	"inkpress/internal/models"
	"inkpress/internal/repositories"
)

var ErrBadLegalType = errors.New("unknown legal page type")

type LegalService struct {
	pages repositories.LegalRepository
}

func NewLegalService(pages repositories.LegalRepository) *LegalService {
	return &LegalService{pages: pages}
}

func (s *LegalService) GetPage(pageType string) (*models.LegalPage, error) {
	if !models.IsLegalType(pageType) {
		return nil, ErrBadLegalType
	}
	return s.pages.GetByType(pageType)
}

func (s *LegalService) UpdatePage(pageType, content string) (*models.LegalPage, error) {
	if !models.IsLegalType(pageType) {
		return nil, ErrBadLegalType
	}
	return s.pages.Upsert(pageType, content)
}
