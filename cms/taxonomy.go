package cms

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/suisen-cp/algopedia/models"
)

// validateName checks a standalone category/tag name submission, returning
// the trimmed name and any collected errors.
func validateName(name, kind string, exists bool) (string, []string) {
	var errs []string
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		errs = append(errs, kind+" name is required")
		return trimmed, errs
	}
	if utf8.RuneCountInString(trimmed) > maxNameLen {
		errs = append(errs, kind+" name must be at most 15 characters")
	}
	if exists {
		errs = append(errs, "this "+kind+" already exists")
	}
	return trimmed, errs
}

// CreateCategory creates a category on its own, outside any article save.
// Validation errors come back as a list; a lost creation race surfaces as
// ErrConflict.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, []string, error) {
	existing, err := getOrNoneCategory(s.db.WithContext(ctx), strings.TrimSpace(name))
	if err != nil {
		return nil, nil, err
	}
	trimmed, errs := validateName(name, "category", existing != nil)
	if len(errs) > 0 {
		return nil, errs, nil
	}
	category := models.Category{Name: trimmed}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, nil, translate(err)
	}
	return &category, nil, nil
}

// CreateTag creates a tag on its own, outside any article save.
func (s *Service) CreateTag(ctx context.Context, name string) (*models.Tag, []string, error) {
	existing, err := getOrNoneTag(s.db.WithContext(ctx), strings.TrimSpace(name))
	if err != nil {
		return nil, nil, err
	}
	trimmed, errs := validateName(name, "tag", existing != nil)
	if len(errs) > 0 {
		return nil, errs, nil
	}
	tag := models.Tag{Name: trimmed}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, nil, translate(err)
	}
	return &tag, nil, nil
}
