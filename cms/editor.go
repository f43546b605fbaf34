package cms

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suisen-cp/algopedia/models"
)

const (
	maxTitleLen = 50
	maxNameLen  = 15
)

// SaveArticleInput carries one article submission. A nil ArticleID selects
// the create path; a non-nil one selects the edit path. The collaborator
// layer has already verified that ActingUserID is the article's author when
// editing.
type SaveArticleInput struct {
	ArticleID    *uint
	Title        string
	Content      string
	CategoryName string
	TagNames     []string
	ActingUserID uint
}

// SaveArticle validates and persists one article submission atomically:
// staged category/tag creation, the article row, and every association and
// counter move land in a single transaction or not at all.
//
// Validation failures are aggregated into FieldErrors and returned with a
// nil error; in that case nothing was written.
func (s *Service) SaveArticle(ctx context.Context, in SaveArticleInput) (uint, *FieldErrors, error) {
	fieldErrs := &FieldErrors{}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		fieldErrs.Title = append(fieldErrs.Title, "title is required")
	} else if utf8.RuneCountInString(title) > maxTitleLen {
		fieldErrs.Title = append(fieldErrs.Title, "title must be at most 50 characters")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		fieldErrs.Content = append(fieldErrs.Content, "content is required")
	}

	// Resolve the category; a name that matches nothing is staged as a new
	// category after validating it on its own.
	categoryName := strings.TrimSpace(in.CategoryName)
	createCategory := false
	if categoryName == "" {
		fieldErrs.Category = append(fieldErrs.Category, "category is required")
	} else {
		existing, err := getOrNoneCategory(s.db.WithContext(ctx), categoryName)
		if err != nil {
			return 0, nil, err
		}
		if existing == nil {
			if utf8.RuneCountInString(categoryName) > maxNameLen {
				fieldErrs.Category = append(fieldErrs.Category, "category name must be at most 15 characters")
			} else {
				createCategory = true
			}
		}
	}

	// Resolve the requested tag set, deduplicated, staging unknown names.
	var tagNames []string
	var createTags []string
	seen := map[string]bool{}
	for _, raw := range in.TagNames {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		existing, err := getOrNoneTag(s.db.WithContext(ctx), name)
		if err != nil {
			return 0, nil, err
		}
		if existing == nil {
			if utf8.RuneCountInString(name) > maxNameLen {
				fieldErrs.addTag(name, "tag name must be at most 15 characters")
				continue
			}
			createTags = append(createTags, name)
		}
		tagNames = append(tagNames, name)
	}

	if fieldErrs.HasErrors() {
		return 0, fieldErrs, nil
	}

	// The pre-existence checks above race against concurrent identical
	// creations; the unique constraints inside the transaction are the final
	// backstop and a loss surfaces as ErrConflict.
	var articleID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var userCount int64
		if err := tx.Model(&models.User{}).Where("id = ?", in.ActingUserID).
			Count(&userCount).Error; err != nil {
			return err
		}
		if userCount == 0 {
			return ErrNotFound
		}

		if createCategory {
			if err := tx.Create(&models.Category{Name: categoryName}).Error; err != nil {
				return translate(err)
			}
		}
		for _, name := range createTags {
			if err := tx.Create(&models.Tag{Name: name}).Error; err != nil {
				return translate(err)
			}
		}

		if in.ArticleID == nil {
			id, err := s.createArticle(tx, title, content, categoryName, tagNames, in.ActingUserID)
			if err != nil {
				return err
			}
			articleID = id
			return nil
		}
		articleID = *in.ArticleID
		return s.editArticle(tx, articleID, title, content, categoryName, tagNames)
	})
	if err != nil {
		return 0, nil, err
	}
	return articleID, nil, nil
}

func (s *Service) createArticle(tx *gorm.DB, title, content, categoryName string, tagNames []string, authorID uint) (uint, error) {
	article := models.Article{Title: title, Content: content}
	if err := tx.Create(&article).Error; err != nil {
		return 0, translate(err)
	}
	if err := assignCategory(tx, article.ID, categoryName); err != nil {
		return 0, err
	}
	for _, name := range tagNames {
		if err := addTag(tx, article.ID, name); err != nil {
			return 0, err
		}
	}
	if err := tx.Create(&models.Author{ArticleID: article.ID, UserID: authorID}).Error; err != nil {
		return 0, translate(err)
	}
	return article.ID, nil
}

func (s *Service) editArticle(tx *gorm.DB, id uint, title, content, categoryName string, tagNames []string) error {
	var article models.Article
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&article, id).Error; err != nil {
		return translate(err)
	}

	var assoc models.ArticleCategory
	if err := tx.First(&assoc, id).Error; err != nil {
		return translate(err)
	}
	if assoc.CategoryName != categoryName {
		if err := repointCategory(tx, id, assoc.CategoryName, categoryName); err != nil {
			return err
		}
	}

	// Reconcile the tag set: symmetric difference between existing and
	// requested, so tags present in both see no counter churn.
	var existingNames []string
	if err := tx.Model(&models.ArticleTag{}).Where("article_id = ?", id).
		Pluck("tag_name", &existingNames).Error; err != nil {
		return err
	}
	requested := map[string]bool{}
	for _, name := range tagNames {
		requested[name] = true
	}
	existing := map[string]bool{}
	for _, name := range existingNames {
		existing[name] = true
		if !requested[name] {
			if err := removeTag(tx, id, name); err != nil {
				return err
			}
		}
	}
	for _, name := range tagNames {
		if !existing[name] {
			if err := addTag(tx, id, name); err != nil {
				return err
			}
		}
	}

	// Content update comes last, after all association bookkeeping succeeded.
	return tx.Model(&models.Article{}).Where("article_id = ?", id).
		Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"updated_at": time.Now(),
		}).Error
}

// DeleteArticle removes an article together with its classification rows,
// cascading every counter decrement before the article row disappears.
// Ownership has been checked by the caller.
func (s *Service) DeleteArticle(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&article, id).Error; err != nil {
			return translate(err)
		}

		var tagNames []string
		if err := tx.Model(&models.ArticleTag{}).Where("article_id = ?", id).
			Pluck("tag_name", &tagNames).Error; err != nil {
			return err
		}
		for _, name := range tagNames {
			if err := removeTag(tx, id, name); err != nil {
				return err
			}
		}

		var assoc models.ArticleCategory
		if err := tx.First(&assoc, id).Error; err != nil {
			return translate(err)
		}
		if err := unassignCategory(tx, id, assoc.CategoryName); err != nil {
			return err
		}

		// Favorite and reading-history rows carry no sibling counters and
		// cascade with the article.
		if err := tx.Delete(&models.Favorite{}, "article_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.ReadingHistory{}, "article_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Author{}, "article_id = ?", id).Error; err != nil {
			return err
		}
		return translate(tx.Delete(&models.Article{}, id).Error)
	})
}
