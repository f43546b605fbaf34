package cms

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/suisen-cp/algopedia/models"
)

// Service is the entry point to the classification and counter core. All
// multi-step mutations run inside a single gorm transaction; the database is
// the only shared mutable state.
type Service struct {
	db *gorm.DB
}

// NewService creates a Service bound to an initialized database.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetArticle loads an article by id.
func (s *Service) GetArticle(ctx context.Context, id uint) (*models.Article, error) {
	var article models.Article
	if err := s.db.WithContext(ctx).First(&article, id).Error; err != nil {
		return nil, translate(err)
	}
	return &article, nil
}

// ArticleExists reports whether an article with the given id exists.
func (s *Service) ArticleExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("article_id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Categories returns all categories ordered by name, for the edit form picker.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Order("name").Find(&categories).Error
	return categories, err
}

// Tags returns all tags ordered by name.
func (s *Service) Tags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

// ArticleAuthorID returns the user id bound as the article's author. The
// collaborator layer uses it for its ownership checks before edit/delete.
func (s *Service) ArticleAuthorID(ctx context.Context, articleID uint) (uint, error) {
	var author models.Author
	if err := s.db.WithContext(ctx).First(&author, articleID).Error; err != nil {
		return 0, translate(err)
	}
	return author.UserID, nil
}

// ArticleCategoryName returns the name of the article's single category.
func (s *Service) ArticleCategoryName(ctx context.Context, articleID uint) (string, error) {
	var assoc models.ArticleCategory
	if err := s.db.WithContext(ctx).First(&assoc, articleID).Error; err != nil {
		return "", translate(err)
	}
	return assoc.CategoryName, nil
}

// ArticleTagNames returns the article's tag names ordered alphabetically.
func (s *Service) ArticleTagNames(ctx context.Context, articleID uint) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&models.ArticleTag{}).
		Where("article_id = ?", articleID).
		Order("tag_name").
		Pluck("tag_name", &names).Error
	return names, err
}

// IsFavorited reports whether the user currently favorites the article.
func (s *Service) IsFavorited(ctx context.Context, articleID, userID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Favorite{}).
		Where("article_id = ? AND user_id = ?", articleID, userID).
		Count(&count).Error
	return count > 0, err
}

// getOrNoneCategory returns the category by name, or nil when absent.
func getOrNoneCategory(tx *gorm.DB, name string) (*models.Category, error) {
	var category models.Category
	err := tx.Where("name = ?", name).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// getOrNoneTag returns the tag by name, or nil when absent.
func getOrNoneTag(tx *gorm.DB, name string) (*models.Tag, error) {
	var tag models.Tag
	err := tx.Where("name = ?", name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}
