package cms

import (
	"context"

	"github.com/suisen-cp/algopedia/models"
)

// NameCount is one row of a grouped count, keyed by category or tag name.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// LikedNum returns the sum of fav_num over the user's authored articles.
func (s *Service) LikedNum(ctx context.Context, userID uint) (int64, error) {
	var sum int64
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Select("COALESCE(SUM(articles.fav_num), 0)").
		Joins("JOIN authors ON authors.article_id = articles.article_id").
		Where("authors.user_id = ?", userID).
		Scan(&sum).Error
	return sum, err
}

// CategoryCounts groups the user's authored articles by category name.
func (s *Service) CategoryCounts(ctx context.Context, userID uint) ([]NameCount, error) {
	var counts []NameCount
	err := s.db.WithContext(ctx).Model(&models.Author{}).
		Select("article_categories.category_name AS name, COUNT(*) AS count").
		Joins("JOIN article_categories ON article_categories.article_id = authors.article_id").
		Where("authors.user_id = ?", userID).
		Group("article_categories.category_name").
		Order("article_categories.category_name").
		Scan(&counts).Error
	return counts, err
}

// TagCounts groups the user's authored articles by tag name.
func (s *Service) TagCounts(ctx context.Context, userID uint) ([]NameCount, error) {
	var counts []NameCount
	err := s.db.WithContext(ctx).Model(&models.Author{}).
		Select("article_tags.tag_name AS name, COUNT(*) AS count").
		Joins("JOIN article_tags ON article_tags.article_id = authors.article_id").
		Where("authors.user_id = ?", userID).
		Group("article_tags.tag_name").
		Order("article_tags.tag_name").
		Scan(&counts).Error
	return counts, err
}

// FavoriteArticles lists the articles the user currently favorites.
func (s *Service) FavoriteArticles(ctx context.Context, userID uint) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Joins("JOIN favorites ON favorites.article_id = articles.article_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&articles).Error
	return articles, err
}

// ReadArticles lists the articles the user has viewed, most recent first.
func (s *Service) ReadArticles(ctx context.Context, userID uint) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Joins("JOIN reading_histories ON reading_histories.article_id = articles.article_id").
		Where("reading_histories.user_id = ?", userID).
		Order("reading_histories.updated_at DESC").
		Find(&articles).Error
	return articles, err
}
