package cms

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/suisen-cp/algopedia/models"
)

// ToggleFavorite creates the (article, user) favorite if absent or deletes
// it if present, returning true when the article is now favorited. The
// check-then-act runs under a row lock on the article so concurrent toggles
// on the same pair serialize instead of both inserting or both deleting;
// the unique constraint on favorites is the backstop either way.
func (s *Service) ToggleFavorite(ctx context.Context, articleID, userID uint) (bool, error) {
	var favorited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article models.Article
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&article, articleID).Error; err != nil {
			return translate(err)
		}

		var count int64
		if err := tx.Model(&models.Favorite{}).
			Where("article_id = ? AND user_id = ?", articleID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			favorited = true
			return createFavorite(tx, articleID, userID)
		}
		favorited = false
		return deleteFavorite(tx, articleID, userID)
	})
	if err != nil {
		return false, err
	}
	return favorited, nil
}

// RecordView upserts the user's reading history for the article: the first
// view inserts a row, later views only touch its timestamp.
func (s *Service) RecordView(ctx context.Context, articleID, userID uint) error {
	exists, err := s.ArticleExists(ctx, articleID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	now := time.Now()
	return translate(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "article_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"updated_at": now}),
	}).Create(&models.ReadingHistory{
		ArticleID: articleID,
		UserID:    userID,
		UpdatedAt: now,
	}).Error)
}
