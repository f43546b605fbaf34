package cms

import (
	"gorm.io/gorm"

	"github.com/suisen-cp/algopedia/models"
)

// Counter maintenance engine. Every association row create/delete below is
// paired with the matching counter move in the same statement sequence; the
// caller supplies the transaction so a failure of either step rolls back
// both. Counters are never written outside these functions.

// createFavorite increments the article's fav_num and inserts the favorite
// row. A duplicate pair surfaces as ErrConflict.
func createFavorite(tx *gorm.DB, articleID, userID uint) error {
	res := tx.Model(&models.Article{}).Where("article_id = ?", articleID).
		Update("fav_num", gorm.Expr("fav_num + ?", 1))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := tx.Create(&models.Favorite{ArticleID: articleID, UserID: userID}).Error; err != nil {
		return translate(err)
	}
	return nil
}

// deleteFavorite decrements fav_num and removes the favorite row. The unique
// (article, user) constraint guarantees the decrement always follows a real
// prior increment.
func deleteFavorite(tx *gorm.DB, articleID, userID uint) error {
	if err := tx.Model(&models.Article{}).Where("article_id = ?", articleID).
		Update("fav_num", gorm.Expr("fav_num - ?", 1)).Error; err != nil {
		return translate(err)
	}
	res := tx.Where("article_id = ? AND user_id = ?", articleID, userID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// assignCategory increments the category's article_num and inserts the
// article's category association.
func assignCategory(tx *gorm.DB, articleID uint, categoryName string) error {
	res := tx.Model(&models.Category{}).Where("name = ?", categoryName).
		Update("article_num", gorm.Expr("article_num + ?", 1))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := tx.Create(&models.ArticleCategory{ArticleID: articleID, CategoryName: categoryName}).Error; err != nil {
		return translate(err)
	}
	return nil
}

// unassignCategory decrements the category's article_num and removes the
// association row. Used only when deleting an article.
func unassignCategory(tx *gorm.DB, articleID uint, categoryName string) error {
	if err := tx.Model(&models.Category{}).Where("name = ?", categoryName).
		Update("article_num", gorm.Expr("article_num - ?", 1)).Error; err != nil {
		return translate(err)
	}
	res := tx.Delete(&models.ArticleCategory{}, "article_id = ?", articleID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// repointCategory moves the article's single category association from
// oldName to newName, decrementing the former counter and incrementing the
// latter. Categories untouched by the move see no counter churn.
func repointCategory(tx *gorm.DB, articleID uint, oldName, newName string) error {
	if err := tx.Model(&models.Category{}).Where("name = ?", oldName).
		Update("article_num", gorm.Expr("article_num - ?", 1)).Error; err != nil {
		return translate(err)
	}
	res := tx.Model(&models.Category{}).Where("name = ?", newName).
		Update("article_num", gorm.Expr("article_num + ?", 1))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := tx.Model(&models.ArticleCategory{}).Where("article_id = ?", articleID).
		Update("category_name", newName).Error; err != nil {
		return translate(err)
	}
	return nil
}

// addTag increments the tag's article_num and inserts the tagging row. A
// duplicate (article, tag) pair surfaces as ErrConflict.
func addTag(tx *gorm.DB, articleID uint, tagName string) error {
	res := tx.Model(&models.Tag{}).Where("name = ?", tagName).
		Update("article_num", gorm.Expr("article_num + ?", 1))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	if err := tx.Create(&models.ArticleTag{ArticleID: articleID, TagName: tagName}).Error; err != nil {
		return translate(err)
	}
	return nil
}

// removeTag decrements the tag's article_num and removes the tagging row.
func removeTag(tx *gorm.DB, articleID uint, tagName string) error {
	if err := tx.Model(&models.Tag{}).Where("name = ?", tagName).
		Update("article_num", gorm.Expr("article_num - ?", 1)).Error; err != nil {
		return translate(err)
	}
	res := tx.Where("article_id = ? AND tag_name = ?", articleID, tagName).
		Delete(&models.ArticleTag{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
