package models

import "time"

// Author binds an article to the user who wrote it. One row per article,
// created with the article and never repointed afterwards.
type Author struct {
	ArticleID uint `gorm:"primaryKey" json:"article_id"`
	UserID    uint `gorm:"not null;index" json:"user_id"`
}

// ArticleCategory assigns an article to exactly one category. The article id
// is the primary key, so an article can never carry two categories.
type ArticleCategory struct {
	ArticleID    uint   `gorm:"primaryKey" json:"article_id"`
	CategoryName string `gorm:"size:15;not null;index" json:"category_name"`
}

// ArticleTag tags an article with one tag. The composite unique index is the
// schema-level guarantee against duplicate tagging.
type ArticleTag struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ArticleID uint   `gorm:"not null;uniqueIndex:idx_article_tag" json:"article_id"`
	TagName   string `gorm:"size:15;not null;uniqueIndex:idx_article_tag;index" json:"tag_name"`
}

// Favorite marks that a user favorited an article, at most once per pair.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_fav_article_user" json:"article_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_fav_article_user;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ReadingHistory records that a user viewed an article. One row per pair,
// upserted on every view so UpdatedAt tracks the latest read.
type ReadingHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"not null;uniqueIndex:idx_read_article_user" json:"article_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_read_article_user;index" json:"user_id"`
	UpdatedAt time.Time `json:"updated_at"`
}
