package models

import "time"

// Article is a user-authored article. FavNum is a denormalized counter equal
// to the number of Favorite rows referencing the article; it is mutated only
// by the cms counter engine, never directly.
type Article struct {
	ID        uint      `gorm:"primaryKey;column:article_id" json:"article_id"`
	Title     string    `gorm:"size:50;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FavNum    uint      `gorm:"not null;default:0" json:"fav_num"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
