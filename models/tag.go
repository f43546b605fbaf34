package models

// Tag is keyed by its name. ArticleNum counts the articles currently tagged
// with it via ArticleTag rows.
type Tag struct {
	Name       string `gorm:"primaryKey;size:15" json:"name"`
	ArticleNum uint   `gorm:"not null;default:0" json:"article_num"`
}
