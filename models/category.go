package models

// Category is keyed by its name. ArticleNum counts the articles currently
// assigned to the category via ArticleCategory rows.
type Category struct {
	Name       string `gorm:"primaryKey;size:15" json:"name"`
	ArticleNum uint   `gorm:"not null;default:0" json:"article_num"`
}
