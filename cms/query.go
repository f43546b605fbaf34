package cms

import (
	"context"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/suisen-cp/algopedia/models"
)

// PageSize is the fixed number of articles per result page.
const PageSize = 10

// PageInfo describes one page of a result set.
type PageInfo struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// SearchFilter is the explicit filter specification consumed by the query
// composer. Zero-valued fields are inactive; all active filters combine with
// AND, except the tag list which matches articles carrying any listed tag.
// The viewer checkboxes are silently ignored when ViewerID is zero.
type SearchFilter struct {
	Username string
	Title    string
	Category string
	Tags     []string

	ViewerID          uint
	AuthoredByViewer  bool
	FavoritedByViewer bool
	ReadByViewer      bool
}

// sortColumns whitelists caller-supplied sort keys. A leading "-" on the key
// selects descending order.
var sortColumns = map[string]string{
	"fav_num":    "articles.fav_num",
	"created_at": "articles.created_at",
	"updated_at": "articles.updated_at",
	"title":      "articles.title",
}

// orderClause resolves a sort key to an ORDER BY expression. The
// distinguished "search" key (and anything unknown) means no explicit sort
// and defaults to favorite count descending.
func orderClause(sortKey string) string {
	key := strings.TrimSpace(sortKey)
	if key == "" || key == "search" {
		return "articles.fav_num DESC"
	}
	desc := strings.HasPrefix(key, "-")
	column, ok := sortColumns[strings.TrimPrefix(key, "-")]
	if !ok {
		return "articles.fav_num DESC"
	}
	if desc {
		return column + " DESC"
	}
	return column
}

// clampPage parses a page request and clamps it into [1, totalPages]:
// non-numeric input falls back to page 1, anything past the end returns the
// last valid page. Never fails.
func clampPage(pageStr string, total int64) (int, int) {
	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	page, err := strconv.Atoi(strings.TrimSpace(pageStr))
	if err != nil || page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return page, totalPages
}

// composeSearch translates the filter specification into one gorm query.
// Tag matching joins through article_tags, so callers must select distinct.
func (s *Service) composeSearch(ctx context.Context, f SearchFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Article{})

	if f.Username != "" {
		q = q.Joins("JOIN authors ON authors.article_id = articles.article_id").
			Joins("JOIN users ON users.id = authors.user_id").
			Where("users.username = ?", f.Username)
	}
	if f.Title != "" {
		q = q.Where("LOWER(articles.title) LIKE ?", "%"+strings.ToLower(f.Title)+"%")
	}
	if f.Category != "" {
		q = q.Joins("JOIN article_categories ON article_categories.article_id = articles.article_id").
			Where("article_categories.category_name = ?", f.Category)
	}
	if len(f.Tags) > 0 {
		q = q.Joins("JOIN article_tags ON article_tags.article_id = articles.article_id").
			Where("article_tags.tag_name IN ?", f.Tags)
	}

	if f.ViewerID != 0 {
		if f.AuthoredByViewer {
			q = q.Where("articles.article_id IN (?)", s.db.Model(&models.Author{}).
				Select("article_id").Where("user_id = ?", f.ViewerID))
		}
		if f.FavoritedByViewer {
			q = q.Where("articles.article_id IN (?)", s.db.Model(&models.Favorite{}).
				Select("article_id").Where("user_id = ?", f.ViewerID))
		}
		if f.ReadByViewer {
			q = q.Where("articles.article_id IN (?)", s.db.Model(&models.ReadingHistory{}).
				Select("article_id").Where("user_id = ?", f.ViewerID))
		}
	}

	return q
}

// SearchArticles returns one page of the filtered, sorted, deduplicated
// result set.
func (s *Service) SearchArticles(ctx context.Context, f SearchFilter, sortKey, pageStr string) ([]models.Article, PageInfo, error) {
	var total int64
	if err := s.composeSearch(ctx, f).
		Distinct("articles.article_id").Count(&total).Error; err != nil {
		return nil, PageInfo{}, err
	}

	page, totalPages := clampPage(pageStr, total)

	var articles []models.Article
	err := s.composeSearch(ctx, f).
		Distinct("articles.*").
		Order(orderClause(sortKey)).
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&articles).Error
	if err != nil {
		return nil, PageInfo{}, err
	}

	return articles, PageInfo{Page: page, PageSize: PageSize, Total: total, TotalPages: totalPages}, nil
}

// UserArticles returns one page of the articles authored by the given user,
// sorted with the same key scheme as SearchArticles.
func (s *Service) UserArticles(ctx context.Context, userID uint, sortKey, pageStr string) ([]models.Article, PageInfo, error) {
	return s.SearchArticles(ctx, SearchFilter{
		ViewerID:         userID,
		AuthoredByViewer: true,
	}, sortKey, pageStr)
}
