package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/suisen-cp/algopedia/cms"
	"github.com/suisen-cp/algopedia/middleware"
	"github.com/suisen-cp/algopedia/models"
	"github.com/suisen-cp/algopedia/utils"
)

// ArticleController exposes article authoring, browsing and favoriting over
// HTTP. All persistence and counter maintenance lives in the cms service; the
// controller only binds payloads, checks ownership and manages caching.
type ArticleController struct {
	svc *cms.Service
}

// NewArticleController creates a new ArticleController instance.
func NewArticleController(svc *cms.Service) *ArticleController {
	return &ArticleController{svc: svc}
}

type articlePayload struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// articleView is the detail representation, article row plus classification.
type articleView struct {
	models.Article
	Author    string   `json:"author"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Favorited bool     `json:"favorited"`
}

// CreateArticle persists a new article for the authenticated user.
func (a *ArticleController) CreateArticle(ctx *gin.Context) {
	var req articlePayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if userID == 0 {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	articleID, fieldErrs, err := a.svc.SaveArticle(ctx.Request.Context(), cms.SaveArticleInput{
		Title:        utils.Sanitize(req.Title),
		Content:      utils.Sanitize(req.Content),
		CategoryName: req.Category,
		TagNames:     req.Tags,
		ActingUserID: userID,
	})
	if fieldErrs != nil {
		utils.ValidationFailed(ctx, 40021, fieldErrs)
		return
	}
	if err != nil {
		respondSaveError(ctx, err)
		return
	}

	utils.InvalidateArticleCaches(strconv.Itoa(int(articleID)))
	utils.Success(ctx, gin.H{"article_id": articleID})
}

// UpdateArticle edits an existing article owned by the authenticated user.
func (a *ArticleController) UpdateArticle(ctx *gin.Context) {
	articleID, ok := parseArticleID(ctx)
	if !ok {
		return
	}

	var req articlePayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if !a.requireOwnership(ctx, articleID, userID) {
		return
	}

	_, fieldErrs, err := a.svc.SaveArticle(ctx.Request.Context(), cms.SaveArticleInput{
		ArticleID:    &articleID,
		Title:        utils.Sanitize(req.Title),
		Content:      utils.Sanitize(req.Content),
		CategoryName: req.Category,
		TagNames:     req.Tags,
		ActingUserID: userID,
	})
	if fieldErrs != nil {
		utils.ValidationFailed(ctx, 40021, fieldErrs)
		return
	}
	if err != nil {
		respondSaveError(ctx, err)
		return
	}

	utils.InvalidateArticleCaches(strconv.Itoa(int(articleID)))
	utils.Success(ctx, gin.H{"article_id": articleID})
}

// DeleteArticle removes an article owned by the authenticated user together
// with its classification rows.
func (a *ArticleController) DeleteArticle(ctx *gin.Context) {
	articleID, ok := parseArticleID(ctx)
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(ctx)
	if !a.requireOwnership(ctx, articleID, userID) {
		return
	}

	if err := a.svc.DeleteArticle(ctx.Request.Context(), articleID); err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to delete article")
		return
	}

	utils.InvalidateArticleCaches(strconv.Itoa(int(articleID)))
	utils.Success(ctx, nil)
}

// GetArticle returns one article with its classification. Authenticated
// viewers additionally get their favorited flag and a reading-history touch.
func (a *ArticleController) GetArticle(ctx *gin.Context) {
	articleID, ok := parseArticleID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)

	// Anonymous detail views are cacheable; viewer-relative ones are not.
	cacheKey := utils.CacheArticleDetailPrefix + strconv.Itoa(int(articleID))
	if userID == 0 {
		if b, found := utils.CacheGetBytes(cacheKey); found {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	rctx := ctx.Request.Context()
	article, err := a.svc.GetArticle(rctx, articleID)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load article")
		return
	}

	view := articleView{Article: *article}
	if name, err := a.svc.ArticleCategoryName(rctx, articleID); err == nil {
		view.Category = name
	}
	if tags, err := a.svc.ArticleTagNames(rctx, articleID); err == nil {
		view.Tags = tags
	}
	if authorID, err := a.svc.ArticleAuthorID(rctx, articleID); err == nil {
		if author, err := a.svc.GetUser(rctx, authorID); err == nil {
			view.Author = author.Username
		}
	}

	if userID != 0 {
		if fav, err := a.svc.IsFavorited(rctx, articleID, userID); err == nil {
			view.Favorited = fav
		}
		if err := a.svc.RecordView(rctx, articleID, userID); err != nil && utils.Sugar != nil {
			utils.Sugar.Warnf("record view failed article=%d user=%d err=%v", articleID, userID, err)
		}
		utils.Success(ctx, gin.H{"article": view})
		return
	}

	body := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"article": view}}
	utils.CacheSetJSON(cacheKey, body, 0)
	ctx.JSON(http.StatusOK, body)
}

// ToggleFavorite flips the viewer's favorite on an article and reports the
// resulting state with the fresh counter.
func (a *ArticleController) ToggleFavorite(ctx *gin.Context) {
	articleID, ok := parseArticleID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)
	if userID == 0 {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	favorited, err := a.svc.ToggleFavorite(ctx.Request.Context(), articleID, userID)
	if err != nil {
		switch {
		case errors.Is(err, cms.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40420, "article not found")
		case errors.Is(err, cms.ErrConflict):
			utils.Error(ctx, http.StatusConflict, 40920, "favorite state changed, retry")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to toggle favorite")
		}
		return
	}

	var favNum uint
	if article, err := a.svc.GetArticle(ctx.Request.Context(), articleID); err == nil {
		favNum = article.FavNum
	}

	utils.InvalidateArticleCaches(strconv.Itoa(int(articleID)))
	utils.Success(ctx, gin.H{"favorited": favorited, "fav_num": favNum})
}

// SearchArticles runs the composed search. Every filter is optional and all
// active filters AND together; viewer-relative checkboxes only apply to
// authenticated requests.
func (a *ArticleController) SearchArticles(ctx *gin.Context) {
	filter := cms.SearchFilter{
		Username: strings.TrimSpace(ctx.Query("username")),
		Title:    strings.TrimSpace(ctx.Query("title")),
		Category: strings.TrimSpace(ctx.Query("category")),
		ViewerID: middleware.CurrentUserID(ctx),
	}
	for _, raw := range ctx.QueryArray("tag") {
		if tag := strings.TrimSpace(raw); tag != "" {
			filter.Tags = append(filter.Tags, tag)
		}
	}
	filter.Tags = utils.UniqueStrings(filter.Tags)
	filter.AuthoredByViewer = ctx.Query("mine") == "1"
	filter.FavoritedByViewer = ctx.Query("favorited") == "1"
	filter.ReadByViewer = ctx.Query("read") == "1"

	sortKey := ctx.Query("sort")
	pageStr := ctx.Query("page")

	// Anonymous searches are cacheable by their full query string.
	cacheable := filter.ViewerID == 0
	cacheKey := utils.CacheSearchPrefix + ctx.Request.URL.RawQuery
	if cacheable {
		if b, found := utils.CacheGetBytes(cacheKey); found {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	articles, pageInfo, err := a.svc.SearchArticles(ctx.Request.Context(), filter, sortKey, pageStr)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "search failed")
		return
	}

	data := gin.H{"articles": articles, "page_info": pageInfo}
	if cacheable {
		body := utils.JSONResponse{Code: 0, Message: "success", Data: data}
		utils.CacheSetJSON(cacheKey, body, 0)
		ctx.JSON(http.StatusOK, body)
		return
	}
	utils.Success(ctx, data)
}

// requireOwnership checks that userID authored the article, writing the error
// response itself when not.
func (a *ArticleController) requireOwnership(ctx *gin.Context, articleID, userID uint) bool {
	if userID == 0 {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return false
	}
	authorID, err := a.svc.ArticleAuthorID(ctx.Request.Context(), articleID)
	if err != nil {
		if errors.Is(err, cms.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40420, "article not found")
			return false
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to resolve author")
		return false
	}
	if authorID != userID {
		utils.Error(ctx, http.StatusForbidden, 40320, "not the article author")
		return false
	}
	return true
}

func respondSaveError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, cms.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40421, "referenced record not found")
	case errors.Is(err, cms.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40921, "a concurrent change conflicted, retry")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to save article")
	}
}

func parseArticleID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40022, fmt.Sprintf("invalid article id %q", ctx.Param("id")))
		return 0, false
	}
	return uint(id), true
}
