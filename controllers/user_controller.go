package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suisen-cp/algopedia/cms"
	"github.com/suisen-cp/algopedia/middleware"
	"github.com/suisen-cp/algopedia/models"
	"github.com/suisen-cp/algopedia/utils"
)

const tokenDuration = 72 * time.Hour

// UserController handles registration, login and the per-user profile page
// with its aggregates.
type UserController struct {
	db  *gorm.DB
	svc *cms.Service
}

// NewUserController creates a new UserController instance.
func NewUserController(db *gorm.DB, svc *cms.Service) *UserController {
	return &UserController{db: db, svc: svc}
}

// Register creates a new account.
func (u *UserController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || len(username) > 150 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid username")
		return
	}
	if !utils.ValidPassword(req.Password) {
		utils.Error(ctx, http.StatusBadRequest, 40012,
			"password must be at least 10 alphanumeric characters with upper, lower and digit")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to hash password")
		return
	}

	user := models.User{Username: username, PasswordHash: hash}
	if err := u.db.WithContext(ctx.Request.Context()).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40910, "username already taken")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create user")
		return
	}

	utils.Success(ctx, gin.H{"user": user})
}

// Login verifies credentials and issues a JWT.
func (u *UserController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	var user models.User
	err := u.db.WithContext(ctx.Request.Context()).
		Where("username = ?", strings.TrimSpace(req.Username)).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		// Same response for unknown user and wrong password.
		utils.Error(ctx, http.StatusUnauthorized, 40111, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to issue token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Me returns the authenticated user's own record.
func (u *UserController) Me(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if userID == 0 {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	user, err := u.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, gin.H{"user": user})
}

// Profile renders the user page: the authored article listing plus the
// received-favorites sum and per-category/per-tag breakdowns. The favorites
// and reading history shelves are private and only included for the owner.
func (u *UserController) Profile(ctx *gin.Context) {
	username := strings.TrimSpace(ctx.Param("username"))
	viewerID := middleware.CurrentUserID(ctx)

	// Anonymous profile views are cacheable; mutations invalidate the prefix.
	cacheKey := utils.CacheUserArticlesPrefix + username +
		":sort=" + ctx.Query("sort") + ":page=" + ctx.Query("page")
	if viewerID == 0 {
		if b, found := utils.CacheGetBytes(cacheKey); found {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	var user models.User
	if err := u.db.WithContext(ctx.Request.Context()).
		Where("username = ?", username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "user not found")
		return
	}

	rctx := ctx.Request.Context()
	articles, pageInfo, err := u.svc.UserArticles(rctx, user.ID, ctx.Query("sort"), ctx.Query("page"))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load articles")
		return
	}

	likedNum, err := u.svc.LikedNum(rctx, user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load aggregates")
		return
	}
	categoryCounts, err := u.svc.CategoryCounts(rctx, user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load aggregates")
		return
	}
	tagCounts, err := u.svc.TagCounts(rctx, user.ID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load aggregates")
		return
	}

	data := gin.H{
		"user":            user,
		"articles":        articles,
		"page_info":       pageInfo,
		"liked_num":       likedNum,
		"category_counts": categoryCounts,
		"tag_counts":      tagCounts,
	}

	if viewerID == user.ID {
		if favorites, err := u.svc.FavoriteArticles(rctx, user.ID); err == nil {
			data["favorite_articles"] = favorites
		}
		if read, err := u.svc.ReadArticles(rctx, user.ID); err == nil {
			data["read_articles"] = read
		}
		utils.Success(ctx, data)
		return
	}

	if viewerID == 0 {
		body := utils.JSONResponse{Code: 0, Message: "success", Data: data}
		utils.CacheSetJSON(cacheKey, body, 0)
		ctx.JSON(http.StatusOK, body)
		return
	}
	utils.Success(ctx, data)
}
