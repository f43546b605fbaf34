package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/suisen-cp/algopedia/cms"
	"github.com/suisen-cp/algopedia/utils"
)

// TaxonomyController serves the category and tag vocabulary: listings for the
// edit form pickers and standalone creation endpoints.
type TaxonomyController struct {
	svc *cms.Service
}

// NewTaxonomyController creates a new TaxonomyController instance.
func NewTaxonomyController(svc *cms.Service) *TaxonomyController {
	return &TaxonomyController{svc: svc}
}

// ListCategories returns every category with its article count.
func (t *TaxonomyController) ListCategories(ctx *gin.Context) {
	categories, err := t.svc.Categories(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load categories")
		return
	}
	utils.Success(ctx, gin.H{"categories": categories})
}

// ListTags returns every tag with its article count.
func (t *TaxonomyController) ListTags(ctx *gin.Context) {
	tags, err := t.svc.Tags(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to load tags")
		return
	}
	utils.Success(ctx, gin.H{"tags": tags})
}

type namePayload struct {
	Name string `json:"name"`
}

// CreateCategory creates a category outside any article save.
func (t *TaxonomyController) CreateCategory(ctx *gin.Context) {
	var req namePayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	category, errs, err := t.svc.CreateCategory(ctx.Request.Context(), req.Name)
	if len(errs) > 0 {
		utils.ValidationFailed(ctx, 40031, errs)
		return
	}
	if err != nil {
		if errors.Is(err, cms.ErrConflict) {
			utils.Error(ctx, http.StatusConflict, 40930, "category already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to create category")
		return
	}
	utils.Success(ctx, gin.H{"category": category})
}

// CreateTag creates a tag outside any article save.
func (t *TaxonomyController) CreateTag(ctx *gin.Context) {
	var req namePayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	tag, errs, err := t.svc.CreateTag(ctx.Request.Context(), req.Name)
	if len(errs) > 0 {
		utils.ValidationFailed(ctx, 40031, errs)
		return
	}
	if err != nil {
		if errors.Is(err, cms.ErrConflict) {
			utils.Error(ctx, http.StatusConflict, 40931, "tag already exists")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to create tag")
		return
	}
	utils.Success(ctx, gin.H{"tag": tag})
}
