package cms

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/suisen-cp/algopedia/models"
)

func TestDuplicateFavoritePairSurfacesConflictAndRollsBack(t *testing.T) {
	svc, db := newTestService(t)
	author := seedUser(t, db, "alice")
	reader := seedUser(t, db, "bob")

	id := mustSaveArticle(t, svc, author, "Intro", "Tech")

	_, err := svc.ToggleFavorite(context.Background(), id, reader)
	require.NoError(t, err)

	// A second insert for the same (article, user) pair hits the unique
	// index; the counter bump paired with it must roll back too.
	err = db.Transaction(func(tx *gorm.DB) error {
		return createFavorite(tx, id, reader)
	})
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, uint(1), articleFavNum(t, db, id))
	var rows int64
	require.NoError(t, db.Model(&models.Favorite{}).
		Where("article_id = ?", id).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestDuplicateTagAssignmentSurfacesConflictAndRollsBack(t *testing.T) {
	svc, db := newTestService(t)
	userID := seedUser(t, db, "alice")

	id := mustSaveArticle(t, svc, userID, "Intro", "Tech", "go")

	err := db.Transaction(func(tx *gorm.DB) error {
		return addTag(tx, id, "go")
	})
	assert.ErrorIs(t, err, ErrConflict)

	assert.Equal(t, uint(1), tagArticleNum(t, db, "go"))
	var rows int64
	require.NoError(t, db.Model(&models.ArticleTag{}).
		Where("article_id = ?", id).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestStagedCreationLosingRaceSurfacesConflict(t *testing.T) {
	svc, db := newTestService(t)

	// A concurrent writer lands the same vocabulary row after a
	// pre-existence check resolved the name as new; replaying the staged
	// creation hits the primary key and reports a retryable conflict.
	_, errs, err := svc.CreateCategory(context.Background(), "Tech")
	require.NoError(t, err)
	require.Empty(t, errs)

	err = db.Transaction(func(tx *gorm.DB) error {
		return translate(tx.Create(&models.Category{Name: "Tech"}).Error)
	})
	assert.ErrorIs(t, err, ErrConflict)

	var rows int64
	require.NoError(t, db.Model(&models.Category{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}
