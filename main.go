package main

import (
	"github.com/suisen-cp/algopedia/config"
	"github.com/suisen-cp/algopedia/models"
	"github.com/suisen-cp/algopedia/routes"
	"github.com/suisen-cp/algopedia/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Article{},
		&models.Category{},
		&models.Tag{},
		&models.Author{},
		&models.ArticleCategory{},
		&models.ArticleTag{},
		&models.Favorite{},
		&models.ReadingHistory{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
