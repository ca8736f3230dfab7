// internal/handlers/migrate.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/database"
	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type MigrationHandler struct {
	db *gorm.DB
}

func NewMigrationHandler(db *gorm.DB) *MigrationHandler {
	return &MigrationHandler{db: db}
}

// GET /migrate
func (h *MigrationHandler) ListMigrations(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"migrations": database.Migrations(),
	})
}

// POST /migrate/:name
// Safe to call repeatedly; statements that already took effect are counted
// as already applied.
func (h *MigrationHandler) RunMigration(c *gin.Context) {
	results, err := database.RunMigration(c.Request.Context(), h.db, c.Param("name"))
	if err != nil {
		if errors.Is(err, database.ErrUnknownMigration) {
			utils.NotFoundResponse(c, i18n.KeyMigrationNotFound)
			return
		}
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"results": results,
	})
}
