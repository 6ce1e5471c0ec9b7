package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	handler "boleto-backoffice/internal/handlers"
	"boleto-backoffice/internal/repository"
	service "boleto-backoffice/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB) {
	invoiceRepo := repository.NewInvoiceRepository(db)
	entryRepo := repository.NewStatementEntryRepository(db)
	aliasRepo := repository.NewAliasRepository(db)

	reconService := service.NewService(invoiceRepo, entryRepo, aliasRepo)
	reconHandler := handler.NewReconciliationHandler(reconService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	recon := api.Group("/reconciliation")
	recon.POST("/upload", reconHandler.Upload)
	recon.GET("/pending", reconHandler.ListPending)
	recon.DELETE("/pending", reconHandler.PurgePending)
	recon.POST("/link", reconHandler.ConfirmLink)
}
