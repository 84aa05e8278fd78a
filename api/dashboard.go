package api

import (
	"net/http"

	"github.com/pedrocostajr/crm-phoenix/models"
	"github.com/pedrocostajr/crm-phoenix/services"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats calcula as estatísticas do pipeline sobre a coleção
// atual de leads. Nada é cacheado: cada chamada relê a coleção e recalcula.
func GetDashboardStats(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var leads []models.Lead
	if err := db.Order("created_at DESC").Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar os leads: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   services.ComputePipelineStats(leads),
	})
}
