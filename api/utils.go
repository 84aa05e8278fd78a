package api

import (
	"net/http"

	"github.com/pedrocostajr/crm-phoenix/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// getDB retorna a conexão do contexto quando presente (testes injetam uma
// base em memória) ou a conexão global
func getDB(c *gin.Context) *gorm.DB {
	if value, exists := c.Get("db"); exists {
		if db, ok := value.(*gorm.DB); ok {
			return db
		}
	}
	return database.GetDB()
}

// requireDB obtém a conexão ou responde 500. O handler deve retornar quando
// receber nil.
func requireDB(c *gin.Context) *gorm.DB {
	db := getDB(c)
	if db == nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Conexão com o banco de dados indisponível",
		})
	}
	return db
}
