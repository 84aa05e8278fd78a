package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pedrocostajr/crm-phoenix/models"
	"github.com/pedrocostajr/crm-phoenix/services"

	"github.com/gin-gonic/gin"
)

var exportContentTypes = map[string]string{
	"csv":  "text/csv",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"pdf":  "application/pdf",
	"json": "application/json",
}

// ImportLeads recebe uma planilha (.csv/.xlsx) por multipart e importa
// os leads em lote. Linhas sem nome são descartadas em silêncio; falhas
// parciais de gravação viram contagem, não rollback; falha total é erro
// fatal do lote.
func ImportLeads(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Arquivo de planilha é obrigatório",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Não foi possível abrir o arquivo enviado",
		})
		return
	}
	defer file.Close()

	rows, err := services.ParseSpreadsheet(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Não foi possível ler a planilha: " + err.Error(),
		})
		return
	}

	leads, skipped := services.ReconcileRows(rows)

	result, err := services.ImportLeads(db, leads, skipped)
	switch {
	case errors.Is(err, services.ErrNothingToImport):
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Nenhum lead válido encontrado na planilha",
			"data":   result,
		})
		return
	case errors.Is(err, services.ErrImportFailed):
		// Falha total: causa provável sistêmica, não por linha
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Falha ao importar todos os leads. Verifique permissões e conectividade com o banco de dados.",
			"data":   result,
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Falha na importação: " + err.Error(),
		})
		return
	}

	message := fmt.Sprintf("%d leads importados com sucesso", result.Imported)
	if result.Failed > 0 {
		message = fmt.Sprintf("%d leads importados, %d falharam", result.Imported, result.Failed)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": message,
		"data":    result,
	})
}

// ExportLeads gera o relatório de leads no formato pedido
// (csv, xlsx, pdf ou json) para download
func ExportLeads(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	format := c.DefaultQuery("format", "csv")
	contentType, ok := exportContentTypes[format]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Formato não suportado: " + format,
		})
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

	report := services.BuildLeadReport(leads)

	var buf bytes.Buffer
	if err := services.WriteReport(report, format, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível gerar o relatório: " + err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("leads_%s.%s", time.Now().Format("20060102_150405"), format)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ExportBackup gera o snapshot completo do conjunto de dados
// ({leads, users, timestamp}) para download
func ExportBackup(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	snapshot, err := services.BuildBackup(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível gerar o backup: " + err.Error(),
		})
		return
	}

	filename := fmt.Sprintf("phoenix-crm-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.JSON(http.StatusOK, snapshot)
}

// ImportBackup restaura um snapshot: todo registro do arquivo é gravado por
// upsert, nada é removido. Documento malformado é uma falha única e
// genérica.
func ImportBackup(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Arquivo de backup é obrigatório",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Não foi possível abrir o arquivo enviado",
		})
		return
	}
	defer file.Close()

	if err := services.RestoreBackup(db, file); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Falha ao importar o backup",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Backup restaurado com sucesso",
	})
}
