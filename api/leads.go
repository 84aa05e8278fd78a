package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pedrocostajr/crm-phoenix/models"
	"github.com/pedrocostajr/crm-phoenix/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeadRequest representa o corpo de criação/atualização de um lead
type LeadRequest struct {
	Name           string          `json:"name" binding:"required"`
	Company        string          `json:"company"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Status         string          `json:"status"`
	EstimatedValue decimal.Decimal `json:"estimatedValue"`
	Origin         string          `json:"origin"`
	Responsible    string          `json:"responsible"`
	Observations   string          `json:"observations"`
}

// UpdateStatusRequest representa a transição de status vinda do kanban
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// InteractionRequest representa o registro de um novo contato
type InteractionRequest struct {
	Type        string `json:"type" binding:"required"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// GetLeads retorna os leads ordenados por data de criação decrescente, com
// busca, filtro de status e paginação
func GetLeads(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset := (page - 1) * limit

	search := c.Query("search")
	status := c.Query("status")

	query := db.Model(&models.Lead{})

	// Busca por nome, empresa ou e-mail
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(company) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if status != "" && status != "Todos" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível contar os leads: " + err.Error(),
		})
		return
	}

	var leads []models.Lead
	if err := query.
		Preload("Interactions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&leads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar os leads: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"items": leads,
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// GetLead retorna um lead específico com a timeline de interações
func GetLead(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var lead models.Lead
	if err := db.Preload("Interactions", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC, id ASC")
	}).First(&lead, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "error",
				"error":  "Lead não encontrado",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar o lead: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   lead,
	})
}

// CreateLead cria um novo lead
func CreateLead(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Dados inválidos: " + err.Error(),
		})
		return
	}

	status := models.LeadStatus(req.Status)
	if req.Status == "" {
		status = models.StatusNovoLead
	} else if !models.IsValidLeadStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Status inválido: " + req.Status,
		})
		return
	}

	if req.EstimatedValue.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Valor estimado não pode ser negativo",
		})
		return
	}

	lead := models.Lead{
		Name:           req.Name,
		Company:        req.Company,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         status,
		EstimatedValue: req.EstimatedValue,
		Origin:         req.Origin,
		Responsible:    req.Responsible,
		Observations:   req.Observations,
		Interactions:   []models.Interaction{},
	}

	if err := db.Create(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível salvar o lead: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   lead,
	})
}

// UpdateLead substitui o registro inteiro do lead (upsert por id, sem patch
// parcial; última gravação vence)
func UpdateLead(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var lead models.Lead
	if err := db.First(&lead, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "error",
				"error":  "Lead não encontrado",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar o lead: " + err.Error(),
		})
		return
	}

	var req LeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Dados inválidos: " + err.Error(),
		})
		return
	}

	status := models.LeadStatus(req.Status)
	if req.Status == "" {
		status = lead.Status
	} else if !models.IsValidLeadStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Status inválido: " + req.Status,
		})
		return
	}

	if req.EstimatedValue.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Valor estimado não pode ser negativo",
		})
		return
	}

	// Identidade e data de criação nunca mudam
	lead.Name = req.Name
	lead.Company = req.Company
	lead.Email = req.Email
	lead.Phone = req.Phone
	lead.Status = status
	lead.EstimatedValue = req.EstimatedValue
	lead.Origin = req.Origin
	lead.Responsible = req.Responsible
	lead.Observations = req.Observations

	if err := db.Save(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível salvar o lead: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   lead,
	})
}

// UpdateLeadStatus aplica a transição de status do kanban. O valor enviado
// precisa pertencer ao conjunto fechado; nada fora dele é persistido.
func UpdateLeadStatus(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Dados inválidos: " + err.Error(),
		})
		return
	}

	status := models.LeadStatus(req.Status)
	if !models.IsValidLeadStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Status inválido: " + req.Status,
		})
		return
	}

	var lead models.Lead
	if err := db.First(&lead, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "error",
				"error":  "Lead não encontrado",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar o lead: " + err.Error(),
		})
		return
	}

	lead.Status = status
	if err := db.Save(&lead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível atualizar o status: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   lead,
	})
}

// DeleteLead remove o lead definitivamente. A operação é idempotente: um id
// inexistente não é erro.
func DeleteLead(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	if err := db.Delete(&models.Lead{}, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível excluir o lead: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Lead excluído com sucesso",
	})
}

// AddInteraction registra um contato na timeline do lead (append-only)
func AddInteraction(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Dados inválidos: " + err.Error(),
		})
		return
	}

	interactionType := models.InteractionType(req.Type)
	if !models.IsValidInteractionType(interactionType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Tipo de interação inválido: " + req.Type,
		})
		return
	}

	var lead models.Lead
	if err := db.First(&lead, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "error",
				"error":  "Lead não encontrado",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar o lead: " + err.Error(),
		})
		return
	}

	interaction := models.Interaction{
		LeadID:      lead.ID,
		Type:        interactionType,
		Date:        req.Date,
		Description: req.Description,
	}

	if err := db.Create(&interaction).Error; err != nil {
		// Falha de persistência de registro único: o motivo bruto vai para
		// o chamador
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível salvar a interação: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   interaction,
	})
}

// GetKanban retorna as cinco colunas abertas do quadro, agrupadas por status
// e com a soma de valor por coluna, recalculadas a cada chamada
func GetKanban(c *gin.Context) {
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
		"data":   services.BuildKanban(leads),
	})
}
