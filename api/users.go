package api

import (
	"net/http"
	"strings"

	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRequest representa o corpo de criação/atualização de um usuário
type UserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Status   string `json:"status"`
	Password string `json:"password"`
}

// GetUsers retorna todos os usuários da equipe
func GetUsers(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar os usuários: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   users,
	})
}

// CreateUser cria um novo usuário da equipe
func CreateUser(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Dados inválidos: " + err.Error(),
		})
		return
	}

	status := models.UserStatus(req.Status)
	if status != models.UserAtivo && status != models.UserInativo {
		status = models.UserAtivo
	}

	user := models.User{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Phone:  req.Phone,
		Status: status,
	}

	// A senha definida pelo usuário é guardada com hash, mas não participa
	// da autenticação
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error",
				"error":  "Não foi possível processar a senha",
			})
			return
		}
		user.Password = string(hashed)
	}

	if err := db.Create(&user).Error; err != nil {
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"status": "error",
				"error":  "Já existe um usuário com este e-mail",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível criar o usuário: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   user,
	})
}

// UpdateUser atualiza os dados do usuário. Senha em branco mantém o hash
// armazenado.
func UpdateUser(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "error",
				"error":  "Usuário não encontrado",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar o usuário: " + err.Error(),
		})
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "Dados inválidos: " + err.Error(),
		})
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	user.Phone = req.Phone
	if status := models.UserStatus(req.Status); status == models.UserAtivo || status == models.UserInativo {
		user.Status = status
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"status": "error",
				"error":  "Não foi possível processar a senha",
			})
			return
		}
		user.Password = string(hashed)
	}

	if err := db.Save(&user).Error; err != nil {
		if isDuplicateError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"status": "error",
				"error":  "Já existe um usuário com este e-mail",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível atualizar o usuário: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   user,
	})
}

// DeleteUser remove um usuário. Administradores nunca são removíveis pela
// API; qualquer outro usuário sempre pode ser removido.
func DeleteUser(c *gin.Context) {
	db := requireDB(c)
	if db == nil {
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"status": "error",
				"error":  "Usuário não encontrado",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível carregar o usuário: " + err.Error(),
		})
		return
	}

	if user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{
			"status": "error",
			"error":  "Administradores não podem ser removidos",
		})
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível remover o usuário: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Usuário removido com sucesso",
	})
}

// isDuplicateError detecta violação de unicidade nos drivers suportados
func isDuplicateError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique") ||
		strings.Contains(msg, "constraint")
}
