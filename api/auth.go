package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pedrocostajr/crm-phoenix/config"
	"github.com/pedrocostajr/crm-phoenix/middleware"
	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// logAuthOperation registra operações de autenticação em JSON estruturado
func logAuthOperation(operation, email string, details map[string]interface{}) {
	logData := map[string]interface{}{
		"timestamp": time.Now().Format(time.RFC3339),
		"operation": operation,
		"email":     email,
	}

	for key, value := range details {
		logData[key] = value
	}

	logJSON, _ := json.Marshal(logData)
	log.Printf("AUTH_LOG: %s", string(logJSON))
}

// Login autentica contra a lista de administradores de bootstrap e os
// usuários cadastrados. O login aceita apenas a senha padrão compartilhada
// configurada. A resposta de falha é
// genérica e não distingue e-mail desconhecido de senha errada.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logAuthOperation("login_validation_error", req.Email, map[string]interface{}{
			"error":      err.Error(),
			"status":     "failed",
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "E-mail ou senha incorretos.",
		})
		return
	}

	logAuthOperation("login_attempt", req.Email, map[string]interface{}{
		"ip_address": c.ClientIP(),
		"user_agent": c.GetHeader("User-Agent"),
	})

	db := requireDB(c)
	if db == nil {
		return
	}

	var found *models.User
	var user models.User
	err := db.Where("LOWER(email) = ?", strings.ToLower(req.Email)).First(&user).Error
	if err == nil {
		found = &user
	}

	isBootstrapAdmin := models.IsBootstrapAdminEmail(req.Email)

	if (found == nil && !isBootstrapAdmin) || req.Password != config.Get().Auth.DefaultPassword {
		logAuthOperation("login_failed", req.Email, map[string]interface{}{
			"status":     "failed",
			"ip_address": c.ClientIP(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "E-mail ou senha incorretos.",
		})
		return
	}

	// Admin de bootstrap ainda não semeado no banco: usa a entrada fixa
	if found == nil {
		for _, admin := range models.BootstrapAdmins {
			if strings.EqualFold(admin.Email, req.Email) {
				bootstrap := admin
				found = &bootstrap
				break
			}
		}
	}

	token, err := issueSessionToken(found)
	if err != nil {
		logAuthOperation("token_issue_error", req.Email, map[string]interface{}{
			"error":  err.Error(),
			"status": "failed",
		})
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  "Não foi possível criar a sessão",
		})
		return
	}

	logAuthOperation("login_success", req.Email, map[string]interface{}{
		"user_id":  found.ID,
		"is_admin": found.IsAdmin,
		"status":   "success",
	})

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"token": token,
			"user":  found,
		},
	})
}

// issueSessionToken emite o JWT de sessão do usuário
func issueSessionToken(user *models.User) (string, error) {
	jwtCfg := config.Get().JWT

	claims := middleware.SessionClaims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    jwtCfg.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtCfg.ExpiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtCfg.Secret))
}

// Me retorna o principal autenticado da sessão atual
func Me(c *gin.Context) {
	claims := middleware.GetCurrentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"status": "error",
			"error":  "Sessão não autenticada",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"id":      claims.UserID,
			"email":   claims.Email,
			"name":    claims.Name,
			"isAdmin": claims.IsAdmin,
		},
	})
}
