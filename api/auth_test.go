package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pedrocostajr/crm-phoenix/config"
	"github.com/pedrocostajr/crm-phoenix/middleware"
	"github.com/pedrocostajr/crm-phoenix/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogin testa a autenticação com a senha padrão compartilhada
func TestLogin(t *testing.T) {
	db, router := setupTestAPI(t)
	defaultPassword := config.Get().Auth.DefaultPassword

	t.Run("Administrador de bootstrap entra mesmo sem estar no banco", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", LoginRequest{
			Email:    "contato@leadsign.com.br",
			Password: defaultPassword,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		data := response["data"].(map[string]interface{})
		assert.NotEmpty(t, data["token"])

		user := data["user"].(map[string]interface{})
		assert.Equal(t, "admin1", user["id"])
		assert.Equal(t, true, user["isAdmin"])
	})

	t.Run("E-mail do administrador ignora caixa", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", LoginRequest{
			Email:    "CONTATO@LEADSIGN.COM.BR",
			Password: defaultPassword,
		})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Usuário cadastrado entra com a senha padrão", func(t *testing.T) {
		user := models.User{Name: "Vendedora", Email: "vendedora@leadsign.com.br"}
		require.NoError(t, db.Create(&user).Error)

		w := doJSON(router, "POST", "/api/auth/login", LoginRequest{
			Email:    "vendedora@leadsign.com.br",
			Password: defaultPassword,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		data := response["data"].(map[string]interface{})
		loggedUser := data["user"].(map[string]interface{})
		assert.Equal(t, user.ID, loggedUser["id"])
	})

	t.Run("Senha errada recebe a mesma resposta genérica de e-mail desconhecido", func(t *testing.T) {
		wrongPassword := doJSON(router, "POST", "/api/auth/login", LoginRequest{
			Email:    "contato@leadsign.com.br",
			Password: "senha-errada",
		})
		unknownEmail := doJSON(router, "POST", "/api/auth/login", LoginRequest{
			Email:    "intruso@exemplo.com",
			Password: defaultPassword,
		})

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String(),
			"a falha não revela se o e-mail existe")
	})

	t.Run("Corpo sem e-mail válido também falha com 401", func(t *testing.T) {
		w := doJSON(router, "POST", "/api/auth/login", map[string]string{
			"email":    "isso não é um e-mail",
			"password": defaultPassword,
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// TestSessionToken testa o ciclo token emitido -> sessão validada
func TestSessionToken(t *testing.T) {
	_, router := setupTestAPI(t)

	// Rota protegida registrada à parte para exercitar o middleware real
	auth := middleware.NewAuthMiddleware()
	router.GET("/api/auth/me", auth.RequireAuth(), Me)

	login := doJSON(router, "POST", "/api/auth/login", LoginRequest{
		Email:    "contatomoisesrodrigues@gmail.com",
		Password: config.Get().Auth.DefaultPassword,
	})
	require.Equal(t, http.StatusOK, login.Code)

	response := decodeBody(t, login)
	token := response["data"].(map[string]interface{})["token"].(string)

	t.Run("Token emitido é aceito pelo middleware", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		me := decodeBody(t, w)
		data := me["data"].(map[string]interface{})
		assert.Equal(t, "admin2", data["id"])
		assert.Equal(t, "contatomoisesrodrigues@gmail.com", data["email"])
	})

	t.Run("Sem cabeçalho Authorization a sessão é recusada", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/auth/me", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Token adulterado é recusado", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
