package main

import (
	"log"

	"github.com/pedrocostajr/crm-phoenix/api"
	"github.com/pedrocostajr/crm-phoenix/config"
	"github.com/pedrocostajr/crm-phoenix/database"
	"github.com/pedrocostajr/crm-phoenix/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// initDB inicializa a conexão com o banco de dados
func initDB() {
	log.Println("🔧 Inicializando o banco de dados...")

	// Cria o banco de dados caso ainda não exista
	if err := database.CreateDatabaseIfNotExists(); err != nil {
		log.Fatal("❌ Erro ao criar o banco de dados:", err)
	}

	if err := database.ConnectDatabase(); err != nil {
		log.Fatal("❌ Erro ao conectar ao banco de dados:", err)
	}

	log.Println("✅ Banco de dados inicializado com sucesso")
}

func main() {
	cfg := config.Load()

	initDB()

	// Redis é opcional: sem ele o rate limiting do login vira no-op
	if err := database.InitRedis(); err != nil {
		log.Println("⚠️  Redis indisponível, rate limiting de login desativado:", err)
	}

	r := gin.Default()
	r.Use(cors.Default()) // Para evitar erros de CORS

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":   "success",
			"message":  "pong",
			"database": "connected",
		})
	})

	// Login fica fora do guard de sessão, mas atrás do rate limiting
	loginLimiter := middleware.RateLimit(middleware.RateLimitConfig{
		Requests: cfg.Auth.LoginRateLimit,
		Window:   cfg.Auth.LoginRateWindow,
	})
	r.POST("/api/auth/login", loginLimiter, api.Login)

	auth := middleware.NewAuthMiddleware()
	protected := r.Group("/api")
	protected.Use(auth.RequireAuth())
	{
		protected.GET("/auth/me", api.Me)

		protected.GET("/leads", api.GetLeads)
		protected.GET("/leads/kanban", api.GetKanban)
		protected.GET("/leads/export", api.ExportLeads)
		protected.POST("/leads/import", api.ImportLeads)
		protected.GET("/leads/:id", api.GetLead)
		protected.POST("/leads", api.CreateLead)
		protected.PUT("/leads/:id", api.UpdateLead)
		protected.PATCH("/leads/:id/status", api.UpdateLeadStatus)
		protected.POST("/leads/:id/interactions", api.AddInteraction)
		protected.DELETE("/leads/:id", api.DeleteLead)

		protected.GET("/users", api.GetUsers)
		protected.POST("/users", api.CreateUser)
		protected.PUT("/users/:id", api.UpdateUser)
		protected.DELETE("/users/:id", api.DeleteUser)

		protected.GET("/dashboard/stats", api.GetDashboardStats)

		protected.GET("/backup", api.ExportBackup)
		protected.POST("/backup", api.ImportBackup)
	}

	log.Printf("🚀 Servidor iniciado na porta %s", cfg.App.Port)
	r.Run(":" + cfg.App.Port)
}
