package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pedrocostajr/crm-phoenix/database"

	"github.com/gin-gonic/gin"
	redis "github.com/go-redis/redis/v8"
)

// RateLimitConfig configuração de rate limiting
type RateLimitConfig struct {
	Requests     int                       // Quantidade de requisições permitidas
	Window       time.Duration             // Janela de tempo
	KeyGenerator func(*gin.Context) string // Gerador de chaves
}

// DefaultKeyGenerator gera a chave a partir do endereço IP
func DefaultKeyGenerator(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimit cria o middleware de limitação de frequência de requisições.
// Sem Redis disponível o middleware deixa tudo passar.
func RateLimit(config RateLimitConfig) gin.HandlerFunc {
	if config.KeyGenerator == nil {
		config.KeyGenerator = DefaultKeyGenerator
	}

	return func(c *gin.Context) {
		redisClient := database.GetRedis()
		if redisClient == nil {
			c.Next()
			return
		}

		key := "rate_limit:" + config.KeyGenerator(c)

		current, err := redisClient.Get(database.Ctx, key).Int()
		if err != nil && err != redis.Nil {
			// Erro de Redis não derruba a requisição
			c.Next()
			return
		}

		if current >= config.Requests {
			c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(config.Window).Unix(), 10))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"status": "error",
				"error": fmt.Sprintf("Muitas tentativas. Limite: %d requisições por %v",
					config.Requests, config.Window),
			})
			c.Abort()
			return
		}

		pipe := redisClient.Pipeline()
		pipe.Incr(database.Ctx, key)
		if current == 0 {
			// TTL apenas na primeira requisição da janela
			pipe.Expire(database.Ctx, key, config.Window)
		}
		if _, err := pipe.Exec(database.Ctx); err != nil {
			c.Next()
			return
		}

		remaining := config.Requests - current - 1
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}
