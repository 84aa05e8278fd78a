package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pedrocostajr/crm-phoenix/config"

	"github.com/go-redis/redis/v8"
)

var Redis *redis.Client
var Ctx = context.Background()

// InitRedis inicializa a conexão com o Redis. O Redis é opcional: quando
// indisponível, o rate limiting do login vira no-op.
func InitRedis() error {
	redisCfg := config.Get().Redis

	Redis = redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", redisCfg.Host, redisCfg.Port),
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := Redis.Ping(Ctx).Err(); err != nil {
		Redis = nil
		return fmt.Errorf("não foi possível conectar ao Redis: %w", err)
	}

	log.Println("✅ Conectado ao Redis com sucesso")
	return nil
}

// GetRedis retorna o cliente Redis (nil quando indisponível)
func GetRedis() *redis.Client {
	return Redis
}
