package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis conecta el cliente que respalda la cola de avisos de vencimiento,
// su DLQ y el caché del proxy de shell. Falla rápido si el servidor no
// responde al arranque.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
