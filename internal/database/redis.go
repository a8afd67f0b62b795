package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hypernova-labs/kassa-sdk/internal/config"
	"github.com/hypernova-labs/kassa-sdk/internal/models"
	"github.com/redis/go-redis/v9"
)

// TaskCache guarda el último estado conocido de cada envío y evita envíos
// concurrentes del mismo documento. AcquireSubmitLock retorna un token que
// ReleaseSubmitLock exige para liberar el candado.
type TaskCache interface {
	SetState(ctx context.Context, submissionID, state string) error
	GetState(ctx context.Context, submissionID string) (string, bool, error)
	AcquireSubmitLock(ctx context.Context, key string) (string, bool, error)
	ReleaseSubmitLock(ctx context.Context, key, token string) error
}

// SubmitLockKey identifica el candado de envío igual que la unicidad del diario
func SubmitLockKey(kind models.SubmissionKind, externalID string) string {
	return string(kind) + ":" + externalID
}

// releaseLock borra el candado sólo si todavía pertenece al token
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis representa la conexión a Redis
type Redis struct {
	*redis.Client
	lockTTL  time.Duration
	stateTTL time.Duration
}

// ConnectRedis establece la conexión a Redis
func ConnectRedis(cfg *config.Config) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
	})

	// Verificar conexión
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("error pinging Redis: %w", err)
	}

	return NewRedis(client, cfg.Redis.LockTTL, cfg.Redis.StateTTL), nil
}

// NewRedis envuelve un cliente existente
func NewRedis(client *redis.Client, lockTTL, stateTTL time.Duration) *Redis {
	return &Redis{Client: client, lockTTL: lockTTL, stateTTL: stateTTL}
}

// Close cierra la conexión a Redis
func (r *Redis) Close() error {
	return r.Client.Close()
}

// HealthCheck verifica la salud de Redis
func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.Ping(ctx).Err()
}

func stateKey(submissionID string) string {
	return "kassa:state:" + submissionID
}

func lockKey(key string) string {
	return "kassa:submit:" + key
}

// SetState guarda el estado de un envío con TTL
func (r *Redis) SetState(ctx context.Context, submissionID, state string) error {
	if err := r.Client.Set(ctx, stateKey(submissionID), state, r.stateTTL).Err(); err != nil {
		return fmt.Errorf("error caching task state: %w", err)
	}
	return nil
}

// GetState retorna el estado guardado; false si no hay entrada
func (r *Redis) GetState(ctx context.Context, submissionID string) (string, bool, error) {
	state, err := r.Client.Get(ctx, stateKey(submissionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading cached task state: %w", err)
	}
	return state, true, nil
}

// AcquireSubmitLock toma el candado de envío con SET NX y un token propio
func (r *Redis) AcquireSubmitLock(ctx context.Context, key string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := r.Client.SetNX(ctx, lockKey(key), token, r.lockTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("error acquiring submit lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// ReleaseSubmitLock libera el candado si el token coincide. Un candado vencido
// y tomado por otro envío queda intacto.
func (r *Redis) ReleaseSubmitLock(ctx context.Context, key, token string) error {
	if err := releaseLock.Run(ctx, r.Client, []string{lockKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("error releasing submit lock: %w", err)
	}
	return nil
}
