package worker

// Cola de descarte: los jobs que agotan los reintentos quedan en una lista
// Redis aparte (dlq:<cola de origen>) para inspección manual.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// DLQEntry envuelve el job fallido con el contexto necesario para diagnosticarlo.
type DLQEntry struct {
	ColaOrigen string          `json:"cola_origen"`
	JobType    string          `json:"job_type"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	FallidoEn  time.Time       `json:"fallido_en"`
	Intentos   int             `json:"intentos"`
}

// SendToDLQ mueve un job agotado a la cola de descarte. Nunca falla hacia el
// llamador: un error acá solo se loguea, el pool sigue consumiendo.
func SendToDLQ(ctx context.Context, rdb *redis.Client, cola, jobType string, payload json.RawMessage, motivo string, intentos int) {
	entry := DLQEntry{
		ColaOrigen: cola,
		JobType:    jobType,
		Payload:    payload,
		Motivo:     motivo,
		FallidoEn:  time.Now().UTC(),
		Intentos:   intentos,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo serializar la entrada")
		return
	}
	if err := rdb.LPush(ctx, DLQPrefix+cola, data).Err(); err != nil {
		log.Error().Err(err).Str("cola", cola).Msg("dlq: no se pudo encolar")
		return
	}

	log.Warn().
		Str("cola", cola).
		Str("job_type", jobType).
		Str("motivo", motivo).
		Int("intentos", intentos).
		Msg("dlq: job descartado tras agotar reintentos")
}

// DLQLength devuelve la cantidad de jobs descartados de una cola.
func DLQLength(ctx context.Context, rdb *redis.Client, cola string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+cola).Result()
}
