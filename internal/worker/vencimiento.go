package worker

// vencimiento.go — cron de alertas de vencimiento.
// Una vez por día escanea los lotes activos cuyo vencimiento cae dentro de la
// ventana configurada y encola un correo de alerta hacia la casilla de planta.
// La marca en Redis evita repetir la alerta del día ante reinicios.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mattygrunge/planproduccion/internal/repository"
)

const vencimientoScanInterval = 24 * time.Hour

// VencimientoCron scans for batches close to expiry and enqueues alert emails.
type VencimientoCron struct {
	lotes      repository.LoteRepository
	dispatcher *Dispatcher
	rdb        *redis.Client
	dias       int
	para       string
}

func NewVencimientoCron(lotes repository.LoteRepository, dispatcher *Dispatcher, rdb *redis.Client, dias int, para string) *VencimientoCron {
	return &VencimientoCron{lotes: lotes, dispatcher: dispatcher, rdb: rdb, dias: dias, para: para}
}

// Start launches the daily scan goroutine. A run fires immediately on boot.
func (c *VencimientoCron) Start(ctx context.Context) {
	if c.para == "" {
		log.Info().Msg("vencimiento_cron: sin destinatario configurado — deshabilitado")
		return
	}
	go func() {
		ticker := time.NewTicker(vencimientoScanInterval)
		defer ticker.Stop()

		c.scan(ctx)
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case <-ticker.C:
				c.scan(ctx)
			}
		}
	}()
	log.Info().Int("dias", c.dias).Str("para", c.para).Msg("vencimiento_cron: started")
}

func (c *VencimientoCron) scan(ctx context.Context) {
	hoy := time.Now()

	// One alert per calendar day
	marca := "vencimiento:alertado:" + hoy.Format("2006-01-02")
	ok, err := c.rdb.SetNX(ctx, marca, "1", 48*time.Hour).Result()
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: redis setnx failed")
		return
	}
	if !ok {
		return
	}

	lotes, err := c.lotes.FindPorVencer(ctx, hoy, c.dias)
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: scan failed")
		return
	}
	if len(lotes) == 0 {
		log.Info().Msg("vencimiento_cron: sin lotes por vencer")
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Lotes con vencimiento dentro de los próximos %d días:\n\n", c.dias)
	for _, l := range lotes {
		producto := ""
		if l.Producto != nil {
			producto = l.Producto.Nombre
		}
		venc := ""
		if l.FechaVencimiento != nil {
			venc = l.FechaVencimiento.Format("02/01/2006")
		}
		fmt.Fprintf(&b, "- %s  %s  (%s)  vence %s\n", l.Codigo, l.NumeroLote, producto, venc)
	}

	payload := EmailJobPayload{
		ToEmail: c.para,
		Subject: fmt.Sprintf("Alerta de vencimiento: %d lote(s)", len(lotes)),
		Body:    b.String(),
	}
	if err := c.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: enqueue failed")
		return
	}
	log.Info().Int("lotes", len(lotes)).Msg("vencimiento_cron: alerta encolada")
}
