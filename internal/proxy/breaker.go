package proxy

import (
	"errors"
	"sync"
	"time"
)

// errUpstreamSuspendido indica que el breaker está abierto: los fetch al
// upstream se descartan sin tocar la red y se responde desde caché.
var errUpstreamSuspendido = errors.New("upstream suspendido por fallas consecutivas")

const (
	upstreamActivo = iota // los fetch pasan normalmente
	upstreamSuspendido    // fast-fail hasta que venza el plazo
	upstreamSondeo        // un fetch de prueba decide si se reabre
)

// breaker corta los fetch al upstream tras una racha de fallas, para que el
// proxy caiga al caché de inmediato en lugar de acumular timeouts. Vencido
// el plazo de suspensión deja pasar un fetch de sondeo: si responde se
// reabre el tránsito, si falla la suspensión se renueva completa.
type breaker struct {
	mu              sync.Mutex
	estado          int
	fallas          int
	suspendidoHasta time.Time

	umbralFallas int
	suspension   time.Duration
	ahora        func() time.Time
}

func newBreaker(umbralFallas int, suspension time.Duration) *breaker {
	return &breaker{
		umbralFallas: umbralFallas,
		suspension:   suspension,
		ahora:        time.Now,
	}
}

// intentar ejecuta fn salvo que el upstream esté suspendido, y registra el
// resultado para las transiciones de estado.
func (b *breaker) intentar(fn func() error) error {
	if !b.permitir() {
		return errUpstreamSuspendido
	}
	err := fn()
	b.registrar(err == nil)
	return err
}

func (b *breaker) permitir() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.estado == upstreamSuspendido && !b.ahora().Before(b.suspendidoHasta) {
		b.estado = upstreamSondeo
	}
	return b.estado != upstreamSuspendido
}

func (b *breaker) registrar(exito bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if exito {
		b.estado = upstreamActivo
		b.fallas = 0
		return
	}

	b.fallas++
	if b.estado == upstreamSondeo || b.fallas >= b.umbralFallas {
		b.estado = upstreamSuspendido
		b.suspendidoHasta = b.ahora().Add(b.suspension)
		b.fallas = 0
	}
}
