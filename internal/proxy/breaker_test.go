package proxy

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreakerSuspendeTrasRachaDeFallas(t *testing.T) {
	b := newBreaker(3, 30*time.Second)
	falla := errors.New("timeout")

	for i := 0; i < 3; i++ {
		require.ErrorIs(t, b.intentar(func() error { return falla }), falla)
	}

	// Suspendido: fn ni siquiera se ejecuta
	ejecutado := false
	err := b.intentar(func() error { ejecutado = true; return nil })
	assert.ErrorIs(t, err, errUpstreamSuspendido)
	assert.False(t, ejecutado)
}

func TestBreakerUnExitoReiniciaLaCuenta(t *testing.T) {
	b := newBreaker(3, 30*time.Second)
	falla := errors.New("timeout")

	require.Error(t, b.intentar(func() error { return falla }))
	require.Error(t, b.intentar(func() error { return falla }))
	require.NoError(t, b.intentar(func() error { return nil }))

	// La racha se cortó: hacen falta tres fallas nuevas para suspender
	require.Error(t, b.intentar(func() error { return falla }))
	require.Error(t, b.intentar(func() error { return falla }))
	assert.ErrorIs(t, b.intentar(func() error { return falla }), falla)
	assert.ErrorIs(t, b.intentar(func() error { return nil }), errUpstreamSuspendido)
}

func TestBreakerSondeaYReabreTrasElPlazo(t *testing.T) {
	reloj := time.Now()
	b := newBreaker(1, 30*time.Second)
	b.ahora = func() time.Time { return reloj }

	require.Error(t, b.intentar(func() error { return errors.New("timeout") }))
	assert.ErrorIs(t, b.intentar(func() error { return nil }), errUpstreamSuspendido)

	// Vencido el plazo, un sondeo exitoso reabre el tránsito
	reloj = reloj.Add(31 * time.Second)
	require.NoError(t, b.intentar(func() error { return nil }))
	assert.NoError(t, b.intentar(func() error { return nil }))
}

func TestBreakerSondeoFallidoRenuevaLaSuspension(t *testing.T) {
	reloj := time.Now()
	b := newBreaker(1, 30*time.Second)
	b.ahora = func() time.Time { return reloj }

	require.Error(t, b.intentar(func() error { return errors.New("timeout") }))

	reloj = reloj.Add(31 * time.Second)
	require.Error(t, b.intentar(func() error { return errors.New("timeout") }))

	// La falla del sondeo vuelve a suspender por el plazo completo
	reloj = reloj.Add(29 * time.Second)
	assert.ErrorIs(t, b.intentar(func() error { return nil }), errUpstreamSuspendido)
}
