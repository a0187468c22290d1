package client

import (
	"context"
	"sync"
)

// latestWins cancela el request en vuelo de una clave cuando llega uno nuevo
// con la misma clave: la respuesta del request viejo nunca pisa a la del
// nuevo porque el viejo muere con context.Canceled.
type latestWins struct {
	mu      sync.Mutex
	enVuelo map[string]*vuelo
}

type vuelo struct {
	cancel context.CancelFunc
}

func newLatestWins() *latestWins {
	return &latestWins{enVuelo: make(map[string]*vuelo)}
}

// Acquire registra un request para la clave, cancelando el anterior si sigue
// en vuelo, y devuelve su contexto. El done devuelto debe llamarse al
// terminar para liberar la entrada.
func (l *latestWins) Acquire(ctx context.Context, key string) (context.Context, func()) {
	l.mu.Lock()
	if anterior, ok := l.enVuelo[key]; ok {
		anterior.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	v := &vuelo{cancel: cancel}
	l.enVuelo[key] = v
	l.mu.Unlock()

	done := func() {
		l.mu.Lock()
		// Solo borrar si seguimos siendo el request vigente
		if l.enVuelo[key] == v {
			delete(l.enVuelo, key)
		}
		l.mu.Unlock()
		cancel()
	}
	return ctx, done
}
