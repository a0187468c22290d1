package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mattygrunge/planproduccion/internal/apierror"
)

// ventana cuenta solicitudes de una IP dentro de una ventana deslizante.
type ventana struct {
	count int
	fin   time.Time
	mu    sync.Mutex
}

// limiterStore agrupa las ventanas por IP de un limitador concreto.
// Cada limitador (API general, login) tiene el suyo.
type limiterStore struct {
	mu       sync.Mutex
	ventanas map[string]*ventana
}

func newLimiterStore() *limiterStore {
	return &limiterStore{ventanas: make(map[string]*ventana)}
}

// permitir registra un intento y devuelve false cuando la IP superó el límite.
func (s *limiterStore) permitir(ip string, limite int, duracion time.Duration) (bool, time.Time) {
	s.mu.Lock()
	v, ok := s.ventanas[ip]
	if !ok {
		v = &ventana{}
		s.ventanas[ip] = v
	}
	s.mu.Unlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	now := time.Now()
	if now.After(v.fin) {
		v.count = 0
		v.fin = now.Add(duracion)
	}
	v.count++
	return v.count <= limite, v.fin
}

// purgar elimina las ventanas ya vencidas y devuelve cuántas sacó.
func (s *limiterStore) purgar(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	purgadas := 0
	for ip, v := range s.ventanas {
		v.mu.Lock()
		if now.After(v.fin) {
			delete(s.ventanas, ip)
			purgadas++
		}
		v.mu.Unlock()
	}
	return purgadas
}

var (
	apiStore   = newLimiterStore()
	loginStore = newLimiterStore()
)

// RateLimiter limita las solicitudes por IP con ventana deslizante.
// El router lo monta con 200 req/min para toda la API.
func RateLimiter(limite int, duracion time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, fin := apiStore.permitir(c.ClientIP(), limite, duracion)
		if !ok {
			c.Header("Retry-After", fin.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter corta los intentos de login a 20 por minuto por IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, _ := loginStore.permitir(c.ClientIP(), 20, time.Minute)
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}

const purgeInterval = 5 * time.Minute

// Las IPs que no vuelven dejarían ventanas huérfanas en los mapas; una
// goroutine las barre periódicamente.
func init() {
	go func() {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			total := apiStore.purgar(now) + loginStore.purgar(now)
			if total > 0 {
				log.Debug().Int("purgadas", total).Msg("rate limiter: ventanas vencidas purgadas")
			}
		}
	}()
}
