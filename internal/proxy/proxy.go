package proxy

// El proxy de shell cumple el rol del service worker del frontend original:
// network-first con caída a caché, shell pre-cacheado para navegación offline
// y cachés nombrados versionados. Nunca cachea /api ni métodos distintos de GET.

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ShellPath is the document served to navigation requests that miss the cache.
const ShellPath = "/index.html"

// Shell is the caching reverse proxy for the app shell.
type Shell struct {
	upstream  string
	apiPrefix string
	store     CacheStore
	client    *http.Client
	breaker   *breaker
	assets    []string
}

// NewShell builds the proxy. assets is the list of paths pre-cached by Install.
func NewShell(upstream, apiPrefix string, store CacheStore, assets []string) *Shell {
	return &Shell{
		upstream:  strings.TrimRight(upstream, "/"),
		apiPrefix: apiPrefix,
		store:     store,
		client:    &http.Client{Timeout: 10 * time.Second},
		breaker:   newBreaker(3, 30*time.Second),
		assets:    assets,
	}
}

// Install pre-caches the shell assets into the static cache.
// A single failed asset aborts the install, same as cache.addAll.
func (s *Shell) Install(ctx context.Context) error {
	for _, asset := range s.assets {
		resp, err := s.fetch(ctx, asset, nil)
		if err != nil {
			return err
		}
		if err := s.store.Put(ctx, CacheStatic, asset, resp); err != nil {
			return err
		}
	}
	log.Info().Int("assets", len(s.assets)).Msg("proxy: shell pre-cacheado")
	return nil
}

// Activate deletes every named cache that is not part of the current version.
func (s *Shell) Activate(ctx context.Context) error {
	names, err := s.store.ListCaches(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		if name == CacheStatic || name == CacheDynamic {
			continue
		}
		if err := s.store.DeleteCache(ctx, name); err != nil {
			return err
		}
		log.Info().Str("cache", name).Msg("proxy: caché obsoleto eliminado")
	}
	return nil
}

// SkipWaiting activates the current version immediately.
func (s *Shell) SkipWaiting(ctx context.Context) error {
	return s.Activate(ctx)
}

// ClearCache empties both named caches.
func (s *Shell) ClearCache(ctx context.Context) error {
	if err := s.store.DeleteCache(ctx, CacheStatic); err != nil {
		return err
	}
	return s.store.DeleteCache(ctx, CacheDynamic)
}

func (s *Shell) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Control operations (mensajes del SW original)
	if r.Method == http.MethodPost {
		switch r.URL.Path {
		case "/__proxy/skip-waiting":
			s.control(w, r, s.SkipWaiting)
			return
		case "/__proxy/clear-cache":
			s.control(w, r, s.ClearCache)
			return
		}
	}

	// Fuera de alcance: se pasa directo sin tocar caché
	if r.Method != http.MethodGet || strings.HasPrefix(r.URL.Path, s.apiPrefix) {
		s.passthrough(w, r)
		return
	}

	s.networkFirst(w, r)
}

func (s *Shell) control(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	if err := fn(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// networkFirst intenta el upstream; un 200 se guarda en el caché dinámico.
// Ante falla de red (o breaker abierto) responde el match cacheado y, para
// navegación, el documento shell.
func (s *Shell) networkFirst(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.URL.RequestURI()

	var resp *CachedResponse
	err := s.breaker.intentar(func() error {
		fetched, err := s.fetch(ctx, key, r.Header)
		if err != nil {
			return err
		}
		resp = fetched
		return nil
	})
	if err == nil {
		if resp.Status == http.StatusOK {
			if err := s.store.Put(ctx, CacheDynamic, key, resp); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("proxy: no se pudo cachear")
			}
		}
		writeCached(w, resp)
		return
	}

	log.Warn().Err(err).Str("key", key).Msg("proxy: upstream caído, sirviendo caché")
	s.serveFromCache(w, r, key)
}

func (s *Shell) serveFromCache(w http.ResponseWriter, r *http.Request, key string) {
	ctx := r.Context()
	for _, cache := range []string{CacheStatic, CacheDynamic} {
		if resp, ok, err := s.store.Get(ctx, cache, key); err == nil && ok {
			writeCached(w, resp)
			return
		}
	}

	// Navegación sin match: servir el shell para que la SPA arranque offline
	if esNavegacion(r) {
		for _, cache := range []string{CacheStatic, CacheDynamic} {
			if resp, ok, err := s.store.Get(ctx, cache, ShellPath); err == nil && ok {
				writeCached(w, resp)
				return
			}
		}
	}

	http.Error(w, "upstream no disponible", http.StatusGatewayTimeout)
}

// passthrough proxy directo sin caché (API y métodos de escritura).
func (s *Shell) passthrough(w http.ResponseWriter, r *http.Request) {
	req, err := http.NewRequestWithContext(r.Context(), r.Method, s.upstream+r.URL.RequestURI(), r.Body)
	if err != nil {
		http.Error(w, "request inválido", http.StatusBadGateway)
		return
	}
	req.Header = r.Header.Clone()

	resp, err := s.client.Do(req)
	if err != nil {
		http.Error(w, "upstream no disponible", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}

func (s *Shell) fetch(ctx context.Context, path string, header http.Header) (*CachedResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.upstream+path, nil)
	if err != nil {
		return nil, err
	}
	if header != nil {
		req.Header = header.Clone()
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	return &CachedResponse{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

func writeCached(w http.ResponseWriter, resp *CachedResponse) {
	copyHeader(w.Header(), resp.Header)
	w.WriteHeader(resp.Status)
	_, _ = io.Copy(w, bytes.NewReader(resp.Body))
}

func copyHeader(dst, src http.Header) {
	for k, vv := range src {
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

// esNavegacion detecta requests de documento (navegación del browser).
func esNavegacion(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
