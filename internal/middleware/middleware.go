package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// Recorder recebe o resultado de cada requisição (ex.: métricas prometheus).
type Recorder interface {
	RequestStarted()
	RequestDone(method, route string, status int, d time.Duration)
}

type statusRW struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusRW) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRW) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// RequestID reaproveita o X-Request-ID recebido ou gera um novo.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// Logging loga as requisições HTTP, incluindo o método, status, n. de bytes e
// duração, e alimenta o Recorder quando houver.
func Logging(log *slog.Logger, rec Recorder) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			if rec != nil {
				rec.RequestStarted()
			}
			srw := &statusRW{ResponseWriter: w}
			next.ServeHTTP(srw, r)
			if srw.status == 0 {
				srw.status = http.StatusOK
			}
			dur := time.Since(start)
			if rec != nil {
				rec.RequestDone(r.Method, Route(r.URL.Path), srw.status, dur)
			}
			log.Info("http_request",
				"method", r.Method, "path", r.URL.Path,
				"status", srw.status, "bytes", srw.bytes,
				"duration_ms", dur.Milliseconds(),
				"remote", r.RemoteAddr,
				"request_id", r.Header.Get(RequestIDHeader),
			)
		})
	}
}

// RouteOther agrupa no mesmo label qualquer path fora das rotas conhecidas.
const RouteOther = "other"

var (
	resources = map[string]bool{"empresas": true, "obrigacoes_acessorias": true}
	singles   = map[string]bool{"healthz": true, "metrics": true, "ws": true}
)

// Route reduz o path ao padrão da rota (/empresas/{id}) para não estourar a
// cardinalidade das métricas.
func Route(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	first := parts[0]
	switch {
	case len(parts) == 1 && singles[first] && !strings.HasSuffix(path, "/"):
		return "/" + first
	case !resources[first]:
		return RouteOther
	case len(parts) == 1:
		return "/" + first + "/"
	case len(parts) == 2:
		return "/" + first + "/{id}"
	default:
		return RouteOther
	}
}

// Chain aplica os middlewares na ordem dada (o primeiro é o mais externo).
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
