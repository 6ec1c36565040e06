package config

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger instala um logger JSON como default, com o campo svc fixo
// (api, ws) para separar os processos nos logs agregados.
func InitLogger(level slog.Level, svc string) *slog.Logger {
	return initLogger(os.Stdout, level, svc)
}

func initLogger(w io.Writer, level slog.Level, svc string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	l := slog.New(h)
	if svc != "" {
		l = l.With("svc", svc)
	}
	slog.SetDefault(l) // permite usar slog.Info/Error globalmente
	return l
}
