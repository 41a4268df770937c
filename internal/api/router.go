package api

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter builds the packet routes. Only GET is routed; other methods on
// a known path get 405. Requests are access-logged and panics are recovered
// as 500.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := mux.NewRouter()

	packets := r.PathPrefix("/packets").Subrouter()
	packets.HandleFunc("", h.ListPackets).Methods(http.MethodGet)
	packets.HandleFunc("/after/{rowId}", h.PacketsAfter).Methods(http.MethodGet)
	packets.HandleFunc("/one-after/{rowId}", h.OnePacketAfter).Methods(http.MethodGet)
	packets.HandleFunc("/range/{span}", h.PacketRange).Methods(http.MethodGet)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError)),
	)
	return handlers.CustomLoggingHandler(io.Discard, recovery(r), accessLog(logger))
}

// accessLog writes one structured line per request. The writer handed in
// by gorilla/handlers is unused.
func accessLog(logger *slog.Logger) handlers.LogFormatter {
	return func(_ io.Writer, p handlers.LogFormatterParams) {
		logger.Info("request",
			"method", p.Request.Method,
			"path", p.URL.Path,
			"status", p.StatusCode,
			"bytes", p.Size,
			"duration", time.Since(p.TimeStamp),
		)
	}
}
