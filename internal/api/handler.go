// Package api serves stored packets over HTTP as JSON.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/roach88/meshsniff/internal/store"
)

// ErrInvalidParam marks a malformed path parameter.
var ErrInvalidParam = errors.New("invalid parameter")

// PacketReader is the read side of the store.
type PacketReader interface {
	QueryAll(ctx context.Context) ([]store.PacketRecord, error)
	QueryAfter(ctx context.Context, rowID int64) ([]store.PacketRecord, error)
	QueryOneAfter(ctx context.Context, rowID int64) ([]store.PacketRecord, error)
	QueryRange(ctx context.Context, start, end int64) ([]store.PacketRecord, error)
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler answers packet queries. Every handler is a single store read;
// Handler keeps no state between requests.
type Handler struct {
	packets PacketReader
	logger  *slog.Logger
}

func NewHandler(packets PacketReader, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{packets: packets, logger: logger}
}

// ListPackets serves GET /packets.
func (h *Handler) ListPackets(w http.ResponseWriter, r *http.Request) {
	records, err := h.packets.QueryAll(r.Context())
	h.respond(w, records, err)
}

// PacketsAfter serves GET /packets/after/{rowId}.
func (h *Handler) PacketsAfter(w http.ResponseWriter, r *http.Request) {
	rowID, err := parseParam("rowId", mux.Vars(r)["rowId"])
	if err != nil {
		h.handleError(w, err)
		return
	}

	records, err := h.packets.QueryAfter(r.Context(), rowID)
	h.respond(w, records, err)
}

// OnePacketAfter serves GET /packets/one-after/{rowId}.
func (h *Handler) OnePacketAfter(w http.ResponseWriter, r *http.Request) {
	rowID, err := parseParam("rowId", mux.Vars(r)["rowId"])
	if err != nil {
		h.handleError(w, err)
		return
	}

	records, err := h.packets.QueryOneAfter(r.Context(), rowID)
	h.respond(w, records, err)
}

// PacketRange serves GET /packets/range/{start}-{end}.
func (h *Handler) PacketRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseSpan(mux.Vars(r)["span"])
	if err != nil {
		h.handleError(w, err)
		return
	}

	records, err := h.packets.QueryRange(r.Context(), start, end)
	h.respond(w, records, err)
}

func (h *Handler) respond(w http.ResponseWriter, records []store.PacketRecord, err error) {
	if err != nil {
		h.handleError(w, err)
		return
	}
	if records == nil {
		records = []store.PacketRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidParam):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

	default:
		h.logger.Error("internal error", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// writeJSON encodes v before writing anything, so an encoding failure can
// still be answered with a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		buf.Reset()
		buf.WriteString(`{"error":"internal server error"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// parseParam accepts an unsigned decimal integer that fits in int64.
// Signs, spaces and other bases are rejected.
func parseParam(name, s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: %s is empty", ErrInvalidParam, name)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("%w: %s %q is not a non-negative integer", ErrInvalidParam, name, s)
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is out of range", ErrInvalidParam, name, s)
	}
	return n, nil
}

// parseSpan splits "{start}-{end}". start > end is valid and matches nothing.
func parseSpan(span string) (start, end int64, err error) {
	lo, hi, ok := strings.Cut(span, "-")
	if !ok {
		return 0, 0, fmt.Errorf("%w: range %q must be start-end", ErrInvalidParam, span)
	}
	if start, err = parseParam("start", lo); err != nil {
		return 0, 0, err
	}
	if end, err = parseParam("end", hi); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
