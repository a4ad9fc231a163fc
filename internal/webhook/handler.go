package webhook

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dineiq/dineiq/internal/service"
)

// Handler receives POS webhook callbacks and hands them to the ingest
// service. It runs on its own listener so POS traffic is isolated from
// the dashboard API.
type Handler struct {
	ingest *service.IngestService
}

func NewHandler(ingest *service.IngestService) *Handler {
	return &Handler{ingest: ingest}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/webhooks/pos/sales", h.ReceiveSale).Methods("POST")
	router.HandleFunc("/webhooks/pos/sales/batch", h.ReceiveBatch).Methods("POST")
	router.HandleFunc("/healthz", h.Health).Methods("GET")
}

func (h *Handler) ReceiveSale(w http.ResponseWriter, r *http.Request) {
	var ticket service.PosTicket
	if err := json.NewDecoder(r.Body).Decode(&ticket); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	event, err := h.ingest.IngestTicket(r.Context(), &ticket)
	if err != nil {
		http.Error(w, fmt.Sprintf("ingestion failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"event_id": event.ID})
}

// ReceiveBatch ingests several tickets in one call. Tickets are applied
// independently; the response reports how many were accepted.
func (h *Handler) ReceiveBatch(w http.ResponseWriter, r *http.Request) {
	var tickets []service.PosTicket
	if err := json.NewDecoder(r.Body).Decode(&tickets); err != nil {
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return
	}

	accepted := 0
	for i := range tickets {
		if _, err := h.ingest.IngestTicket(r.Context(), &tickets[i]); err != nil {
			log.Warn().Err(err).Int("index", i).Msg("webhook: batch ticket rejected")
			continue
		}
		accepted++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"accepted": accepted, "received": len(tickets)})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}
