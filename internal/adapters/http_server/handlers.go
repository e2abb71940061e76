package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"roomcheck/internal/adapters/observability"
	"roomcheck/internal/app"
	"roomcheck/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	I *app.InspectionService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// inspectionRequest is the submission body: record collections stay loosely
// typed here and are normalized by the app layer.
type inspectionRequest struct {
	Inspector string           `json:"inspector"`
	Notes     string           `json:"notes"`
	Equipment []map[string]any `json:"equipment"`
	Inventory []map[string]any `json:"inventory"`
	Damages   []map[string]any `json:"damages"`
}

func (r inspectionRequest) payload() app.InspectionPayload {
	return app.InspectionPayload{
		Inspector: r.Inspector,
		Notes:     r.Notes,
		Equipment: r.Equipment,
		Inventory: r.Inventory,
		Damages:   r.Damages,
	}
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/inspections/score", h.scorePreview)
	s.mux.Post("/v1/rooms/{roomID}/inspections", h.submitInspection)
	s.mux.Get("/v1/rooms/{roomID}/inspections", h.listRoomInspections)
	s.mux.Get("/v1/inspections/{id}", h.getInspection)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the whole response; return empty ETag and best-effort body.
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// scorePreview computes a result without persisting. The inspection form
// calls this on every edit, so bad record values must score, not 4xx.
func (h *Handlers) scorePreview(w http.ResponseWriter, r *http.Request) {
	var req inspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON inspection payload")
		return
	}
	res, err := h.I.Preview(r.Context(), req.payload())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPolicy) {
			writeProblem(w, http.StatusUnprocessableEntity, "Invalid policy", err.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Scoring failed", err.Error())
		return
	}
	observability.ObserveScore(res.Score, res.CanCheckout)
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) submitInspection(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil || roomID <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid room", "roomID must be a positive number")
		return
	}
	var req inspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "body must be a JSON inspection payload")
		return
	}
	ins, err := h.I.Submit(r.Context(), roomID, req.payload())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPolicy) {
			writeProblem(w, http.StatusUnprocessableEntity, "Invalid policy", err.Error())
			return
		}
		log.Error().Err(err).Int64("room_id", roomID).Msg("submit inspection failed")
		writeProblem(w, http.StatusInternalServerError, "Submit failed", "could not persist inspection")
		return
	}
	observability.ObserveScore(ins.Result.Score, ins.Result.CanCheckout)
	writeJSON(w, http.StatusCreated, ins)
}

func (h *Handlers) getInspection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	ins, err := h.Q.GetInspection(r.Context(), id)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "inspection not found")
		return
	}

	etag, body := calcETagAndBody(ins)
	// If client already has this version, short-circuit.
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getInspection body")
	}
}

func (h *Handlers) listRoomInspections(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid room", "roomID must be a number")
		return
	}

	limit := 50
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}

	// Newest first; aligns with DB index on (room_id, completed_at, id)
	page := domain.PageQuery{Limit: limit, Cursor: nil, Sort: "-completed_at"}
	out, err := h.Q.ListRoomInspections(r.Context(), roomID, page)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "inspections not found")
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listRoomInspections body")
	}
}
