package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"munchen_mate/internal/adapters/observability"
	"munchen_mate/internal/app"
	"munchen_mate/internal/domain"
	"munchen_mate/internal/offline"
)

const maxBodyBytes = 1 << 20

// nginx's "client closed request"
const statusClientClosed = 499

type Handlers struct {
	Q        *app.QueryService
	C        *app.CommandService
	Sessions *app.Sessions
	// Assets serves the static app; normally the offline cache manager.
	Assets domain.AssetFetcher
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(WithSession(h.Sessions))

		r.Get("/attractions", h.listAttractions)
		r.Post("/itinerary", h.planItinerary)
		r.Post("/packing", h.composePacking)
		r.Get("/phrases", h.searchPhrases)
		r.Get("/routes", h.findRoute)
		r.Get("/routes/endpoints", h.routeEndpoints)

		r.Get("/expenses", h.listExpenses)
		r.Post("/expenses", h.addExpense)
		r.Delete("/expenses/{id}", h.deleteExpense)

		r.Get("/cache", h.cacheStatus)
		r.Post("/cache/install", h.installCache)
		r.Post("/cache/activate/{version}", h.activateCache)
		r.Post("/cache/prune", h.pruneCaches)
	})

	// anything else is part of the web app
	s.mux.NotFound(h.asset)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps a service error onto a problem response. The detail is
// the error text, which never carries more than sentinel plus context.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrSuperseded):
		writeProblem(w, http.StatusConflict, "Superseded", "a newer request for this panel was issued")
	case errors.Is(err, domain.ErrInstallInProgress):
		writeProblem(w, http.StatusConflict, "Install in progress", err.Error())
	case errors.Is(err, domain.ErrCacheInstall):
		writeProblem(w, http.StatusBadGateway, "Offline cache install failed", err.Error())
	case errors.Is(err, domain.ErrDataUnavailable):
		writeProblem(w, http.StatusServiceUnavailable, "Data unavailable", "the travel data could not be loaded, please try again")
	case errors.Is(err, context.DeadlineExceeded):
		writeProblem(w, http.StatusGatewayTimeout, "Timeout", "")
	case errors.Is(err, context.Canceled):
		w.WriteHeader(statusClientClosed)
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	return etagOf(body), body
}

func etagOf(body []byte) string {
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`
}

// writeCached writes a GET body with an ETag, answering 304 when the
// client already holds it.
func writeCached(w http.ResponseWriter, r *http.Request, contentType string, etag string, body []byte) {
	if inm := r.Header.Get("If-None-Match"); etag != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON body")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return false
	}
	return true
}

func featureFailed(feature string, err error) {
	outcome := "error"
	if errors.Is(err, domain.ErrSuperseded) {
		outcome = "superseded"
	}
	observability.ObserveFeature(feature, outcome)
}

func (h *Handlers) listAttractions(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Attractions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	etag, body := calcETagAndBody(out)
	writeCached(w, r, "application/json", etag, body)
}

func (h *Handlers) planItinerary(w http.ResponseWriter, r *http.Request) {
	var req app.ItineraryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.Q.Itinerary(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		featureFailed(app.FeatureItinerary, err)
		writeError(w, err)
		return
	}
	switch {
	case out.CandidateCount == 0:
		observability.ObserveFeature(app.FeatureItinerary, "empty")
	case out.FellBack:
		observability.ObserveFeature(app.FeatureItinerary, "fallback")
	default:
		observability.ObserveFeature(app.FeatureItinerary, "ok")
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) composePacking(w http.ResponseWriter, r *http.Request) {
	var req app.PackingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	out, err := h.Q.Packing(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		featureFailed(app.FeaturePacking, err)
		writeError(w, err)
		return
	}
	if len(out.Groups) == 0 {
		observability.ObserveFeature(app.FeaturePacking, "empty")
	} else {
		observability.ObserveFeature(app.FeaturePacking, "ok")
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) searchPhrases(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Phrases(r.Context(), sessionFrom(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		featureFailed(app.FeaturePhrases, err)
		writeError(w, err)
		return
	}
	observability.ObserveFeature(app.FeaturePhrases, string(out.State))
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) findRoute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.Q.Route(r.Context(), sessionFrom(r.Context()),
		strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")))
	if err != nil {
		featureFailed(app.FeatureTransport, err)
		writeError(w, err)
		return
	}
	if out.Found {
		observability.ObserveFeature(app.FeatureTransport, "found")
	} else {
		observability.ObserveFeature(app.FeatureTransport, "not_found")
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) routeEndpoints(w http.ResponseWriter, r *http.Request) {
	out, err := h.Q.Endpoints(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	etag, body := calcETagAndBody(out)
	writeCached(w, r, "application/json", etag, body)
}

type expenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
}

func (h *Handlers) listExpenses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Q.Expenses(sessionFrom(r.Context())))
}

func (h *Handlers) addExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	e, err := h.C.AddExpense(sessionFrom(r.Context()), req.Description, req.Amount, req.Category)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Location", "/v1/expenses/"+e.ID)
	writeJSON(w, http.StatusCreated, e)
}

func (h *Handlers) deleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.C.DeleteExpense(sessionFrom(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type cacheView struct {
	Status   offline.Status  `json:"status"`
	Manifest domain.Manifest `json:"manifest"`
}

func (h *Handlers) cacheStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, cacheView{Status: h.C.CacheStatus(), Manifest: h.C.Manifest()})
}

func (h *Handlers) installCache(w http.ResponseWriter, r *http.Request) {
	if err := h.C.InstallCache(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cacheView{Status: h.C.CacheStatus(), Manifest: h.C.Manifest()})
}

func (h *Handlers) activateCache(w http.ResponseWriter, r *http.Request) {
	if err := h.C.ActivateCache(r.Context(), chi.URLParam(r, "version")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cacheView{Status: h.C.CacheStatus(), Manifest: h.C.Manifest()})
}

func (h *Handlers) pruneCaches(w http.ResponseWriter, r *http.Request) {
	dropped, err := h.C.PruneCaches(r.Context())
	if err != nil {
		log.Warn().Err(err).Strs("dropped", dropped).Msg("prune incomplete")
		writeProblem(w, http.StatusInternalServerError, "Prune incomplete", err.Error())
		return
	}
	if dropped == nil {
		dropped = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"dropped": dropped})
}

// asset serves the web app through the cache manager: cached responses
// as stored, misses straight from the network.
func (h *Handlers) asset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeProblem(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
		return
	}
	resp, err := h.Assets.Fetch(r.Context(), r.URL.Path)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			w.WriteHeader(statusClientClosed)
			return
		}
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("asset unavailable")
		writeProblem(w, http.StatusBadGateway, "Asset unavailable", "the app is offline and this file is not cached")
		return
	}
	ct := resp.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	if resp.Status != http.StatusOK {
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(resp.Status)
		if r.Method != http.MethodHead {
			_, _ = w.Write(resp.Body)
		}
		return
	}
	writeCached(w, r, ct, etagOf(resp.Body), resp.Body)
}
