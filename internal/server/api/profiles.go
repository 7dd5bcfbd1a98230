// Package api provides HTTP API handlers for the Mudra pointer control
// application.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/store"
)

// ProfileHandler handles HTTP requests for calibration profile resources.
type ProfileHandler struct {
	store *store.Store
}

// NewProfileHandler creates a new ProfileHandler with the given store.
func NewProfileHandler(s *store.Store) *ProfileHandler {
	return &ProfileHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Parse the path to determine if this is a collection or item request
	// Expected paths: /api/profiles, /api/profiles/{id} or /api/profiles/{id}/activate
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		// Collection endpoint: /api/profiles
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	// Activation endpoint: /api/profiles/{id}/activate
	if id, ok := strings.CutSuffix(path, "/activate"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	// Item endpoint: /api/profiles/{id}
	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type profileRequest struct {
	Name            string   `json:"name"`
	CursorMode      string   `json:"cursor_mode"`
	MirrorX         *bool    `json:"mirror_x"`
	BaseSensitivity *float64 `json:"base_sensitivity"`
	InRatio         *float64 `json:"in_ratio"`
	OutRatio        *float64 `json:"out_ratio"`
	BaselineFloorCm *float64 `json:"baseline_floor_cm"`
	SmoothAlpha     *float64 `json:"smooth_alpha"`
}

type profileResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	CursorMode      string  `json:"cursor_mode"`
	MirrorX         bool    `json:"mirror_x"`
	BaseSensitivity float64 `json:"base_sensitivity"`
	InRatio         float64 `json:"in_ratio"`
	OutRatio        float64 `json:"out_ratio"`
	BaselineFloorCm float64 `json:"baseline_floor_cm"`
	SmoothAlpha     float64 `json:"smooth_alpha"`
	Active          bool    `json:"active"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Profile to a profileResponse.
func toResponse(p *store.Profile) profileResponse {
	return profileResponse{
		ID:              p.ID,
		Name:            p.Name,
		CursorMode:      p.CursorMode,
		MirrorX:         p.MirrorX,
		BaseSensitivity: p.BaseSensitivity,
		InRatio:         p.InRatio,
		OutRatio:        p.OutRatio,
		BaselineFloorCm: p.BaselineFloorCm,
		SmoothAlpha:     p.SmoothAlpha,
		Active:          p.Active,
		CreatedAt:       p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// apply copies the request's provided fields onto the profile. It
// returns an error message for invalid values, or "" when valid.
func (req *profileRequest) apply(p *store.Profile) string {
	if req.Name != "" {
		p.Name = req.Name
	}
	if req.CursorMode != "" {
		if req.CursorMode != "absolute" && req.CursorMode != "relative" {
			return "Invalid cursor mode"
		}
		p.CursorMode = req.CursorMode
	}
	if req.MirrorX != nil {
		p.MirrorX = *req.MirrorX
	}
	if req.BaseSensitivity != nil {
		if *req.BaseSensitivity <= 0 {
			return "Sensitivity must be positive"
		}
		p.BaseSensitivity = *req.BaseSensitivity
	}
	if req.InRatio != nil {
		p.InRatio = *req.InRatio
	}
	if req.OutRatio != nil {
		p.OutRatio = *req.OutRatio
	}
	if p.InRatio <= 0 || p.OutRatio >= 1 || p.InRatio >= p.OutRatio {
		return "Pinch ratios must satisfy 0 < in_ratio < out_ratio < 1"
	}
	if req.BaselineFloorCm != nil {
		if *req.BaselineFloorCm <= 0 {
			return "Baseline floor must be positive"
		}
		p.BaselineFloorCm = *req.BaselineFloorCm
	}
	if req.SmoothAlpha != nil {
		if *req.SmoothAlpha <= 0 || *req.SmoothAlpha > 1 {
			return "Smoothing alpha must be in (0, 1]"
		}
		p.SmoothAlpha = *req.SmoothAlpha
	}
	return ""
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}

	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// create handles POST /api/profiles and creates a new profile.
func (h *ProfileHandler) create(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	// Unspecified fields start from the calibration defaults.
	profile := &store.Profile{
		CursorMode:      "absolute",
		MirrorX:         true,
		BaseSensitivity: 1.4,
		InRatio:         0.35,
		OutRatio:        0.55,
		BaselineFloorCm: 3.0,
		SmoothAlpha:     0.4,
	}
	if msg := req.apply(profile); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(profile))
}

// update handles PUT /api/profiles/{id} and updates an existing profile.
func (h *ProfileHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if msg := req.apply(profile); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}

// delete handles DELETE /api/profiles/{id} and removes a profile.
func (h *ProfileHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Profiles().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/profiles/{id}/activate and makes the
// profile the single active one.
func (h *ProfileHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Profiles().SetActive(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to activate profile")
		return
	}

	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(profile))
}
