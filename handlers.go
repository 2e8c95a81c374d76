package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"luggagetracker/internal/logging"
	"luggagetracker/internal/luggage"
)

const (
	itemsPath = "/api/luggage"
	itemPath  = itemsPath + "/"
)

// Handler handles HTTP requests for luggage items.
type Handler struct {
	store  luggage.Store
	logger logging.Logger
}

// NewHandler creates a Handler with dependencies.
func NewHandler(store luggage.Store, logger logging.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Routes registers the API on a new mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(itemsPath, h.itemsHandler)
	mux.HandleFunc(itemPath, h.itemHandler)
	return mux
}

// itemsHandler routes requests without ID: GET for list, POST for create.
func (h *Handler) itemsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListItems(w, r)
	case http.MethodPost:
		h.handleCreateItem(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}
}

// itemHandler routes requests with ID. Only DELETE is supported.
func (h *Handler) itemHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, itemPath)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "Luggage item not found")
		return
	}
	switch r.Method {
	case http.MethodDelete:
		h.handleDeleteItem(w, r, id)
	default:
		w.Header().Set("Allow", "DELETE")
		writeError(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
	}
}

// handleListItems processes GET /api/luggage.
func (h *Handler) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListAll(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "failed to fetch luggage items", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch luggage items")
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items})
}

// handleCreateItem processes POST /api/luggage.
func (h *Handler) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request payload: %v", err))
		return
	}
	if err := ensureSingleJSON(dec); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := luggage.ValidateInput(req.Name, req.Destination); err != nil {
		writeError(w, http.StatusBadRequest, "Name and destination are required")
		return
	}

	item, err := h.store.Create(r.Context(), req.Name, req.Destination)
	if err != nil {
		h.logger.Error(r.Context(), "failed to add luggage item", "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to add luggage item")
		return
	}

	w.Header().Set("Location", itemPath+item.ID)
	writeJSON(w, http.StatusCreated, itemResponse{Item: item})
}

// handleDeleteItem processes DELETE /api/luggage/{id}.
func (h *Handler) handleDeleteItem(w http.ResponseWriter, r *http.Request, id string) {
	removed, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error(r.Context(), "failed to delete luggage item", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete luggage item")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "Luggage item not found")
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{Success: true})
}

// ensureSingleJSON ensures only a single JSON object is in the request body.
func ensureSingleJSON(dec *json.Decoder) error {
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("request body must only contain a single JSON object")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
