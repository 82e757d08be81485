package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// AddressHandler handles saved address requests.
type AddressHandler struct {
	book   service.AddressBook
	logger zerolog.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(book service.AddressBook, logger zerolog.Logger) *AddressHandler {
	return &AddressHandler{
		book:   book,
		logger: logger.With().Str("handler", "address").Logger(),
	}
}

// List handles GET /api/addresses.
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.book.List())
}

// Default handles GET /api/addresses/default.
func (h *AddressHandler) Default(w http.ResponseWriter, r *http.Request) {
	address, ok := h.book.Default()
	if !ok {
		writeError(w, r, model.ErrNotFound, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, address)
}

// Create handles POST /api/addresses.
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var address model.Address
	if err := decodeJSON(r, &address); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	created, err := h.book.Add(r.Context(), address)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update handles PUT /api/addresses/{id}.
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	var address model.Address
	if err := decodeJSON(r, &address); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	address.ID = r.PathValue("id")

	updated, err := h.book.Update(r.Context(), address)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Remove handles DELETE /api/addresses/{id}.
func (h *AddressHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.book.Remove(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDefault handles POST /api/addresses/{id}/default.
func (h *AddressHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	if err := h.book.SetDefault(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.book.List())
}
