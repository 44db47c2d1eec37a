package api

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// errorStatus maps catalog errors to HTTP status codes. Unknown errors are internal.
var errorStatus = []struct {
	err    error
	status int
}{
	{catalog.ErrInvalidInput, http.StatusBadRequest},
	{catalog.ErrInvalidIdentifier, http.StatusBadRequest},
	{catalog.ErrNotFound, http.StatusNotFound},
	{catalog.ErrRecordNotFound, http.StatusNotFound},
	{catalog.ErrBookAlreadyExists, http.StatusConflict},
	{catalog.ErrEmailAlreadyRegistered, http.StatusConflict},
	{catalog.ErrAlreadyReturned, http.StatusConflict},
	{catalog.ErrConcurrencyConflict, http.StatusConflict},
	{catalog.ErrInsufficientStock, http.StatusUnprocessableEntity},
	{query.ErrSequenceConsumed, http.StatusInternalServerError},
}

func (h *Handler) respondWithDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, candidate := range errorStatus {
		if errors.Is(err, candidate.err) {
			respondWithError(w, candidate.status, err.Error())
			return
		}
	}

	if h.logger != nil {
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	}

	respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
}
