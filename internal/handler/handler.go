package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"product-store/internal/middleware"
	"product-store/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure here means the client went away.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an ErrorResponse tagged with the request's correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, resp model.ErrorResponse, logger zerolog.Logger) {
	resp.CorrelationID = middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error", resp.Error).
		Str("message", resp.Message).
		Int("status", status).
		Str("request_id", resp.CorrelationID).
		Msg("handler error")

	writeJSON(w, status, resp)
}

// writeServiceError maps a service error onto its HTTP status and error code.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	var (
		validationErr *model.ValidationError
		storageErr    *model.StorageError
		domainErr     *model.DomainError
	)

	switch {
	case errors.As(err, &validationErr):
		writeError(w, r, http.StatusUnprocessableEntity, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: validationErr.Message,
			Details: validationErr.Fields,
		}, logger)
	case errors.Is(err, model.ErrProductNotFound):
		writeError(w, r, http.StatusNotFound, model.ErrorResponse{
			Error:   model.ErrCodeProductNotFound,
			Message: model.ErrProductNotFound.Message,
		}, logger)
	case errors.As(err, &storageErr):
		logger.Error().Err(storageErr.Err).Str("op", storageErr.Op).Msg("storage failure")
		writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeStorage,
			Message: storageErr.Error(),
		}, logger)
	case errors.As(err, &domainErr):
		writeError(w, r, http.StatusBadRequest, model.ErrorResponse{
			Error:   domainErr.Code,
			Message: domainErr.Message,
		}, logger)
	default:
		logger.Error().Err(err).Msg("unexpected error")
		writeError(w, r, http.StatusInternalServerError, model.ErrorResponse{
			Error:   model.ErrCodeInternalError,
			Message: "internal server error",
		}, logger)
	}
}

// decodeJSON decodes a single JSON object from the request body into dst.
// Unknown fields, trailing data and bad enum labels become validation errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var (
			validationErr *model.ValidationError
			syntaxErr     *json.SyntaxError
			typeErr       *json.UnmarshalTypeError
			maxErr        *http.MaxBytesError
		)
		switch {
		case errors.As(err, &validationErr):
			return validationErr
		case errors.As(err, &syntaxErr):
			return model.NewValidationError(fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset), nil)
		case errors.As(err, &typeErr):
			if typeErr.Field == "" {
				return model.NewValidationError("invalid field type: expected "+typeErr.Type.String(), nil)
			}
			return model.NewValidationError("invalid field type",
				map[string]string{typeErr.Field: "must be " + typeErr.Type.String()})
		case errors.As(err, &maxErr):
			return model.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), nil)
		case errors.Is(err, io.EOF):
			return model.NewValidationError("request body is required", nil)
		default:
			return model.NewValidationError("malformed JSON body: "+err.Error(), nil)
		}
	}

	if dec.More() {
		return model.NewValidationError("request body must contain a single JSON object", nil)
	}
	return nil
}
