package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/studyshare/platform/pkg/studyshare"
)

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// renderError maps domain errors to HTTP responses. Validation and
// conflict problems carry their message through; everything else gets a
// generic body so backend detail never reaches the client.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *studyshare.ValidationError
	var storageErr *studyshare.StorageError
	var persistenceErr *studyshare.PersistenceError

	switch {
	case errors.As(err, &validationErr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: validationErr.Error()})

	case errors.Is(err, studyshare.ErrUsernameTaken):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, ErrorResponse{Error: "username already exists"})

	case errors.Is(err, studyshare.ErrResourceNotFound),
		errors.Is(err, studyshare.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "not found"})

	case errors.As(err, &storageErr), errors.As(err, &persistenceErr),
		errors.Is(err, studyshare.ErrMalformedLocator):
		slog.Error("storage failure", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "something went wrong, please try again"})

	default:
		slog.Error("request failed", "err", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "something went wrong, please try again"})
	}
}
