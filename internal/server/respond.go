package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/tbeckers/floatdeck/pkg/errors"
	"github.com/tbeckers/floatdeck/pkg/grid"
)

// errorBody is the JSON shape of every non-2xx response.
type errorBody struct {
	Error      string           `json:"error"`
	Code       string           `json:"code,omitempty"`
	Violations []grid.Violation `json:"violations,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto HTTP semantics:
//   - placement rejections: 422 with the full violation list
//   - missing layouts/modules: 404
//   - contract violations (bad enums, bad coordinates, bad input): 400
//   - everything else: 500
func writeError(w http.ResponseWriter, err error) {
	var rej *grid.RejectionError
	if stderrors.As(err, &rej) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:      rej.Error(),
			Code:       string(errors.ErrCodePlacementRejected),
			Violations: rej.Result.Violations,
		})
		return
	}

	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeLayoutNotFound, errors.ErrCodeModuleNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidCoordinate, errors.ErrCodeInvalidDimensions,
		errors.ErrCodeInvalidType, errors.ErrCodeInvalidOrientation,
		errors.ErrCodeInvalidColor, errors.ErrCodeInvalidRecord,
		errors.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	}

	writeJSON(w, status, errorBody{Error: errors.UserMessage(err), Code: string(code)})
}

func moduleNotFound(id string) error {
	return errors.New(errors.ErrCodeModuleNotFound, "module %q not found", id)
}

// badRequest reports a malformed request body or query parameter.
func badRequest(w http.ResponseWriter, err error) {
	writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "bad request"))
}
