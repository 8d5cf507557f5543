package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// errInvalidID reports a path id that is not a positive integer.
var errInvalidID = fmt.Errorf("%w: id must be a positive integer", domain.ErrValidation)

// getPathID extracts a positive integer id from the URL path parameters.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", errInvalidID, paramName, raw)
	}
	return id, nil
}

// requirePrincipal returns the authenticated caller or writes a 401.
func requirePrincipal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		logger.FromContextOrDefault(r.Context(), slog.Default()).
			Warn("principal not found in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return domain.Principal{}, false
	}
	return p, true
}

// pathIDs parses each named path parameter, writing a 400 on the first bad one.
func pathIDs(w http.ResponseWriter, r *http.Request, names ...string) ([]int64, bool) {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := getPathID(r, name)
		if err != nil {
			logger.FromContextOrDefault(r.Context(), slog.Default()).
				Debug("invalid path parameter", slog.String("param_name", name))
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid "+name)
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// decodeAndValidate reads a JSON body into dst and validates it, writing a
// 400 when either step fails.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return false
	}
	return true
}
