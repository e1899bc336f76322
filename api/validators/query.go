package validators

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/Zwubman/team-work-supply-tracker/pkg/errors"
)

// ParseQueryUUID reads an optional UUID query parameter. A missing or blank
// value yields nil without error.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseQueryString reads an optional query parameter, trimming whitespace.
func ParseQueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}
