package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/quanganhtapcode/store/pkg/errors"
)

// ParseQueryInt reads an integer query parameter with a default and bounds.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter "+key+" must be numeric")
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter "+key+" out of range").
			WithDetails(map[string]any{"min": min, "max": max})
	}
	return value, nil
}

// ParseQueryMillis reads an optional epoch-millisecond query parameter,
// returning nil when absent.
func ParseQueryMillis(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter "+key+" must be an epoch-millisecond timestamp")
	}
	return &value, nil
}
