package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/tillpoint/tillpoint-backend/pkg/errors"
)

const queryDateLayout = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryDate reads an ISO date (2006-01-02) query parameter. A missing
// parameter yields the fallback.
func ParseQueryDate(r *http.Request, key string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	day, err := time.ParseInLocation(queryDateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "date must look like 2006-01-02").WithDetails(map[string]any{"field": key})
	}
	return day, nil
}

// ParseURLInt64 parses a positive numeric path segment, e.g. a record id.
func ParseURLInt64(raw, field string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value < 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "identifier must be a positive integer").WithDetails(map[string]any{"field": field})
	}
	return value, nil
}
