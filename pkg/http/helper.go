package http

import (
	"net/http"
	"strconv"

	"innkeep/pkg/config"
	apperrors "innkeep/pkg/errors"
	"innkeep/pkg/sanitizer"
)

// ExtractPageLimit reads page/limit query parameters, applying defaults
// and clamping both to at least 1. A page below 1 behaves as page 1.
func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := config.DefaultPageLimit
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	page = sanitizer.FloorInt(page, 1)
	limit = sanitizer.ClampInt(limit, 1, config.MaxPageLimit)

	return page, limit, nil
}
