package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/enum"
	"github.com/KrisnaSetiadi/App-kasir-Nasgor/internal/report"
)

// parseWindow reads ?filter=, ?start_date= and ?end_date= (YYYY-MM-DD, local
// days in loc). A missing filter means fallback; unknown filters are passed
// through and select every record.
func parseWindow(r *http.Request, loc *time.Location, fallback string) (string, report.Range, error) {
	const layout = "2006-01-02"

	q := r.URL.Query()
	filter := strings.ToUpper(strings.TrimSpace(q.Get("filter")))
	if filter == "" {
		filter = fallback
	}

	var rng report.Range
	if s := q.Get("start_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return "", report.Range{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		rng.Start = t
	}
	if s := q.Get("end_date"); s != "" {
		t, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			return "", report.Range{}, fmt.Errorf("invalid end_date format: %w", err)
		}
		rng.End = t
	}

	if filter == enum.TimeFilterCustom && !rng.Start.IsZero() && !rng.End.IsZero() && rng.End.Before(rng.Start) {
		return "", report.Range{}, fmt.Errorf("end_date must not be before start_date")
	}

	return filter, rng, nil
}
