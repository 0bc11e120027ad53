package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"bukid/internal/core"
)

const dateLayout = "2006-01-02"

// parseDate accepts the short form used by the UI and full RFC3339 stamps.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, core.ErrInvalidDate
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
	}
	return t, nil
}

func fmtDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// decodeBody decodes a JSON request body into dst with unknown fields
// rejected, so a typoed field name fails loudly instead of zeroing out.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}
