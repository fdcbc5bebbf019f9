package appointments

import (
	"fmt"
	"strings"
	"time"

	"github.com/hafiz229/doctors-portal-server/internal/models"
)

// DateLayout is the canonical stored form of an appointment date.
const DateLayout = "2006-01-02"

// usDateLayout matches what the booking front-end produced with
// toLocaleDateString in en-US, e.g. 10/17/2026.
const usDateLayout = "1/2/2006"

// NormalizeDate converts an accepted date input into YYYY-MM-DD. RFC 3339
// timestamps are reduced to their UTC calendar date.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("date is required: %w", models.ErrInvalidInput)
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(DateLayout), nil
	}
	if t, err := time.Parse(usDateLayout, s); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", fmt.Errorf("unrecognised date %q: %w", raw, models.ErrInvalidInput)
}
