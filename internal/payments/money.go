package payments

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hafiz229/doctors-portal-server/internal/models"
	"github.com/shopspring/decimal"
)

// MaxAmount is the largest charge accepted, in minor units.
const MaxAmount = 99_999_999

// exponents lists ISO 4217 currencies whose minor unit is not 1/100.
var exponents = map[string]int32{
	"bif": 0, "clp": 0, "djf": 0, "gnf": 0, "jpy": 0, "kmf": 0, "krw": 0, "mga": 0,
	"pyg": 0, "rwf": 0, "ugx": 0, "vnd": 0, "vuv": 0, "xaf": 0, "xof": 0, "xpf": 0,
	"bhd": 3, "jod": 3, "kwd": 3, "omr": 3, "tnd": 3,
}

// Exponent returns the number of minor-unit digits of currency.
func Exponent(currency string) int32 {
	if e, ok := exponents[strings.ToLower(currency)]; ok {
		return e
	}
	return 2
}

// ToMinorUnits converts a decimal price into an integer amount of the
// currency's minor unit, rounding half away from zero.
func ToMinorUnits(price json.Number, currency string) (int64, error) {
	s := strings.TrimSpace(price.String())
	if s == "" {
		return 0, fmt.Errorf("price is required: %w", models.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number: %w", s, models.ErrInvalidInput)
	}
	minor := d.Shift(Exponent(currency)).Round(0)
	if !minor.IsPositive() {
		return 0, fmt.Errorf("price %s must be positive: %w", s, models.ErrInvalidInput)
	}
	if minor.GreaterThan(decimal.NewFromInt(MaxAmount)) {
		return 0, fmt.Errorf("price %s exceeds the maximum charge: %w", s, models.ErrInvalidInput)
	}
	return minor.IntPart(), nil
}
