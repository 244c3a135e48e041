package money

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedCurrency = errors.New("money: unsupported currency code")

// Currency is an immutable value identified by its 3-letter code. The zero
// value is the "none" sentinel used to seed accumulators before the real
// currency is known; it never represents a valid price.
type Currency struct {
	code string
}

var (
	None = Currency{}
	USD  = Currency{code: "USD"}
	EUR  = Currency{code: "EUR"}
)

// All lists the currencies accepted by FromCode.
var All = []Currency{USD, EUR}

// FromCode resolves a currency from its code, case-insensitively.
func FromCode(code string) (Currency, error) {
	for _, c := range All {
		if strings.EqualFold(c.code, code) {
			return c, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnsupportedCurrency, code)
}

func (c Currency) Code() string { return c.code }

func (c Currency) IsNone() bool { return c == None }

// Money keeps amounts in integer minor units (cents) to avoid floating
// point issues.
type Money struct {
	Amount   int64
	Currency Currency
}

// New constructs a Money value in the given currency.
func New(amount int64, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

// Zero returns the currency-less zero. It exists only to seed accumulators
// and must never leave the package boundary as a price.
func Zero() Money {
	return Money{}
}

// ZeroIn returns a zero amount bound to the given currency.
func ZeroIn(currency Currency) Money {
	return Money{Currency: currency}
}

// Add sums two money values. Mixing currencies is a programming error, not
// a business condition, so a mismatch panics instead of returning an error.
func (m Money) Add(other Money) Money {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: cannot add %s to %s", other.describe(), m.describe()))
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Multiply scales the amount by a whole factor, preserving the currency.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// ApplyBasisPoints returns the given fraction of the amount, expressed in
// basis points (1% = 100 bps). Integer arithmetic keeps the result exact.
func (m Money) ApplyBasisPoints(bps int64) Money {
	return Money{Amount: m.Amount * bps / 10_000, Currency: m.Currency}
}

// IsZero reports whether the value equals the zero of its own currency.
func (m Money) IsZero() bool {
	return m == ZeroIn(m.Currency)
}

func (m Money) describe() string {
	code := m.Currency.code
	if code == "" {
		code = "<none>"
	}
	return fmt.Sprintf("%d %s", m.Amount, code)
}
