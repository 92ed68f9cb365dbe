package coin

import (
	"regexp"

	"github.com/iov-one/barter/errors"
)

// IsCC returns true if s is a valid ticker: three or four upper case letters.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Range of the two parts of a coin. A coin holds 10^15-1 whole units at
// most, each divisible in 10^9 fractional units.
const (
	MaxInt int64 = 999999999999999
	MinInt       = -MaxInt

	FracUnit int64 = 1000000000
	MaxFrac        = FracUnit - 1
	MinFrac        = -MaxFrac

	fracDigits = 9
)

// Coin is a fungible quantity of a single currency. The value is
// Whole + Fractional/FracUnit. For a normalized coin both parts carry the
// same sign.
type Coin struct {
	Whole      int64  `json:"whole"`
	Fractional int64  `json:"fractional"`
	Ticker     string `json:"ticker"`
}

func NewCoin(whole int64, fractional int64, ticker string) Coin {
	return Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
}

// Add returns the normalized sum of both coins. ErrCurrency is returned for
// coins of different tickers, ErrOverflow if the sum is out of range. The
// zero Coin, without a ticker, can be added to any coin.
func (c Coin) Add(o Coin) (Coin, error) {
	switch {
	case c.Ticker == "" && c.IsZero():
		return o, nil
	case o.Ticker == "" && o.IsZero():
		return c, nil
	case !c.SameType(o):
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "adding %s to %s", o.Ticker, c.Ticker)
	}
	return NewCoin(c.Whole+o.Whole, c.Fractional+o.Fractional, c.Ticker).normalize()
}

// Subtract returns c less amount, under the same rules as Add.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(NewCoin(-amount.Whole, -amount.Fractional, amount.Ticker))
}

// Compare returns 1 if c is greater than o, -1 if it is smaller and 0 if
// both are equal. Tickers are ignored and both coins must be normalized.
func (c Coin) Compare(o Coin) int {
	if c.Whole != o.Whole {
		return sign(c.Whole - o.Whole)
	}
	return sign(c.Fractional - o.Fractional)
}

func sign(n int64) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}

// Equals returns true if both coins have the same ticker and parts.
func (c Coin) Equals(o Coin) bool {
	return c == o
}

func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

func (c Coin) IsPositive() bool {
	return c.Compare(Coin{}) > 0
}

// IsGTE returns true if c has the ticker of o and is at least as much.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Compare(o) >= 0
}

// SameType returns true if both coins have the same ticker.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Validate checks the ticker, the range of both parts and that their signs
// match. Negative coins are valid.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.Append(err, errors.Wrapf(errors.ErrCurrency, "invalid currency: %s", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "whole"))
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.Append(err, errors.Wrap(errors.ErrOverflow, "fractional"))
	}
	if sign(c.Whole)*sign(c.Fractional) < 0 {
		err = errors.Append(err, errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// normalize carries the fractional part over to the whole one, until it is
// within range and of the same sign.
func (c Coin) normalize() (Coin, error) {
	c.Whole += c.Fractional / FracUnit
	c.Fractional %= FracUnit
	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole--
		c.Fractional += FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole++
		c.Fractional -= FracUnit
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "%d whole units", c.Whole)
	}
	return c, nil
}
