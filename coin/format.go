package coin

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/iov-one/barter/errors"
)

// String returns the coin in the format read by ParseHumanFormat, for
// example "-1.05 IOV". Trailing fractional zeros are omitted.
func (c Coin) String() string {
	if n, err := c.normalize(); err == nil {
		c = n
	}

	var b strings.Builder
	if c.Whole == 0 && c.Fractional < 0 {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(c.Whole, 10))
	if f := c.Fractional; f != 0 {
		if f < 0 {
			f = -f
		}
		digits := strconv.FormatInt(f, 10)
		digits = strings.Repeat("0", fracDigits-len(digits)) + digits
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(digits, "0"))
	}
	if c.Ticker != "" {
		b.WriteByte(' ')
		b.WriteString(c.Ticker)
	}
	return b.String()
}

var humanFormat = regexp.MustCompile(`^(\-?)\s*(\d+)(?:\.(\d{1,9}))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat reads a coin written as "<whole>[.<fractional>] <ticker>",
// with at most nine fractional digits.
func ParseHumanFormat(h string) (Coin, error) {
	m := humanFormat.FindStringSubmatch(strings.TrimSpace(h))
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	negative, wholeDigits, fracDigitsRaw, ticker := m[1] == "-", m[2], m[3], m[4]

	whole, err := strconv.ParseInt(wholeDigits, 10, 64)
	if err != nil || whole > MaxInt {
		return Coin{}, errors.Wrapf(errors.ErrOverflow, "whole value %s", wholeDigits)
	}
	var frac int64
	if fracDigitsRaw != "" {
		padded := fracDigitsRaw + strings.Repeat("0", fracDigits-len(fracDigitsRaw))
		if frac, err = strconv.ParseInt(padded, 10, 64); err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInput, "fractional value %s", fracDigitsRaw)
		}
	}
	if negative {
		whole, frac = -whole, -frac
	}
	return NewCoin(whole, frac, ticker), nil
}

// Set implements flag.Value.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// UnmarshalJSON accepts both the human readable string format and an
// object with whole, fractional and ticker attributes.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		return c.Set(human)
	}

	// A named type without methods, so that decoding does not recurse.
	type plain Coin
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin(p)
	return nil
}

// UnmarshalYAML accepts the human readable string format only.
func (c *Coin) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var human string
	if err := unmarshal(&human); err != nil {
		return errors.Wrap(errors.ErrInput, "coin must be a string")
	}
	return c.Set(human)
}
