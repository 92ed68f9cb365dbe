package barter

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/barter/crypto/bech32"
	"github.com/iov-one/barter/errors"
)

var (
	// AddressLength is the length of all addresses.
	// It must not change during the lifetime of the kvstore.
	AddressLength = 20

	// it must have (?s) flags, otherwise it errors when last section contains 0x20 (newline)
	perm = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition is a specially formatted array, containing
// information on who owns a resource.
// It is of the format:
//
//   sprintf("%s/%s/%s", extension, type, data)
//
// Escrows hold their deposits under the address of the
// escrow/seq/<id> condition.
type Condition []byte

// NewCondition builds a condition out of its three sections.
func NewCondition(ext, typ string, data []byte) Condition {
	pre := fmt.Sprintf("%s/%s/", ext, typ)
	return append([]byte(pre), data...)
}

// Parse will extract the sections from the Condition bytes
// and verify it is properly formatted
func (c Condition) Parse() (string, string, []byte, error) {
	chunks := perm.FindSubmatch(c)
	if len(chunks) == 0 {
		return "", "", nil, errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	// returns [all, match1, match2, match3]
	return string(chunks[1]), string(chunks[2]), chunks[3], nil
}

// Address will convert a Condition into an Address
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals checks if two conditions are the same
func (c Condition) Equals(o Condition) bool {
	return bytes.Equal(c, o)
}

// String returns a human readable string.
// We keep the extension and type in ascii and
// hex-encode the binary data
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the Condition is not the proper format
func (c Condition) Validate() error {
	if !perm.Match(c) {
		return errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return nil
}

// parseCondition reads the human readable form produced by String.
func parseCondition(source string) (Condition, error) {
	args := strings.Split(source, "/")
	if len(args) != 3 {
		return nil, errors.ErrInput.New("invalid condition format")
	}
	data, err := hex.DecodeString(args[2])
	if err != nil {
		return nil, errors.ErrInput.Newf("malformed condition data: %s", err)
	}
	c := NewCondition(args[0], args[1], data)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Address represents a collision-free, one-way digest
// of a Condition
//
// It will be of size AddressLength
type Address []byte

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// MarshalJSON provides a hex representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(a))
	return json.Marshal(s)
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(errors.ErrInput, "cannot decode json")
	}
	if len(enc) == 0 {
		*a = nil
		return nil
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// Set updates the value of the address, using any format accepted by
// ParseAddress. It implements the flag.Value interface.
func (a *Address) Set(enc string) error {
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address from its human readable form. An optional
// prefix selects the format:
//
//   hex:<hex>          raw address bytes
//   bech32:<bech32>    bech32 encoded address, any human readable part
//   cond:<ext/typ/hex> address of the given condition
//
// Without a prefix the value is decoded as bech32 first and as hex if that
// fails.
func ParseAddress(enc string) (Address, error) {
	format := ""
	if chunks := strings.SplitN(enc, ":", 2); len(chunks) == 2 {
		format, enc = chunks[0], chunks[1]
	}
	if len(enc) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "address")
	}

	switch format {
	case "hex":
		return parseHexAddress(enc)
	case "bech32":
		return parseBech32Address(enc)
	case "cond":
		c, err := parseCondition(enc)
		if err != nil {
			return nil, err
		}
		return c.Address(), nil
	case "":
		if addr, err := parseBech32Address(enc); err == nil {
			return addr, nil
		}
		return parseHexAddress(enc)
	default:
		return nil, errors.ErrType.Newf("unknown format %q", format)
	}
}

func parseHexAddress(enc string) (Address, error) {
	val, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
	}
	addr := Address(val)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func parseBech32Address(enc string) (Address, error) {
	_, payload, err := bech32.Decode(enc)
	if err != nil {
		return nil, errors.Wrap(err, "deserialize bech32")
	}
	addr := Address(payload)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

// String returns a human readable string.
// Addresses are hex encoded, use Bech32 for a prefixed form.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 returns the bech32 representation of this address using given
// human readable part. It falls back to String if the encoding fails.
func (a Address) Bech32(hrp string) string {
	if len(a) == 0 {
		return a.String()
	}
	raw, err := bech32.Encode(hrp, a)
	if err != nil {
		return a.String()
	}
	return string(raw)
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address: %v", a)
	}
	return nil
}

// NewAddress hashes and truncates into the proper size
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}
