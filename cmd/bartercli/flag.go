package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
)

// flHome registers the -home flag shared by all state commands.
func flHome(fl *flag.FlagSet) *string {
	return fl.String("home", defaultHome(), "Directory keeping the configuration and the state.")
}

// flAddress returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flAddress(fl *flag.FlagSet, name, defaultVal, usage string) *barter.Address {
	var a barter.Address
	if defaultVal != "" {
		var err error
		a, err = barter.ParseAddress(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q barter.Address flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&a, name, usage)
	return &a
}

// flCoin returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. This
// function follows Go's flag package convention.
// If given value cannot be deserialized to required type, process is
// terminated.
func flCoin(fl *flag.FlagSet, name, defaultVal, usage string) *coin.Coin {
	var c coin.Coin
	if defaultVal != "" {
		var err error
		c, err = coin.ParseHumanFormat(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q coin.Coin flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fl.Var(&c, name, usage)
	return &c
}

// flSeq returns a value that is being initialized with given default value
// and optionally overwritten by a command line argument if provided. The
// value is given in decimal form and stored as an encoded sequence value.
func flSeq(fl *flag.FlagSet, name, defaultVal, usage string) *[]byte {
	var b []byte
	if defaultVal != "" {
		var err error
		b, err = parseSeq(defaultVal)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot parse %q sequence flag value. %s", name, err)
			os.Exit(2)
		}
	}
	fs := flagseq{dest: &b}
	fl.Var(&fs, name, usage)
	return &b
}

type flagseq struct {
	dest *[]byte
}

func (s *flagseq) String() string {
	if s.dest == nil || len(*s.dest) == 0 {
		return ""
	}
	n, err := fromSequence(*s.dest)
	if err != nil {
		return ""
	}
	return strconv.FormatUint(n, 10)
}

func (s *flagseq) Set(raw string) error {
	b, err := parseSeq(raw)
	if err != nil {
		return err
	}
	*s.dest = b
	return nil
}

func parseSeq(raw string) ([]byte, error) {
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid sequence %q", raw)
	}
	return sequenceID(n), nil
}

// sequenceID returns a sequence value encoded as implemented in the orm
// package.
func sequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}

// fromSequence transforms given binary representation of a sequence value into
// a decimal form. fromSequence is the opposite of the sequenceID function.
func fromSequence(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Wrap(errors.ErrInput, "sequence must be 8 bytes")
	}
	return binary.BigEndian.Uint64(b), nil
}

// parseNFT parses a "<type>:<instance>" reference of a unique asset. Types
// may contain colons, the instance is what follows the last one.
func parseNFT(raw string) (escrow.Unique, error) {
	i := strings.LastIndex(raw, ":")
	if i < 0 {
		return escrow.Unique{}, errors.Wrapf(errors.ErrInput, "%q is not <type>:<instance>", raw)
	}
	id, err := asset.ParseInstanceID(raw[i+1:])
	if err != nil {
		return escrow.Unique{}, err
	}
	u := escrow.Unique{Type: asset.Type(raw[:i]), Instance: id}
	if err := u.Validate(); err != nil {
		return escrow.Unique{}, err
	}
	return u, nil
}

// assetSpec builds a specifier out of a pair of mutually exclusive flags.
// Exactly one of them must be provided.
func assetSpec(name string, amount coin.Coin, nft string) (escrow.Specifier, error) {
	switch hasCoin := !amount.IsZero() || amount.Ticker != ""; {
	case hasCoin && nft != "":
		return nil, errors.Wrapf(errors.ErrInput, "-%s and -%s-nft are mutually exclusive", name, name)
	case hasCoin:
		s := escrow.Fungible{Type: asset.Type(amount.Ticker), Amount: amount}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return s, nil
	case nft != "":
		return parseNFT(nft)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "one of -%s or -%s-nft is required", name, name)
	}
}
