package main

import (
	"flag"
	"testing"

	"github.com/iov-one/barter/asset"
	"github.com/iov-one/barter/bartertest/assert"
	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/escrow"
)

func TestSequenceFlag(t *testing.T) {
	fl := flag.NewFlagSet("", flag.ContinueOnError)
	seq := flSeq(fl, "escrow", "", "")
	assert.Nil(t, fl.Parse([]string{"-escrow", "258"}))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 1, 2}, *seq)

	n, err := fromSequence(*seq)
	assert.Nil(t, err)
	assert.Equal(t, uint64(258), n)

	_, err = fromSequence([]byte{1})
	assert.IsErr(t, errors.ErrInput, err)
	_, err = parseSeq("-1")
	assert.IsErr(t, errors.ErrInput, err)
}

func TestParseNFT(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    escrow.Unique
		wantErr *errors.Error
	}{
		"simple": {
			raw:  "cats:7",
			want: escrow.Unique{Type: "cats", Instance: 7},
		},
		"type with colons": {
			raw:  "nft:cats:12",
			want: escrow.Unique{Type: "nft:cats", Instance: 12},
		},
		"missing instance": {
			raw:     "cats",
			wantErr: errors.ErrInput,
		},
		"invalid instance": {
			raw:     "cats:seven",
			wantErr: errors.ErrInput,
		},
		"invalid type": {
			raw:     "c:1",
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := parseNFT(tc.raw)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestAssetSpec(t *testing.T) {
	s, err := assetSpec("want", coin.NewCoin(5, 0, "AAA"), "")
	assert.Nil(t, err)
	assert.Equal(t, escrow.Fungible{Type: "AAA", Amount: coin.NewCoin(5, 0, "AAA")}, s)

	s, err = assetSpec("want", coin.Coin{}, "cats:1")
	assert.Nil(t, err)
	assert.Equal(t, escrow.Unique{Type: "cats", Instance: 1}, s)
	assert.Equal(t, "cats:1", s.String())

	_, err = assetSpec("want", coin.NewCoin(5, 0, "AAA"), "cats:1")
	assert.IsErr(t, errors.ErrInput, err)
	_, err = assetSpec("want", coin.Coin{}, "")
	assert.IsErr(t, errors.ErrInput, err)
	_, err = assetSpec("want", coin.NewCoin(0, 0, "AAA"), "")
	assert.FieldError(t, err, "Amount", errors.ErrAmount)
	assert.Equal(t, asset.Type("cats"), escrow.Unique{Type: "cats"}.AssetType())
}
