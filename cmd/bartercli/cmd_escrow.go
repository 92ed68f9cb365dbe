package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/badge"
	"github.com/iov-one/barter/x/escrow"
)

func cmdCreateEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Create an escrow offering an asset taken from the wallet of the depositor. The
badge authorizing withdrawal or cancellation is put into the same wallet.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl     = flHome(fl)
		fromFl     = flAddress(fl, "from", "", "Address of the depositor.")
		offerFl    = flCoin(fl, "offer", "", "Fungible amount offered, for example \"10 BBB\".")
		offerNftFl = fl.String("offer-nft", "", "Unique asset offered as <type>:<instance>.")
		wantFl     = flCoin(fl, "want", "", "Fungible amount requested in exchange.")
		wantNftFl  = fl.String("want-nft", "", "Unique asset requested in exchange as <type>:<instance>.")
	)
	fl.Parse(args)

	if err := fromFl.Validate(); err != nil {
		return errors.Field("from", err, "invalid flag")
	}
	offered, err := assetSpec("offer", *offerFl, *offerNftFl)
	if err != nil {
		return err
	}
	requested, err := assetSpec("want", *wantFl, *wantNftFl)
	if err != nil {
		return err
	}

	a, err := openApp(*homeFl)
	if err != nil {
		return err
	}
	defer a.Close()

	var id []byte
	err = a.tx(func(ctx context.Context, db barter.CacheableKVStore) error {
		deposit, err := a.wallets.Take(db, *fromFl, offered)
		if err != nil {
			return errors.Wrap(err, "depositor")
		}
		key, token, err := a.escrows.Create(ctx, db, requested, deposit)
		if err != nil {
			return err
		}
		id = key
		return a.wallets.Put(db, *fromFl, token)
	})
	if err != nil {
		return err
	}
	n, _ := fromSequence(id)
	fmt.Fprintf(output, "escrow %d created, badge %s\n", n, escrow.BadgeType(id))
	return nil
}

func cmdExchange(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Pay the asset requested by an escrow and receive the offer. The payment is
taken from and the offer is put into the wallet of the payer.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		escrowFl = flSeq(fl, "escrow", "", "ID of the escrow.")
		fromFl   = flAddress(fl, "from", "", "Address of the payer.")
	)
	fl.Parse(args)

	if len(*escrowFl) == 0 {
		return errors.Field("escrow", errors.ErrEmpty, "flag required")
	}
	if err := fromFl.Validate(); err != nil {
		return errors.Field("from", err, "invalid flag")
	}

	a, err := openApp(*homeFl)
	if err != nil {
		return err
	}
	defer a.Close()

	var received string
	err = a.tx(func(ctx context.Context, db barter.CacheableKVStore) error {
		esc, err := a.escrows.Get(db, *escrowFl)
		if err != nil {
			return err
		}
		payment, err := a.wallets.Take(db, *fromFl, esc.Requested)
		if err != nil {
			return errors.Wrap(err, "payer")
		}
		offer, err := a.escrows.Exchange(ctx, db, *escrowFl, payment)
		if err != nil {
			return err
		}
		received = offer.String()
		return a.wallets.Put(db, *fromFl, offer)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "received %s\n", received)
	return nil
}

func cmdWithdraw(input io.Reader, output io.Writer, args []string) error {
	return settle(output, args, "withdraw", `
Collect the payment of an exchanged escrow. The badge is taken from and the
payment is put into the wallet of the depositor.
	`)
}

func cmdCancel(input io.Reader, output io.Writer, args []string) error {
	return settle(output, args, "cancel", `
Cancel an escrow that nobody paid yet and take the offer back. The badge is
taken from and the offer is put into the wallet of the depositor.
	`)
}

// settle implements both badge authorized operations.
func settle(output io.Writer, args []string, op, usage string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), usage)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		escrowFl = flSeq(fl, "escrow", "", "ID of the escrow.")
		fromFl   = flAddress(fl, "from", "", "Address of the badge holder.")
	)
	fl.Parse(args)

	if len(*escrowFl) == 0 {
		return errors.Field("escrow", errors.ErrEmpty, "flag required")
	}
	if err := fromFl.Validate(); err != nil {
		return errors.Field("from", err, "invalid flag")
	}

	a, err := openApp(*homeFl)
	if err != nil {
		return err
	}
	defer a.Close()

	run := a.escrows.Withdraw
	if op == "cancel" {
		run = a.escrows.Cancel
	}

	var received string
	err = a.tx(func(ctx context.Context, db barter.CacheableKVStore) error {
		token, err := a.wallets.TakeInstances(db, *fromFl, escrow.BadgeType(*escrowFl), badge.DefaultID)
		if err != nil {
			return errors.Wrap(err, "badge")
		}
		got, err := run(ctx, db, *escrowFl, token)
		if err != nil {
			return err
		}
		received = got.String()
		return a.wallets.Put(db, *fromFl, got)
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(output, "received %s\n", received)
	return nil
}

func cmdShowEscrow(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the state of an escrow as JSON.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl   = flHome(fl)
		escrowFl = flSeq(fl, "escrow", "", "ID of the escrow.")
	)
	fl.Parse(args)

	if len(*escrowFl) == 0 {
		return errors.Field("escrow", errors.ErrEmpty, "flag required")
	}

	a, err := openApp(*homeFl)
	if err != nil {
		return err
	}
	defer a.Close()

	esc, err := a.escrows.Get(a.view(), *escrowFl)
	if err != nil {
		return err
	}
	return writeJSON(output, newEscrowView(a, *escrowFl, esc))
}

func cmdListEscrows(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print all escrows as JSON, in the order of creation.
		`)
		fl.PrintDefaults()
	}
	homeFl := flHome(fl)
	fl.Parse(args)

	a, err := openApp(*homeFl)
	if err != nil {
		return err
	}
	defer a.Close()

	views := []escrowView{}
	err = a.escrows.All(a.view(), func(id []byte, e *escrow.Escrow) error {
		views = append(views, newEscrowView(a, id, e))
		return nil
	})
	if err != nil {
		return err
	}
	return writeJSON(output, views)
}

// escrowView is the presentation of an escrow.
type escrowView struct {
	ID        uint64 `json:"id"`
	State     string `json:"state"`
	Requested string `json:"requested"`
	Offered   string `json:"offered"`
	Received  string `json:"received"`
	Badge     string `json:"badge"`
	Address   string `json:"address"`
}

func newEscrowView(a *app, id []byte, e *escrow.Escrow) escrowView {
	n, _ := fromSequence(id)
	return escrowView{
		ID:        n,
		State:     e.State.String(),
		Requested: e.Requested.String(),
		Offered:   e.Offered.String(),
		Received:  e.Received.String(),
		Badge:     string(e.BadgeType),
		Address:   a.addr(e.Address),
	}
}

func writeJSON(output io.Writer, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "\t")
	if err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	_, err = fmt.Fprintln(output, string(raw))
	return err
}
