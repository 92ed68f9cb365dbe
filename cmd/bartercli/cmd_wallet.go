package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/x/wallet"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Initialize the state with wallets declared in a YAML genesis file. Use "-" to
read the genesis from the standard input.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl    = flHome(fl)
		genesisFl = fl.String("genesis", "genesis.yml", "Path to the genesis file.")
	)
	fl.Parse(args)

	g, err := readGenesis(input, *genesisFl)
	if err != nil {
		return err
	}

	a, err := openApp(*homeFl)
	if err != nil {
		return err
	}
	defer a.Close()

	if v, err := a.store.LatestVersion(); err != nil {
		return err
	} else if v.Version != 0 {
		return errors.Wrapf(errors.ErrState, "%s is already initialized", *homeFl)
	}

	err = a.tx(func(ctx context.Context, db barter.CacheableKVStore) error {
		return a.wallets.FromGenesis(db, g)
	})
	if err != nil {
		return errors.Wrap(err, "genesis")
	}
	fmt.Fprintf(output, "initialized %d wallets\n", len(g.Wallets))
	return nil
}

func readGenesis(input io.Reader, path string) (*wallet.Genesis, error) {
	if path == "-" {
		return wallet.ReadGenesis(input)
	}
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot open genesis: %s", err)
	}
	defer fd.Close()
	return wallet.ReadGenesis(fd)
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print all assets held by given address.
		`)
		fl.PrintDefaults()
	}
	var (
		homeFl = flHome(fl)
		addrFl = flAddress(fl, "addr", "", "Address of the wallet owner.")
	)
	fl.Parse(args)

	if err := addrFl.Validate(); err != nil {
		return errors.Field("addr", err, "invalid flag")
	}

	a, err := openApp(*homeFl)
	if err != nil {
		return err
	}
	defer a.Close()

	holdings, err := a.wallets.Balance(a.view(), *addrFl)
	if err != nil {
		return err
	}
	fmt.Fprintln(output, a.addr(*addrFl))
	for i := range holdings {
		fmt.Fprintf(output, "\t%s\n", holdings[i].String())
	}
	return nil
}
