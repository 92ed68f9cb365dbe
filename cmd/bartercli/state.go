package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/barter"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/store/iavl"
	"github.com/iov-one/barter/x/badge"
	"github.com/iov-one/barter/x/escrow"
	"github.com/iov-one/barter/x/wallet"
)

// app binds the state kept in a home directory with the controllers that
// operate on it.
type app struct {
	conf    Config
	logger  log.Logger
	store   *iavl.CommitStore
	escrows *escrow.Controller
	wallets *wallet.Controller
}

// openApp loads the configuration and the latest committed state of given
// home directory.
func openApp(home string) (*app, error) {
	conf, err := loadConfig(home)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(conf)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(home, "data")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "cannot create %s: %s", dir, err)
	}
	st, err := iavl.NewCommitStore(dir, "barter")
	if err != nil {
		return nil, err
	}
	if err := st.LoadLatestVersion(); err != nil {
		st.Close()
		return nil, err
	}
	return &app{
		conf:    conf,
		logger:  logger,
		store:   st,
		escrows: escrow.NewController(badge.NewIssuer(), nil),
		wallets: wallet.NewController(),
	}, nil
}

// tx runs fn as a single transaction. All changes are committed if fn
// succeeds and none otherwise.
func (a *app) tx(fn func(ctx context.Context, db barter.CacheableKVStore) error) error {
	ctx := barter.WithLogger(context.Background(), a.logger)
	cache := a.store.CacheWrap()
	if err := fn(ctx, cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "cannot write")
	}
	id, err := a.store.Commit()
	if err != nil {
		return err
	}
	a.logger.Debug("state committed", "version", id.Version)
	return nil
}

// view returns a read only access to the committed state.
func (a *app) view() barter.ReadOnlyKVStore {
	return a.store.Adapter()
}

func (a *app) Close() {
	a.store.Close()
}

// addr formats an address using the configured prefix.
func (a *app) addr(addr barter.Address) string {
	return addr.Bech32(a.conf.AddressPrefix)
}
