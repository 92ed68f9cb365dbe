package escrow

import (
	"github.com/iov-one/barter"
	"github.com/iov-one/barter/codec"
	"github.com/iov-one/barter/errors"
	"github.com/iov-one/barter/gconf"
)

const (
	confPackage = "escrow"

	// DefaultBadgeName is used as the badge name when no configuration
	// is stored.
	DefaultBadgeName = "escrow badge"
)

// Configuration of the escrow extension.
type Configuration struct {
	Metadata *barter.Metadata `json:"metadata" yaml:"-"`
	// BadgeName is the human readable name attached to every minted badge.
	BadgeName string `json:"badge_name" yaml:"badge_name"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, c)
}

func (c *Configuration) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if c.BadgeName == "" {
		return errors.Wrap(errors.ErrEmpty, "badge name")
	}
	if len(c.BadgeName) > 128 {
		return errors.Wrap(errors.ErrInput, "badge name too long")
	}
	return nil
}

// SaveConfiguration validates and stores the escrow configuration.
func SaveConfiguration(db gconf.Store, c Configuration) error {
	if c.Metadata == nil {
		c.Metadata = &barter.Metadata{Schema: 1}
	}
	return gconf.Save(db, confPackage, &c)
}

// loadConf returns the stored configuration or the defaults if none was
// saved.
func loadConf(db gconf.ReadStore) (Configuration, error) {
	var conf Configuration
	switch err := gconf.Load(db, confPackage, &conf); {
	case err == nil:
		return conf, nil
	case errors.ErrNotFound.Is(err):
		return Configuration{
			Metadata:  &barter.Metadata{Schema: 1},
			BadgeName: DefaultBadgeName,
		}, nil
	default:
		return conf, errors.Wrap(err, "load configuration")
	}
}
