package barter

import "github.com/iov-one/barter/errors"

// Metadata is embedded in every persisted model. Schema declares the version
// of the model serialization and must be at least 1.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the schema version is not declared.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a copy of the metadata, to be used by the Copy method of
// models embedding it.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}
