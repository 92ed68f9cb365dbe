package asset

import (
	"fmt"
	"strings"
	"sync"

	"github.com/iov-one/barter/coin"
	"github.com/iov-one/barter/errors"
)

var (
	reservedMu sync.RWMutex
	reserved   []*Minter
)

// Minter is the only source of new assets whose type belongs to its
// namespace. Mint and MintInstances refuse such types.
type Minter struct {
	namespace string
}

// Reserve grants the exclusive right to mint assets of every type that starts
// with given namespace. It panics if the namespace is empty or overlaps with
// one reserved before.
//
// Use this function only during a program startup phase, and keep the
// returned Minter private to the package that owns the namespace.
func Reserve(namespace string) *Minter {
	if namespace == "" {
		panic("asset: empty namespace")
	}
	reservedMu.Lock()
	defer reservedMu.Unlock()
	for _, m := range reserved {
		if strings.HasPrefix(namespace, m.namespace) || strings.HasPrefix(m.namespace, namespace) {
			panic(fmt.Sprintf("asset: namespace %q overlaps with reserved %q", namespace, m.namespace))
		}
	}
	m := &Minter{namespace: namespace}
	reserved = append(reserved, m)
	return m
}

// reservedBy returns the minter owning the namespace of given type, or nil.
func reservedBy(t Type) *Minter {
	reservedMu.RLock()
	defer reservedMu.RUnlock()
	for _, m := range reserved {
		if strings.HasPrefix(string(t), m.namespace) {
			return m
		}
	}
	return nil
}

// Namespace returns the type prefix owned by the minter.
func (m *Minter) Namespace() string {
	return m.namespace
}

// Mint creates a handle holding a fungible amount of a type from the
// minter's namespace.
func (m *Minter) Mint(t Type, amount coin.Coin) (*Handle, error) {
	if err := m.owns(t); err != nil {
		return nil, err
	}
	return mint(t, amount)
}

// MintInstances creates a handle holding new unique instances of a type from
// the minter's namespace.
func (m *Minter) MintInstances(t Type, ids ...InstanceID) (*Handle, error) {
	if err := m.owns(t); err != nil {
		return nil, err
	}
	return mintInstances(t, ids)
}

func (m *Minter) owns(t Type) error {
	if !strings.HasPrefix(string(t), m.namespace) {
		return errors.Wrapf(errors.ErrUnauthorized, "type %s is outside of %s", t, m.namespace)
	}
	return nil
}
