/*
Package asset implements the primitives used to move value around: asset
types, handles and vaults.

A Handle is an in-memory, non-duplicable reference to either a fungible
quantity of a single type or a set of unique instances of a single type.
Handles cannot be constructed by hand. They are produced by an issuer (Mint,
MintInstances) or taken out of a Vault. Depositing a handle into a vault
drains it, so that the same value cannot be deposited twice. Copying a
Handle value does not copy the content: all copies share it.

Reserve gives a package the exclusive right to mint the types of a
namespace. Mint and MintInstances refuse those types, so handles of a
reserved type can only originate from the returned Minter.

A Vault is a persisted container bound to a single asset type and kind. It
is embedded in the models that hold custody of assets.
*/
package asset
