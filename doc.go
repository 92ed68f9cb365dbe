/*
Package barter defines the interfaces shared by all subpackages: storage,
persistence, addresses and the context carried between them. It also contains
implementations of some of the simpler components, where an interface would be
too much overhead.

The escrow logic lives in x/escrow. The asset primitives it trades (handles and
vaults) live in package asset. Persistence is done through orm buckets on top
of any KVStore declared here, most notably the btree cache-wrap from package
store and the iavl commit store from store/iavl.
*/
package barter
