/*
Package wallet keeps the holdings of addresses.

A wallet is where assets rest between swaps. Taking from a wallet produces a
handle that can be passed to the escrow controller, and every handle an
escrow operation returns is put back into a wallet.
*/
package wallet
