/*
Package escrow implements a two party escrow that swaps assets without a
trusted intermediary.

A depositor offers an asset and declares exactly what is wanted in return.
Anyone can pay the requested asset once and immediately receives the offered
one. The depositor holds a badge that authorizes collecting the payment or,
as long as nobody paid, cancelling the escrow and taking the offer back.

	Created --exchange--> Exchanged --withdraw--> Withdrawn
	Created --cancel----> Cancelled

Every other transition fails and leaves the escrow untouched.
*/
package escrow
