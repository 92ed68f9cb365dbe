/*
Package badge implements an issuer of authorization tokens.

A badge is a unique asset with a single instance. Whoever holds the handle of
a badge is allowed to act on behalf of the party the badge was minted for.
Badges cannot be duplicated: each badge type can be minted only once and a
burned badge stays burned forever. Badge types live in Namespace, which is
reserved for this package, so a badge handle cannot be forged by minting an
asset of the same type elsewhere.
*/
package badge
