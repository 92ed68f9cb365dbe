/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package owns a single configuration entity, stored under the
"_c:<package>" key. Configuration is written once, usually when the state is
initialized from a genesis file, and loaded by the package whenever it needs
it. A package that can run without configuration should treat ErrNotFound
returned by Load as a request to use its defaults.
*/
package gconf
