/*
Package barid provides a structured, type-safe representation for bar
instance identifiers, based on the canonical format
`bar[<index>].<fingerprint>@<monitor>`.

Index is the declaration index of the bar definition, fingerprint is the
stable hash of the definition's own content, and monitor is the compositor
name of the output the instance is bound to. Two reconciliation passes
produce the same address exactly when the definition content, its position
in the list, and the monitor binding are all unchanged. That is the
identity rule that keeps untouched bars alive across reloads.

The package enforces the identifier schema and centralizes all formatting
and parsing logic.
*/
package barid
