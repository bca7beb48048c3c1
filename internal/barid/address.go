package barid

import "fmt"

// Address is the structured identity of one live bar instance: which
// definition it came from, what that definition contained, and which
// monitor it is bound to.
type Address struct {
	Index       int
	Fingerprint string
	Monitor     string
}

// New builds an Address from its three components.
func New(index int, fingerprint, monitor string) Address {
	return Address{Index: index, Fingerprint: fingerprint, Monitor: monitor}
}

// SpecID is the monitor-independent part of the address, identifying the
// resolved spec the instance was created from.
func (a Address) SpecID() string {
	return fmt.Sprintf("bar[%d].%s", a.Index, a.Fingerprint)
}

// String serializes the Address into its canonical string representation.
func (a Address) String() string {
	return fmt.Sprintf("bar[%d].%s@%s", a.Index, a.Fingerprint, a.Monitor)
}

// Equal reports whether two addresses identify the same instance.
func (a Address) Equal(other Address) bool {
	return a == other
}
