package primitives

import (
	"fmt"

	fssz "github.com/ferranbt/fastssz"
)

var _ fssz.HashRoot = (Epoch)(0)
var _ fssz.Marshaler = (*Epoch)(nil)
var _ fssz.Unmarshaler = (*Epoch)(nil)

// Epoch represents a single epoch.
type Epoch uint64

// Add increases epoch by x.
func (e Epoch) Add(x uint64) Epoch {
	return e + Epoch(x)
}

// Sub subtracts x from the epoch. It panics on underflow.
func (e Epoch) Sub(x uint64) Epoch {
	if uint64(e) < x {
		panic(fmt.Sprintf("epoch underflow: %d - %d", e, x))
	}
	return e - Epoch(x)
}

// Mul multiplies the epoch by x.
func (e Epoch) Mul(x uint64) Epoch {
	return e * Epoch(x)
}

// HashTreeRoot returns calculated hash root.
func (e Epoch) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(e)
}

// HashTreeRootWith returns the hash root using the provided hasher.
func (e Epoch) HashTreeRootWith(hh *fssz.Hasher) error {
	hh.PutUint64(uint64(e))
	return nil
}

// UnmarshalSSZ deserializes the provided bytes buffer into the epoch object.
func (e *Epoch) UnmarshalSSZ(buf []byte) error {
	if len(buf) != e.SizeSSZ() {
		return fmt.Errorf("expected buffer of length %d received %d", e.SizeSSZ(), len(buf))
	}
	*e = Epoch(fssz.UnmarshallUint64(buf))
	return nil
}

// MarshalSSZTo marshals epoch with the provided byte slice.
func (e *Epoch) MarshalSSZTo(dst []byte) ([]byte, error) {
	return fssz.MarshalUint64(dst, uint64(*e)), nil
}

// MarshalSSZ marshals epoch into a serialized object.
func (e *Epoch) MarshalSSZ() ([]byte, error) {
	return fssz.MarshalUint64([]byte{}, uint64(*e)), nil
}

// SizeSSZ returns the size of the serialized object.
func (e *Epoch) SizeSSZ() int {
	return 8
}
