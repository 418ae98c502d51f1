package primitives

import (
	"fmt"

	fssz "github.com/ferranbt/fastssz"
)

var _ fssz.HashRoot = (Slot)(0)
var _ fssz.Marshaler = (*Slot)(nil)
var _ fssz.Unmarshaler = (*Slot)(nil)

// Slot represents a single slot.
type Slot uint64

// Add increases slot by x.
func (s Slot) Add(x uint64) Slot {
	return s + Slot(x)
}

// AddSlot increases slot by another slot.
func (s Slot) AddSlot(x Slot) Slot {
	return s + x
}

// Sub subtracts x from the slot. It panics on underflow, use SafeSub when the
// operands are not known to be ordered.
func (s Slot) Sub(x uint64) Slot {
	if uint64(s) < x {
		panic(fmt.Sprintf("slot underflow: %d - %d", s, x))
	}
	return s - Slot(x)
}

// SafeSub subtracts x from the slot, returning an error on underflow.
func (s Slot) SafeSub(x uint64) (Slot, error) {
	if uint64(s) < x {
		return 0, fmt.Errorf("slot underflow: %d - %d", s, x)
	}
	return s - Slot(x), nil
}

// SubSaturating subtracts x from the slot, flooring at zero.
func (s Slot) SubSaturating(x uint64) Slot {
	if uint64(s) < x {
		return 0
	}
	return s - Slot(x)
}

// Mod returns the remainder of the slot divided by x.
func (s Slot) Mod(x uint64) Slot {
	return s % Slot(x)
}

// Div divides the slot by x.
func (s Slot) Div(x uint64) Slot {
	if x == 0 {
		panic("division by zero")
	}
	return s / Slot(x)
}

// Mul multiplies the slot by x.
func (s Slot) Mul(x uint64) Slot {
	return s * Slot(x)
}

// HashTreeRoot returns calculated hash root.
func (s Slot) HashTreeRoot() ([32]byte, error) {
	return fssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith returns the hash root using the provided hasher.
func (s Slot) HashTreeRootWith(hh *fssz.Hasher) error {
	hh.PutUint64(uint64(s))
	return nil
}

// UnmarshalSSZ deserializes the provided bytes buffer into the slot object.
func (s *Slot) UnmarshalSSZ(buf []byte) error {
	if len(buf) != s.SizeSSZ() {
		return fmt.Errorf("expected buffer of length %d received %d", s.SizeSSZ(), len(buf))
	}
	*s = Slot(fssz.UnmarshallUint64(buf))
	return nil
}

// MarshalSSZTo marshals slot with the provided byte slice.
func (s *Slot) MarshalSSZTo(dst []byte) ([]byte, error) {
	marshalled, err := s.MarshalSSZ()
	if err != nil {
		return nil, err
	}
	return append(dst, marshalled...), nil
}

// MarshalSSZ marshals slot into a serialized object.
func (s *Slot) MarshalSSZ() ([]byte, error) {
	marshalled := fssz.MarshalUint64([]byte{}, uint64(*s))
	return marshalled, nil
}

// SizeSSZ returns the size of the serialized object.
func (s *Slot) SizeSSZ() int {
	return 8
}
