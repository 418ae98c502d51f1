package eth

import (
	"errors"

	ssz "github.com/ferranbt/fastssz"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

// The methods in this file are hand-written SSZ codecs for the fixed size containers.

var errInvalidBool = errors.New("ssz boolean must be 0 or 1")

// MarshalSSZ ssz marshals the Checkpoint object
func (c *Checkpoint) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(c)
}

// MarshalSSZTo ssz marshals the Checkpoint object to a target array
func (c *Checkpoint) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	dst = ssz.MarshalUint64(dst, uint64(c.Epoch))
	dst = append(dst, c.Root[:]...)
	return
}

// UnmarshalSSZ ssz unmarshals the Checkpoint object
func (c *Checkpoint) UnmarshalSSZ(buf []byte) error {
	if len(buf) != 40 {
		return ssz.ErrSize
	}
	c.Epoch = primitives.Epoch(ssz.UnmarshallUint64(buf[0:8]))
	copy(c.Root[:], buf[8:40])
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the Checkpoint object
func (c *Checkpoint) SizeSSZ() int {
	return 40
}

// HashTreeRoot ssz hashes the Checkpoint object
func (c *Checkpoint) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(c)
}

// HashTreeRootWith ssz hashes the Checkpoint object with a hasher
func (c *Checkpoint) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(uint64(c.Epoch))
	hh.PutBytes(c.Root[:])
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the BeaconBlock object
func (b *BeaconBlock) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(b)
}

// MarshalSSZTo ssz marshals the BeaconBlock object to a target array
func (b *BeaconBlock) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	dst = ssz.MarshalUint64(dst, uint64(b.Slot))
	dst = ssz.MarshalUint64(dst, uint64(b.ProposerIndex))
	dst = append(dst, b.ParentRoot[:]...)
	dst = append(dst, b.StateRoot[:]...)
	dst = append(dst, b.BodyRoot[:]...)
	return
}

// UnmarshalSSZ ssz unmarshals the BeaconBlock object
func (b *BeaconBlock) UnmarshalSSZ(buf []byte) error {
	if len(buf) != 112 {
		return ssz.ErrSize
	}
	b.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[0:8]))
	b.ProposerIndex = primitives.ValidatorIndex(ssz.UnmarshallUint64(buf[8:16]))
	copy(b.ParentRoot[:], buf[16:48])
	copy(b.StateRoot[:], buf[48:80])
	copy(b.BodyRoot[:], buf[80:112])
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the BeaconBlock object
func (b *BeaconBlock) SizeSSZ() int {
	return 112
}

// HashTreeRoot ssz hashes the BeaconBlock object
func (b *BeaconBlock) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BeaconBlock object with a hasher
func (b *BeaconBlock) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutUint64(uint64(b.Slot))
	hh.PutUint64(uint64(b.ProposerIndex))
	hh.PutBytes(b.ParentRoot[:])
	hh.PutBytes(b.StateRoot[:])
	hh.PutBytes(b.BodyRoot[:])
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the Fork object
func (f *Fork) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(f)
}

// MarshalSSZTo ssz marshals the Fork object to a target array
func (f *Fork) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	dst = append(dst, f.PreviousVersion[:]...)
	dst = append(dst, f.CurrentVersion[:]...)
	dst = ssz.MarshalUint64(dst, uint64(f.Epoch))
	return
}

// UnmarshalSSZ ssz unmarshals the Fork object
func (f *Fork) UnmarshalSSZ(buf []byte) error {
	if len(buf) != 16 {
		return ssz.ErrSize
	}
	copy(f.PreviousVersion[:], buf[0:4])
	copy(f.CurrentVersion[:], buf[4:8])
	f.Epoch = primitives.Epoch(ssz.UnmarshallUint64(buf[8:16]))
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the Fork object
func (f *Fork) SizeSSZ() int {
	return 16
}

// HashTreeRoot ssz hashes the Fork object
func (f *Fork) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(f)
}

// HashTreeRootWith ssz hashes the Fork object with a hasher
func (f *Fork) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutBytes(f.PreviousVersion[:])
	hh.PutBytes(f.CurrentVersion[:])
	hh.PutUint64(uint64(f.Epoch))
	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the ForkData object
func (f *ForkData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(f)
}

// HashTreeRootWith ssz hashes the ForkData object with a hasher
func (f *ForkData) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutBytes(f.CurrentVersion[:])
	hh.PutBytes(f.GenesisValidatorsRoot[:])
	hh.Merkleize(indx)
	return nil
}

// HashTreeRoot ssz hashes the SigningData object
func (s *SigningData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SigningData object with a hasher
func (s *SigningData) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutBytes(s.ObjectRoot[:])
	hh.PutBytes(s.Domain[:])
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the Validator object
func (v *Validator) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(v)
}

// MarshalSSZTo ssz marshals the Validator object to a target array
func (v *Validator) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	dst = append(dst, v.PublicKey[:]...)
	dst = ssz.MarshalUint64(dst, v.EffectiveBalance)
	dst = ssz.MarshalBool(dst, v.Slashed)
	dst = ssz.MarshalUint64(dst, uint64(v.ActivationEpoch))
	dst = ssz.MarshalUint64(dst, uint64(v.ExitEpoch))
	return
}

// UnmarshalSSZ ssz unmarshals the Validator object
func (v *Validator) UnmarshalSSZ(buf []byte) error {
	if len(buf) != 73 {
		return ssz.ErrSize
	}
	copy(v.PublicKey[:], buf[0:48])
	v.EffectiveBalance = ssz.UnmarshallUint64(buf[48:56])
	if buf[56] > 1 {
		return errInvalidBool
	}
	v.Slashed = ssz.UnmarshalBool(buf[56:57])
	v.ActivationEpoch = primitives.Epoch(ssz.UnmarshallUint64(buf[57:65]))
	v.ExitEpoch = primitives.Epoch(ssz.UnmarshallUint64(buf[65:73]))
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the Validator object
func (v *Validator) SizeSSZ() int {
	return 73
}

// HashTreeRoot ssz hashes the Validator object
func (v *Validator) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(v)
}

// HashTreeRootWith ssz hashes the Validator object with a hasher
func (v *Validator) HashTreeRootWith(hh *ssz.Hasher) error {
	indx := hh.Index()
	hh.PutBytes(v.PublicKey[:])
	hh.PutUint64(v.EffectiveBalance)
	hh.PutBool(v.Slashed)
	hh.PutUint64(uint64(v.ActivationEpoch))
	hh.PutUint64(uint64(v.ExitEpoch))
	hh.Merkleize(indx)
	return nil
}

// MarshalSSZ ssz marshals the VoteTracker object
func (v *VoteTracker) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(v)
}

// MarshalSSZTo ssz marshals the VoteTracker object to a target array
func (v *VoteTracker) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	dst = append(dst, v.CurrentRoot[:]...)
	dst = append(dst, v.NextRoot[:]...)
	dst = ssz.MarshalUint64(dst, uint64(v.NextEpoch))
	return
}

// UnmarshalSSZ ssz unmarshals the VoteTracker object
func (v *VoteTracker) UnmarshalSSZ(buf []byte) error {
	if len(buf) != 72 {
		return ssz.ErrSize
	}
	copy(v.CurrentRoot[:], buf[0:32])
	copy(v.NextRoot[:], buf[32:64])
	v.NextEpoch = primitives.Epoch(ssz.UnmarshallUint64(buf[64:72]))
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the VoteTracker object
func (v *VoteTracker) SizeSSZ() int {
	return 72
}

// MarshalSSZ ssz marshals the AttestationData object
func (a *AttestationData) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(a)
}

// MarshalSSZTo ssz marshals the AttestationData object to a target array
func (a *AttestationData) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	dst = ssz.MarshalUint64(dst, uint64(a.Slot))
	dst = ssz.MarshalUint64(dst, uint64(a.CommitteeIndex))
	dst = append(dst, a.BeaconBlockRoot[:]...)
	if a.Source == nil {
		a.Source = new(Checkpoint)
	}
	if dst, err = a.Source.MarshalSSZTo(dst); err != nil {
		return
	}
	if a.Target == nil {
		a.Target = new(Checkpoint)
	}
	if dst, err = a.Target.MarshalSSZTo(dst); err != nil {
		return
	}
	return
}

// UnmarshalSSZ ssz unmarshals the AttestationData object
func (a *AttestationData) UnmarshalSSZ(buf []byte) error {
	if len(buf) != 128 {
		return ssz.ErrSize
	}
	a.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[0:8]))
	a.CommitteeIndex = primitives.CommitteeIndex(ssz.UnmarshallUint64(buf[8:16]))
	copy(a.BeaconBlockRoot[:], buf[16:48])
	if a.Source == nil {
		a.Source = new(Checkpoint)
	}
	if err := a.Source.UnmarshalSSZ(buf[48:88]); err != nil {
		return err
	}
	if a.Target == nil {
		a.Target = new(Checkpoint)
	}
	return a.Target.UnmarshalSSZ(buf[88:128])
}

// SizeSSZ returns the ssz encoded size in bytes for the AttestationData object
func (a *AttestationData) SizeSSZ() int {
	return 128
}

// HashTreeRoot ssz hashes the AttestationData object
func (a *AttestationData) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(a)
}

// HashTreeRootWith ssz hashes the AttestationData object with a hasher
func (a *AttestationData) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()
	hh.PutUint64(uint64(a.Slot))
	hh.PutUint64(uint64(a.CommitteeIndex))
	hh.PutBytes(a.BeaconBlockRoot[:])
	if a.Source == nil {
		a.Source = new(Checkpoint)
	}
	if err = a.Source.HashTreeRootWith(hh); err != nil {
		return
	}
	if a.Target == nil {
		a.Target = new(Checkpoint)
	}
	if err = a.Target.HashTreeRootWith(hh); err != nil {
		return
	}
	hh.Merkleize(indx)
	return
}
