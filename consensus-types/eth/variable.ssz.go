package eth

import (
	"errors"
	"fmt"

	ssz "github.com/ferranbt/fastssz"
	"github.com/prysmaticlabs/chaindata/config/params"
	"github.com/prysmaticlabs/chaindata/consensus-types/primitives"
)

var errEmptyBitlist = errors.New("aggregation bitlist is empty")

// MarshalSSZ ssz marshals the Attestation object
func (a *Attestation) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(a)
}

// MarshalSSZTo ssz marshals the Attestation object to a target array
func (a *Attestation) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	offset := 228

	// Offset (0) 'AggregationBits'
	dst = ssz.WriteOffset(dst, offset)

	// Field (1) 'Data'
	if a.Data == nil {
		a.Data = new(AttestationData)
	}
	if dst, err = a.Data.MarshalSSZTo(dst); err != nil {
		return
	}

	// Field (2) 'Signature'
	dst = append(dst, a.Signature[:]...)

	// Field (0) 'AggregationBits'
	if len(a.AggregationBits) > MaxValidatorsPerCommittee/8+1 {
		err = ssz.ErrBytesLength
		return
	}
	dst = append(dst, a.AggregationBits...)
	return
}

// UnmarshalSSZ ssz unmarshals the Attestation object
func (a *Attestation) UnmarshalSSZ(buf []byte) error {
	size := uint64(len(buf))
	if size < 228 {
		return ssz.ErrSize
	}
	o0 := ssz.ReadOffset(buf[0:4])
	if o0 != 228 {
		return ssz.ErrOffset
	}
	if a.Data == nil {
		a.Data = new(AttestationData)
	}
	if err := a.Data.UnmarshalSSZ(buf[4:132]); err != nil {
		return err
	}
	copy(a.Signature[:], buf[132:228])

	bits := buf[o0:]
	if err := ssz.ValidateBitlist(bits, MaxValidatorsPerCommittee); err != nil {
		return err
	}
	a.AggregationBits = append(make([]byte, 0, len(bits)), bits...)
	return nil
}

// SizeSSZ returns the ssz encoded size in bytes for the Attestation object
func (a *Attestation) SizeSSZ() int {
	return 228 + len(a.AggregationBits)
}

// HashTreeRoot ssz hashes the Attestation object
func (a *Attestation) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(a)
}

// HashTreeRootWith ssz hashes the Attestation object with a hasher
func (a *Attestation) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()
	if len(a.AggregationBits) == 0 {
		return errEmptyBitlist
	}
	hh.PutBitlist(a.AggregationBits, MaxValidatorsPerCommittee)
	if a.Data == nil {
		a.Data = new(AttestationData)
	}
	if err = a.Data.HashTreeRootWith(hh); err != nil {
		return
	}
	hh.PutBytes(a.Signature[:])
	hh.Merkleize(indx)
	return
}

// MarshalSSZ ssz marshals the AggregateAttestationAndProof object
func (a *AggregateAttestationAndProof) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(a)
}

// MarshalSSZTo ssz marshals the AggregateAttestationAndProof object to a target array
func (a *AggregateAttestationAndProof) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	offset := 108

	// Field (0) 'AggregatorIndex'
	dst = ssz.MarshalUint64(dst, uint64(a.AggregatorIndex))

	// Offset (1) 'Aggregate'
	dst = ssz.WriteOffset(dst, offset)

	// Field (2) 'SelectionProof'
	dst = append(dst, a.SelectionProof[:]...)

	// Field (1) 'Aggregate'
	if a.Aggregate == nil {
		a.Aggregate = new(Attestation)
	}
	if dst, err = a.Aggregate.MarshalSSZTo(dst); err != nil {
		return
	}
	return
}

// UnmarshalSSZ ssz unmarshals the AggregateAttestationAndProof object
func (a *AggregateAttestationAndProof) UnmarshalSSZ(buf []byte) error {
	size := uint64(len(buf))
	if size < 108 {
		return ssz.ErrSize
	}
	a.AggregatorIndex = primitives.ValidatorIndex(ssz.UnmarshallUint64(buf[0:8]))
	o1 := ssz.ReadOffset(buf[8:12])
	if o1 != 108 {
		return ssz.ErrOffset
	}
	copy(a.SelectionProof[:], buf[12:108])
	if a.Aggregate == nil {
		a.Aggregate = new(Attestation)
	}
	return a.Aggregate.UnmarshalSSZ(buf[o1:])
}

// SizeSSZ returns the ssz encoded size in bytes for the AggregateAttestationAndProof object
func (a *AggregateAttestationAndProof) SizeSSZ() int {
	size := 108
	if a.Aggregate == nil {
		a.Aggregate = new(Attestation)
	}
	return size + a.Aggregate.SizeSSZ()
}

// HashTreeRoot ssz hashes the AggregateAttestationAndProof object
func (a *AggregateAttestationAndProof) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(a)
}

// HashTreeRootWith ssz hashes the AggregateAttestationAndProof object with a hasher
func (a *AggregateAttestationAndProof) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()
	hh.PutUint64(uint64(a.AggregatorIndex))
	if a.Aggregate == nil {
		a.Aggregate = new(Attestation)
	}
	if err = a.Aggregate.HashTreeRootWith(hh); err != nil {
		return
	}
	hh.PutBytes(a.SelectionProof[:])
	hh.Merkleize(indx)
	return
}

// MarshalSSZ ssz marshals the SignedAggregateAttestationAndProof object
func (s *SignedAggregateAttestationAndProof) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(s)
}

// MarshalSSZTo ssz marshals the SignedAggregateAttestationAndProof object to a target array
func (s *SignedAggregateAttestationAndProof) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	dst = buf
	offset := 100

	// Offset (0) 'Message'
	dst = ssz.WriteOffset(dst, offset)

	// Field (1) 'Signature'
	dst = append(dst, s.Signature[:]...)

	// Field (0) 'Message'
	if s.Message == nil {
		s.Message = new(AggregateAttestationAndProof)
	}
	if dst, err = s.Message.MarshalSSZTo(dst); err != nil {
		return
	}
	return
}

// UnmarshalSSZ ssz unmarshals the SignedAggregateAttestationAndProof object
func (s *SignedAggregateAttestationAndProof) UnmarshalSSZ(buf []byte) error {
	size := uint64(len(buf))
	if size < 100 {
		return ssz.ErrSize
	}
	o0 := ssz.ReadOffset(buf[0:4])
	if o0 != 100 {
		return ssz.ErrOffset
	}
	copy(s.Signature[:], buf[4:100])
	if s.Message == nil {
		s.Message = new(AggregateAttestationAndProof)
	}
	return s.Message.UnmarshalSSZ(buf[o0:])
}

// SizeSSZ returns the ssz encoded size in bytes for the SignedAggregateAttestationAndProof object
func (s *SignedAggregateAttestationAndProof) SizeSSZ() int {
	size := 100
	if s.Message == nil {
		s.Message = new(AggregateAttestationAndProof)
	}
	return size + s.Message.SizeSSZ()
}

// HashTreeRoot ssz hashes the SignedAggregateAttestationAndProof object
func (s *SignedAggregateAttestationAndProof) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(s)
}

// HashTreeRootWith ssz hashes the SignedAggregateAttestationAndProof object with a hasher
func (s *SignedAggregateAttestationAndProof) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	indx := hh.Index()
	if s.Message == nil {
		s.Message = new(AggregateAttestationAndProof)
	}
	if err = s.Message.HashTreeRootWith(hh); err != nil {
		return
	}
	hh.PutBytes(s.Signature[:])
	hh.Merkleize(indx)
	return
}

const beaconStateFixedSize = 228

// MarshalSSZ ssz marshals the BeaconState object
func (b *BeaconState) MarshalSSZ() ([]byte, error) {
	return ssz.MarshalSSZ(b)
}

// MarshalSSZTo ssz marshals the BeaconState object to a target array
func (b *BeaconState) MarshalSSZTo(buf []byte) (dst []byte, err error) {
	if err = b.checkListLimits(); err != nil {
		return
	}
	dst = buf
	offset := beaconStateFixedSize

	dst = ssz.MarshalUint64(dst, b.GenesisTime)
	dst = append(dst, b.GenesisValidatorsRoot[:]...)
	dst = ssz.MarshalUint64(dst, uint64(b.Slot))
	if b.Fork == nil {
		b.Fork = new(Fork)
	}
	if dst, err = b.Fork.MarshalSSZTo(dst); err != nil {
		return
	}
	dst = append(dst, b.LatestBlockRoot[:]...)

	// Offset (5) 'BlockRoots'
	dst = ssz.WriteOffset(dst, offset)
	offset += len(b.BlockRoots) * 32

	// Offset (6) 'Validators'
	dst = ssz.WriteOffset(dst, offset)
	offset += len(b.Validators) * 73

	// Offset (7) 'RandaoMixes'
	dst = ssz.WriteOffset(dst, offset)

	for _, cp := range []**Checkpoint{&b.PreviousJustifiedCheckpoint, &b.CurrentJustifiedCheckpoint, &b.FinalizedCheckpoint} {
		if *cp == nil {
			*cp = new(Checkpoint)
		}
		if dst, err = (*cp).MarshalSSZTo(dst); err != nil {
			return
		}
	}

	for _, r := range b.BlockRoots {
		dst = append(dst, r[:]...)
	}
	for _, v := range b.Validators {
		if dst, err = v.MarshalSSZTo(dst); err != nil {
			return
		}
	}
	for _, r := range b.RandaoMixes {
		dst = append(dst, r[:]...)
	}
	return
}

// UnmarshalSSZ ssz unmarshals the BeaconState object
func (b *BeaconState) UnmarshalSSZ(buf []byte) error {
	size := uint64(len(buf))
	if size < beaconStateFixedSize {
		return ssz.ErrSize
	}

	b.GenesisTime = ssz.UnmarshallUint64(buf[0:8])
	copy(b.GenesisValidatorsRoot[:], buf[8:40])
	b.Slot = primitives.Slot(ssz.UnmarshallUint64(buf[40:48]))
	if b.Fork == nil {
		b.Fork = new(Fork)
	}
	if err := b.Fork.UnmarshalSSZ(buf[48:64]); err != nil {
		return err
	}
	copy(b.LatestBlockRoot[:], buf[64:96])

	o5 := ssz.ReadOffset(buf[96:100])
	o6 := ssz.ReadOffset(buf[100:104])
	o7 := ssz.ReadOffset(buf[104:108])
	if o5 != beaconStateFixedSize || o6 < o5 || o7 < o6 || o7 > size {
		return ssz.ErrOffset
	}

	cps := []**Checkpoint{&b.PreviousJustifiedCheckpoint, &b.CurrentJustifiedCheckpoint, &b.FinalizedCheckpoint}
	for i, cp := range cps {
		if *cp == nil {
			*cp = new(Checkpoint)
		}
		start := 108 + i*40
		if err := (*cp).UnmarshalSSZ(buf[start : start+40]); err != nil {
			return err
		}
	}

	var err error
	if b.BlockRoots, err = unmarshalRoots(buf[o5:o6]); err != nil {
		return err
	}
	validators := buf[o6:o7]
	if len(validators)%73 != 0 {
		return ssz.ErrSize
	}
	b.Validators = make([]*Validator, len(validators)/73)
	for i := range b.Validators {
		b.Validators[i] = new(Validator)
		if err := b.Validators[i].UnmarshalSSZ(validators[i*73 : (i+1)*73]); err != nil {
			return err
		}
	}
	if b.RandaoMixes, err = unmarshalRoots(buf[o7:]); err != nil {
		return err
	}
	return b.checkListLimits()
}

// SizeSSZ returns the ssz encoded size in bytes for the BeaconState object
func (b *BeaconState) SizeSSZ() int {
	return beaconStateFixedSize + len(b.BlockRoots)*32 + len(b.Validators)*73 + len(b.RandaoMixes)*32
}

// HashTreeRoot ssz hashes the BeaconState object
func (b *BeaconState) HashTreeRoot() ([32]byte, error) {
	return ssz.HashWithDefaultHasher(b)
}

// HashTreeRootWith ssz hashes the BeaconState object with a hasher
func (b *BeaconState) HashTreeRootWith(hh *ssz.Hasher) (err error) {
	if err = b.checkListLimits(); err != nil {
		return
	}
	cfg := params.BeaconConfig()
	indx := hh.Index()

	hh.PutUint64(b.GenesisTime)
	hh.PutBytes(b.GenesisValidatorsRoot[:])
	hh.PutUint64(uint64(b.Slot))
	if b.Fork == nil {
		b.Fork = new(Fork)
	}
	if err = b.Fork.HashTreeRootWith(hh); err != nil {
		return
	}
	hh.PutBytes(b.LatestBlockRoot[:])

	// Field (5) 'BlockRoots'
	{
		subIndx := hh.Index()
		for _, r := range b.BlockRoots {
			hh.Append(r[:])
		}
		hh.MerkleizeWithMixin(subIndx, uint64(len(b.BlockRoots)), uint64(cfg.SlotsPerHistoricalRoot))
	}

	// Field (6) 'Validators'
	{
		subIndx := hh.Index()
		for _, v := range b.Validators {
			if err = v.HashTreeRootWith(hh); err != nil {
				return
			}
		}
		hh.MerkleizeWithMixin(subIndx, uint64(len(b.Validators)), cfg.ValidatorRegistryLimit)
	}

	// Field (7) 'RandaoMixes'
	{
		subIndx := hh.Index()
		for _, r := range b.RandaoMixes {
			hh.Append(r[:])
		}
		hh.MerkleizeWithMixin(subIndx, uint64(len(b.RandaoMixes)), uint64(cfg.EpochsPerHistoricalVector))
	}

	for _, cp := range []**Checkpoint{&b.PreviousJustifiedCheckpoint, &b.CurrentJustifiedCheckpoint, &b.FinalizedCheckpoint} {
		if *cp == nil {
			*cp = new(Checkpoint)
		}
		if err = (*cp).HashTreeRootWith(hh); err != nil {
			return
		}
	}

	hh.Merkleize(indx)
	return
}

func (b *BeaconState) checkListLimits() error {
	cfg := params.BeaconConfig()
	if uint64(len(b.BlockRoots)) > uint64(cfg.SlotsPerHistoricalRoot) {
		return fmt.Errorf("block roots length %d exceeds limit %d: %w", len(b.BlockRoots), cfg.SlotsPerHistoricalRoot, ssz.ErrIncorrectListSize)
	}
	if uint64(len(b.RandaoMixes)) > uint64(cfg.EpochsPerHistoricalVector) {
		return fmt.Errorf("randao mixes length %d exceeds limit %d: %w", len(b.RandaoMixes), cfg.EpochsPerHistoricalVector, ssz.ErrIncorrectListSize)
	}
	if uint64(len(b.Validators)) > cfg.ValidatorRegistryLimit {
		return ssz.ErrIncorrectListSize
	}
	return nil
}

func unmarshalRoots(buf []byte) ([][32]byte, error) {
	if len(buf)%32 != 0 {
		return nil, ssz.ErrSize
	}
	roots := make([][32]byte, len(buf)/32)
	for i := range roots {
		copy(roots[i][:], buf[i*32:(i+1)*32])
	}
	return roots, nil
}
