package eth

// Copy returns a deep copy of the checkpoint.
func (c *Checkpoint) Copy() *Checkpoint {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

// Copy returns a copy of the block.
func (b *BeaconBlock) Copy() *BeaconBlock {
	if b == nil {
		return nil
	}
	cp := *b
	return &cp
}

// Copy returns a copy of the fork.
func (f *Fork) Copy() *Fork {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

// Copy returns a copy of the validator.
func (v *Validator) Copy() *Validator {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

// Copy returns a deep copy of the attestation data.
func (a *AttestationData) Copy() *AttestationData {
	if a == nil {
		return nil
	}
	return &AttestationData{
		Slot:            a.Slot,
		CommitteeIndex:  a.CommitteeIndex,
		BeaconBlockRoot: a.BeaconBlockRoot,
		Source:          a.Source.Copy(),
		Target:          a.Target.Copy(),
	}
}

// Copy returns a deep copy of the attestation.
func (a *Attestation) Copy() *Attestation {
	if a == nil {
		return nil
	}
	bits := make([]byte, len(a.AggregationBits))
	copy(bits, a.AggregationBits)
	return &Attestation{
		AggregationBits: bits,
		Data:            a.Data.Copy(),
		Signature:       a.Signature,
	}
}

// Copy returns a deep copy of the aggregate and proof.
func (a *AggregateAttestationAndProof) Copy() *AggregateAttestationAndProof {
	if a == nil {
		return nil
	}
	return &AggregateAttestationAndProof{
		AggregatorIndex: a.AggregatorIndex,
		Aggregate:       a.Aggregate.Copy(),
		SelectionProof:  a.SelectionProof,
	}
}

// Copy returns a deep copy of the signed aggregate.
func (s *SignedAggregateAttestationAndProof) Copy() *SignedAggregateAttestationAndProof {
	if s == nil {
		return nil
	}
	return &SignedAggregateAttestationAndProof{
		Message:   s.Message.Copy(),
		Signature: s.Signature,
	}
}

// Copy returns a deep copy of the state.
func (s *BeaconState) Copy() *BeaconState {
	if s == nil {
		return nil
	}
	validators := make([]*Validator, len(s.Validators))
	for i, v := range s.Validators {
		validators[i] = v.Copy()
	}
	return &BeaconState{
		GenesisTime:                 s.GenesisTime,
		GenesisValidatorsRoot:       s.GenesisValidatorsRoot,
		Slot:                        s.Slot,
		Fork:                        s.Fork.Copy(),
		LatestBlockRoot:             s.LatestBlockRoot,
		BlockRoots:                  append([][32]byte(nil), s.BlockRoots...),
		Validators:                  validators,
		RandaoMixes:                 append([][32]byte(nil), s.RandaoMixes...),
		PreviousJustifiedCheckpoint: s.PreviousJustifiedCheckpoint.Copy(),
		CurrentJustifiedCheckpoint:  s.CurrentJustifiedCheckpoint.Copy(),
		FinalizedCheckpoint:         s.FinalizedCheckpoint.Copy(),
	}
}
