package primitives

// ValidatorIndex in eth2.
type ValidatorIndex uint64

// CommitteeIndex of a committee within a slot.
type CommitteeIndex uint64

// DomainType is the 4 byte prefix of a signing domain.
type DomainType [4]byte
