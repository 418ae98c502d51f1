package db

import "github.com/prysmaticlabs/chaindata/beacon-chain/db/iface"

// ReadOnlyDatabase exposes read only access to the fork choice database.
type ReadOnlyDatabase = iface.ReadOnlyDatabase

// Database defines the full fork choice database interface.
type Database = iface.ForkChoiceDatabase
