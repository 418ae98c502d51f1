// Package db defines the ability to create a new database
// for the recent chain data core.
package db

import (
	"context"

	"github.com/prysmaticlabs/chaindata/beacon-chain/db/kv"
)

// NewDB initializes a new DB.
func NewDB(ctx context.Context, dirPath string) (Database, error) {
	return kv.NewKVStore(ctx, dirPath, &kv.Config{})
}
