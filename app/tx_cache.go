package app

import (
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

var processedTxPrefix = []byte{0x01}

// TxCache records the first signature of every processed transaction in the
// runtime store so that a replayed transaction is rejected.
type TxCache struct {
	storeKey storetypes.StoreKey
}

// NewTxCache creates a new transaction cache
func NewTxCache(storeKey storetypes.StoreKey) *TxCache {
	return &TxCache{storeKey: storeKey}
}

// getTxKey generates a deterministic key for a transaction
func (c *TxCache) getTxKey(sig solana.Signature) []byte {
	return append(append([]byte{}, processedTxPrefix...), sig[:]...)
}

// Exists checks whether a transaction with this signature was processed.
func (c *TxCache) Exists(ctx sdk.Context, sig solana.Signature) bool {
	return ctx.KVStore(c.storeKey).Has(c.getTxKey(sig))
}

// Set marks the transaction as processed at the context height.
func (c *TxCache) Set(ctx sdk.Context, sig solana.Signature) {
	height := sdk.Uint64ToBigEndian(uint64(ctx.BlockHeight()))
	ctx.KVStore(c.storeKey).Set(c.getTxKey(sig), height)
}

// Size returns the number of processed transactions.
func (c *TxCache) Size(ctx sdk.Context) int {
	iter := storetypes.KVStorePrefixIterator(ctx.KVStore(c.storeKey), processedTxPrefix)
	defer iter.Close()

	count := 0
	for ; iter.Valid(); iter.Next() {
		count++
	}
	return count
}
