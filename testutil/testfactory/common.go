package testfactory

import (
	"github.com/gagliardetto/solana-go"
)

// Repeat returns count copies of s.
func Repeat[T any](s T, count int) []T {
	ss := make([]T, count)
	for i := 0; i < count; i++ {
		ss[i] = s
	}
	return ss
}

// GenerateKeys returns count fresh private keys.
func GenerateKeys(count int) []solana.PrivateKey {
	keys := make([]solana.PrivateKey, count)
	for i := range keys {
		keys[i] = solana.NewWallet().PrivateKey
	}
	return keys
}

// PublicKeys returns the public keys of keys, in order.
func PublicKeys(keys []solana.PrivateKey) []solana.PublicKey {
	out := make([]solana.PublicKey, len(keys))
	for i, k := range keys {
		out[i] = k.PublicKey()
	}
	return out
}
