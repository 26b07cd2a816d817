package types

import (
	"bytes"
	"sort"

	"github.com/gagliardetto/solana-go"
)

// SignerSet is the set of accounts that authorized the instruction being
// executed. It holds the transaction signers whose signatures were verified,
// plus program addresses signed for by their owning program.
type SignerSet struct {
	keys map[solana.PublicKey]struct{}
}

// NewSignerSet returns a signer set containing keys.
func NewSignerSet(keys ...solana.PublicKey) SignerSet {
	s := SignerSet{keys: make(map[solana.PublicKey]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// Has reports whether pk signed.
func (s SignerSet) Has(pk solana.PublicKey) bool {
	_, ok := s.keys[pk]
	return ok
}

// With returns a copy of the set extended with keys. The receiver is not
// modified.
func (s SignerSet) With(keys ...solana.PublicKey) SignerSet {
	out := NewSignerSet(keys...)
	for k := range s.keys {
		out.keys[k] = struct{}{}
	}
	return out
}

// Len returns the number of signers.
func (s SignerSet) Len() int {
	return len(s.keys)
}

// Keys returns the signers in byte order.
func (s SignerSet) Keys() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
