package types

import "github.com/gagliardetto/solana-go"

const (
	// ModuleName is the name of the tax hook module.
	ModuleName = "taxhook"

	// StoreKey is the store key for the tax hook module.
	StoreKey = ModuleName
)

var (
	RegistryKeyPrefix = []byte{0x01}
	TreasuryKeyPrefix = []byte{0x02}
)

// RegistryKey returns the store key of the registry at its derived address.
func RegistryKey(addr solana.PublicKey) []byte {
	return append(append([]byte{}, RegistryKeyPrefix...), addr.Bytes()...)
}

// TreasuryKey returns the store key of the treasury at its derived address.
func TreasuryKey(addr solana.PublicKey) []byte {
	return append(append([]byte{}, TreasuryKeyPrefix...), addr.Bytes()...)
}
