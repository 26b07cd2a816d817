// Package pda derives program-owned addresses.
//
// A derived address is computed from a program id, a tag and a list of seeds.
// It is guaranteed to lie off the ed25519 curve, so no private key exists for
// it and only the owning program can authorize actions on its behalf. The
// functions in this package are pure: any client can recompute the registry,
// treasury and holding locations offline from public identifiers alone.
package pda

import (
	errorsmod "cosmossdk.io/errors"
	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"

	"github.com/celestiaorg/taxhook/pkg/appconsts"
)

const codespace = "pda"

var (
	ErrSeedTooLong     = errorsmod.Register(codespace, 2, "derivation seed too long")
	ErrTooManySeeds    = errorsmod.Register(codespace, 3, "too many derivation seeds")
	ErrNoViableBump    = errorsmod.Register(codespace, 4, "unable to find a viable program address bump")
	ErrAddressMismatch = errorsmod.Register(codespace, 5, "derived address does not match provided address")
)

// AssociatedTokenProgramID is the program under which associated holdings are
// derived.
var AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

// Derive returns the canonical derived address and bump for the tag and seeds
// under programID. The bump is the largest value in [0, 255] that yields an
// off-curve address.
func Derive(programID solana.PublicKey, tag string, seeds ...[]byte) (solana.PublicKey, uint8, error) {
	all, err := seedList(tag, seeds)
	if err != nil {
		return solana.PublicKey{}, 0, err
	}
	return find(all, programID)
}

// MustDerive is like Derive but panics on failure. Failure is only possible
// for malformed seeds, so it is meant for constant inputs.
func MustDerive(programID solana.PublicKey, tag string, seeds ...[]byte) (solana.PublicKey, uint8) {
	addr, bump, err := Derive(programID, tag, seeds...)
	if err != nil {
		panic(err)
	}
	return addr, bump
}

// Create recomputes the address for a known bump. It fails if the result lies
// on the curve, which means the bump is not valid for these seeds.
func Create(programID solana.PublicKey, bump uint8, tag string, seeds ...[]byte) (solana.PublicKey, error) {
	all, err := seedList(tag, seeds)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return create(append(all, []byte{bump}), programID)
}

// Verify checks that address is the program address of the tag, seeds and bump.
func Verify(programID, address solana.PublicKey, bump uint8, tag string, seeds ...[]byte) error {
	derived, err := Create(programID, bump, tag, seeds...)
	if err != nil {
		return err
	}
	if !derived.Equals(address) {
		return errorsmod.Wrapf(ErrAddressMismatch, "expected %s, got %s", derived, address)
	}
	return nil
}

// RegistryAddress returns the address of the extra-account-metas registry of a
// hooked mint.
func RegistryAddress(programID, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive(programID, appconsts.ExtraAccountMetasSeed, mint.Bytes())
}

// TreasuryAddress returns the address of the treasury of a fee mint.
func TreasuryAddress(programID, feeMint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return Derive(programID, appconsts.TreasurySeed, feeMint.Bytes())
}

// TreasurySeeds returns the seeds, canonical bump included, the program signs
// with when it moves funds out of the treasury.
func TreasurySeeds(feeMint solana.PublicKey, bump uint8) [][]byte {
	return [][]byte{[]byte(appconsts.TreasurySeed), feeMint.Bytes(), {bump}}
}

// AssociatedHoldingAddress returns the associated holding of owner for mint
// under the given token program.
func AssociatedHoldingAddress(owner, tokenProgram, mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	return find([][]byte{owner.Bytes(), tokenProgram.Bytes(), mint.Bytes()}, AssociatedTokenProgramID)
}

// CreateWithSeeds validates a full seed list whose last element is the bump
// and returns the program address. It is used to check program signatures.
func CreateWithSeeds(programID solana.PublicKey, seeds [][]byte) (solana.PublicKey, error) {
	if err := validateSeeds(seeds); err != nil {
		return solana.PublicKey{}, err
	}
	return create(seeds, programID)
}

// FindWithSeeds returns the canonical address and bump of a raw seed list that
// does not include the bump.
func FindWithSeeds(programID solana.PublicKey, seeds [][]byte) (solana.PublicKey, uint8, error) {
	if len(seeds) >= appconsts.MaxSeeds {
		return solana.PublicKey{}, 0, errorsmod.Wrapf(ErrTooManySeeds, "got %d, max %d", len(seeds), appconsts.MaxSeeds-1)
	}
	if err := validateSeeds(seeds); err != nil {
		return solana.PublicKey{}, 0, err
	}
	return find(seeds, programID)
}

// IsOnCurve reports whether pk is a valid ed25519 point, i.e. whether a private
// key could exist for it.
func IsOnCurve(pk solana.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pk.Bytes())
	return err == nil
}

func seedList(tag string, seeds [][]byte) ([][]byte, error) {
	all := make([][]byte, 0, len(seeds)+1)
	all = append(all, []byte(tag))
	all = append(all, seeds...)
	// one slot is reserved for the bump
	if len(all) >= appconsts.MaxSeeds {
		return nil, errorsmod.Wrapf(ErrTooManySeeds, "got %d, max %d", len(all), appconsts.MaxSeeds-1)
	}
	if err := validateSeeds(all); err != nil {
		return nil, err
	}
	return all, nil
}

func validateSeeds(seeds [][]byte) error {
	if len(seeds) > appconsts.MaxSeeds {
		return errorsmod.Wrapf(ErrTooManySeeds, "got %d, max %d", len(seeds), appconsts.MaxSeeds)
	}
	for i, seed := range seeds {
		if len(seed) > appconsts.MaxSeedLength {
			return errorsmod.Wrapf(ErrSeedTooLong, "seed %d has %d bytes, max %d", i, len(seed), appconsts.MaxSeedLength)
		}
	}
	return nil
}

func find(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	addr, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, 0, errorsmod.Wrap(ErrNoViableBump, err.Error())
	}
	return addr, bump, nil
}

func create(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	addr, err := solana.CreateProgramAddress(seeds, programID)
	if err != nil {
		return solana.PublicKey{}, errorsmod.Wrap(ErrAddressMismatch, err.Error())
	}
	return addr, nil
}
