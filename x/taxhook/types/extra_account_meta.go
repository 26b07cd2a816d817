package types

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/celestiaorg/taxhook/pkg/appconsts"
	"github.com/celestiaorg/taxhook/pkg/pda"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MetaKind tells how an extra account address is obtained.
type MetaKind uint8

const (
	// MetaKindFixed metas carry the address itself.
	MetaKindFixed MetaKind = iota
	// MetaKindSeeded metas are program addresses of the hook program derived
	// from their seeds at transfer time.
	MetaKindSeeded
)

// SeedKind tells how a seed of a seeded meta is resolved.
type SeedKind uint8

const (
	// SeedKindLiteral seeds are constant bytes.
	SeedKindLiteral SeedKind = iota
	// SeedKindAccountKey seeds are the address of an account of the transfer,
	// by index into the base accounts followed by the already resolved extras.
	SeedKindAccountKey
)

// Seed is one element of the seed list of a seeded meta.
type Seed struct {
	Kind    SeedKind
	Literal []byte
	Index   uint8
}

// LiteralSeed returns a constant seed.
func LiteralSeed(b []byte) Seed {
	return Seed{Kind: SeedKindLiteral, Literal: b}
}

// AccountKeySeed returns a seed resolved to the address of account index.
func AccountKeySeed(index uint8) Seed {
	return Seed{Kind: SeedKindAccountKey, Index: index}
}

// ExtraAccountMeta describes an account a hooked transfer must carry in
// addition to its four base accounts.
type ExtraAccountMeta struct {
	Kind       MetaKind
	Address    solana.PublicKey
	Seeds      []Seed
	IsSigner   bool
	IsWritable bool
}

// FixedMeta returns a meta for a known address.
func FixedMeta(addr solana.PublicKey, isSigner, isWritable bool) ExtraAccountMeta {
	return ExtraAccountMeta{
		Kind:       MetaKindFixed,
		Address:    addr,
		IsSigner:   isSigner,
		IsWritable: isWritable,
	}
}

// SeededMeta returns a meta whose address is derived from seeds.
func SeededMeta(seeds []Seed, isWritable bool) ExtraAccountMeta {
	return ExtraAccountMeta{
		Kind:       MetaKindSeeded,
		Seeds:      seeds,
		IsWritable: isWritable,
	}
}

// Validate checks the meta is well formed.
func (m ExtraAccountMeta) Validate() error {
	switch m.Kind {
	case MetaKindFixed:
		if m.Address.IsZero() {
			return errorsmod.Wrap(ErrInvalidExtraAccount, "fixed meta without address")
		}
		if len(m.Seeds) != 0 {
			return errorsmod.Wrap(ErrInvalidExtraAccount, "fixed meta with seeds")
		}
	case MetaKindSeeded:
		if len(m.Seeds) == 0 {
			return errorsmod.Wrap(ErrInvalidExtraAccount, "seeded meta without seeds")
		}
		if len(m.Seeds) >= appconsts.MaxSeeds {
			return errorsmod.Wrapf(ErrInvalidExtraAccount, "seeded meta has %d seeds, max %d", len(m.Seeds), appconsts.MaxSeeds-1)
		}
		// a program address can never sign a transaction
		if m.IsSigner {
			return errorsmod.Wrap(ErrInvalidExtraAccount, "seeded meta cannot be a signer")
		}
		for i, seed := range m.Seeds {
			switch seed.Kind {
			case SeedKindLiteral:
				if len(seed.Literal) > appconsts.MaxSeedLength {
					return errorsmod.Wrapf(ErrInvalidExtraAccount, "seed %d has %d bytes, max %d", i, len(seed.Literal), appconsts.MaxSeedLength)
				}
			case SeedKindAccountKey:
				if len(seed.Literal) != 0 {
					return errorsmod.Wrapf(ErrInvalidExtraAccount, "account key seed %d has literal bytes", i)
				}
			default:
				return errorsmod.Wrapf(ErrInvalidExtraAccount, "seed %d has unknown kind %d", i, seed.Kind)
			}
		}
	default:
		return errorsmod.Wrapf(ErrInvalidExtraAccount, "unknown meta kind %d", m.Kind)
	}
	return nil
}

// Resolve returns the concrete account meta. accounts are the accounts
// resolved so far, base accounts first.
func (m ExtraAccountMeta) Resolve(programID solana.PublicKey, accounts solana.AccountMetaSlice) (*solana.AccountMeta, error) {
	if m.Kind == MetaKindFixed {
		return solana.NewAccountMeta(m.Address, m.IsWritable, m.IsSigner), nil
	}

	seeds := make([][]byte, 0, len(m.Seeds))
	for i, seed := range m.Seeds {
		switch seed.Kind {
		case SeedKindLiteral:
			seeds = append(seeds, seed.Literal)
		case SeedKindAccountKey:
			if int(seed.Index) >= len(accounts) {
				return nil, errorsmod.Wrapf(ErrInvalidExtraAccount, "seed %d references account %d of %d", i, seed.Index, len(accounts))
			}
			seeds = append(seeds, accounts[seed.Index].PublicKey.Bytes())
		default:
			return nil, errorsmod.Wrapf(ErrInvalidExtraAccount, "seed %d has unknown kind %d", i, seed.Kind)
		}
	}
	addr, _, err := pda.FindWithSeeds(programID, seeds)
	if err != nil {
		return nil, errorsmod.Wrap(ErrInvalidExtraAccount, err.Error())
	}
	return solana.NewAccountMeta(addr, m.IsWritable, false), nil
}

// ExtraAccountMetaList is the registry of the extra accounts every transfer of
// Mint must carry.
type ExtraAccountMetaList struct {
	Mint  solana.PublicKey
	Bump  uint8
	Metas []ExtraAccountMeta
}

// DefaultExtraAccountMetaList returns the registry installed at setup: the
// registry address and the hook program id, both read-only.
func DefaultExtraAccountMetaList(programID, mint solana.PublicKey) (ExtraAccountMetaList, solana.PublicKey, error) {
	addr, bump, err := pda.RegistryAddress(programID, mint)
	if err != nil {
		return ExtraAccountMetaList{}, solana.PublicKey{}, err
	}
	return ExtraAccountMetaList{
		Mint: mint,
		Bump: bump,
		Metas: []ExtraAccountMeta{
			FixedMeta(addr, false, false),
			FixedMeta(programID, false, false),
		},
	}, addr, nil
}

// Validate checks every meta and the list size.
func (l ExtraAccountMetaList) Validate() error {
	if len(l.Metas) > appconsts.MaxExtraAccountMetas {
		return errorsmod.Wrapf(ErrInvalidExtraAccount, "%d metas, max %d", len(l.Metas), appconsts.MaxExtraAccountMetas)
	}
	for i, m := range l.Metas {
		if err := m.Validate(); err != nil {
			return errorsmod.Wrapf(err, "meta %d", i)
		}
	}
	return nil
}

// Resolve returns the concrete extra accounts for a transfer with the given
// base accounts.
func (l ExtraAccountMetaList) Resolve(programID solana.PublicKey, base solana.AccountMetaSlice) (solana.AccountMetaSlice, error) {
	accounts := make(solana.AccountMetaSlice, len(base), len(base)+len(l.Metas))
	copy(accounts, base)
	for i, m := range l.Metas {
		meta, err := m.Resolve(programID, accounts)
		if err != nil {
			return nil, errorsmod.Wrapf(err, "meta %d", i)
		}
		accounts = append(accounts, meta)
	}
	return accounts[len(base):], nil
}

// Marshal encodes the list for storage.
func (l ExtraAccountMetaList) Marshal() ([]byte, error) {
	return bin.MarshalBorsh(&l)
}

// UnmarshalExtraAccountMetaList decodes a stored list.
func UnmarshalExtraAccountMetaList(bz []byte) (ExtraAccountMetaList, error) {
	var l ExtraAccountMetaList
	if err := bin.UnmarshalBorsh(&l, bz); err != nil {
		return ExtraAccountMetaList{}, err
	}
	return l, nil
}

// MatchesExtraAccounts reports whether supplied equals expected in length,
// order, identity and privileges.
func MatchesExtraAccounts(expected, supplied solana.AccountMetaSlice) error {
	if len(expected) != len(supplied) {
		return errorsmod.Wrapf(ErrMissingHookAccounts, "expected %d extra accounts, got %d", len(expected), len(supplied))
	}
	for i := range expected {
		want, got := expected[i], supplied[i]
		if !want.PublicKey.Equals(got.PublicKey) {
			return errorsmod.Wrapf(ErrMissingHookAccounts, "extra account %d: expected %s, got %s", i, want.PublicKey, got.PublicKey)
		}
		if want.IsSigner != got.IsSigner || want.IsWritable != got.IsWritable {
			return errorsmod.Wrapf(ErrMissingHookAccounts, "extra account %d: privileges do not match", i)
		}
	}
	return nil
}
