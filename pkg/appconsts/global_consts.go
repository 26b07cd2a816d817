package appconsts

// These constants are part of the on-chain contract of a deployed hook. Every
// client derives account locations from them, so they cannot change throughout
// the lifetime of a deployment.
const (
	// ExtraAccountMetasSeed is the tag used to derive the address of the
	// extra-account-metas registry of a hooked mint.
	ExtraAccountMetasSeed = "extra-account-metas"

	// TreasurySeed is the tag used to derive the address of the treasury of a
	// fee mint.
	TreasurySeed = "my-treasury"

	// BasisPointsDenominator is the number of basis points in 100%.
	BasisPointsDenominator uint64 = 10_000

	// DefaultFeeBasisPoints is the fee rate of a deployed hook: 100 bps = 1%.
	DefaultFeeBasisPoints uint64 = 100

	// MaxExtraAccountMetas bounds the size of a registry.
	MaxExtraAccountMetas = 10

	// MaxSeedLength is the maximum length of a single derivation seed.
	MaxSeedLength = 32

	// MaxSeeds is the maximum number of seeds, bump included, accepted by
	// program address derivation.
	MaxSeeds = 16

	// DefaultDecimals is the decimal precision used by the hooked mint in the
	// reference deployment.
	DefaultDecimals uint8 = 9
)

// Public identifiers of the reference devnet deployment. They are only used as
// configuration defaults.
const (
	DefaultHookProgramID = "hoo9kSHtfFY6PLUoqEkHcZQJpTQvDYBi16GNXji8Z98"
	DefaultHookedMint    = "pdGgJFH4AB4RBUwLouZSM5hREypXHDafeHc419cCz1p"
	// DefaultFeeMint is wrapped SOL.
	DefaultFeeMint = "So11111111111111111111111111111111111111112"
)
