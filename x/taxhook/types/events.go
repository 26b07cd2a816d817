package types

const (
	EventTypeRegistryInitialized = "taxhook.registry_initialized"
	EventTypeRegistryUpdated     = "taxhook.registry_updated"
	EventTypeTreasuryInitialized = "taxhook.treasury_initialized"
	EventTypeFeeCollected        = "taxhook.fee_collected"
	EventTypeWithdraw            = "taxhook.withdraw"

	AttributeKeyMint        = "mint"
	AttributeKeyFeeMint     = "fee_mint"
	AttributeKeyRegistry    = "registry"
	AttributeKeyTreasury    = "treasury"
	AttributeKeyAuthority   = "authority"
	AttributeKeyPayer       = "payer"
	AttributeKeySource      = "source"
	AttributeKeyDestination = "destination"
	AttributeKeyAmount      = "amount"
	AttributeKeyFee         = "fee"
	AttributeKeyMetas       = "metas"
)
