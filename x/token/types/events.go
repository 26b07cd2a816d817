package types

const (
	EventTypeInitializeMint = "initialize_mint"
	EventTypeCreateHolding  = "create_holding"
	EventTypeMintTo         = "mint_to"
	EventTypeTransfer       = "transfer"

	AttributeKeyMint         = "mint"
	AttributeKeyHolding      = "holding"
	AttributeKeyOwner        = "owner"
	AttributeKeySource       = "source"
	AttributeKeyDestination  = "destination"
	AttributeKeyAuthority    = "authority"
	AttributeKeyAmount       = "amount"
	AttributeKeyHookProgram  = "hook_program"
	AttributeKeyTokenProgram = "token_program"
)
