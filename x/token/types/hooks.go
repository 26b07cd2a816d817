package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gagliardetto/solana-go"
)

// TransferHook is implemented by programs that must run on every checked
// transfer of the mints that name them.
type TransferHook interface {
	// ExtraAccountMetas resolves the accounts a transfer of mint must carry
	// after the four base accounts. accounts are the base accounts of the
	// transfer in order: source, mint, destination, authority.
	ExtraAccountMetas(ctx sdk.Context, mint solana.PublicKey, accounts solana.AccountMetaSlice) (solana.AccountMetaSlice, error)

	// Execute runs the hook for a transfer whose principal has already been
	// applied. Returning an error aborts the whole transfer.
	Execute(ctx sdk.Context, req HookRequest) error
}

// HookRequest is what the token runtime hands a hook program.
type HookRequest struct {
	Source      solana.PublicKey
	Mint        solana.PublicKey
	Destination solana.PublicKey
	Authority   solana.PublicKey
	Amount      uint64
	// ExtraAccounts are the accounts supplied after the base accounts.
	ExtraAccounts solana.AccountMetaSlice
	// Signers of the outer transfer. Hooks inherit them to move funds of
	// the same authority.
	Signers SignerSet
}

// BaseAccounts returns the four base accounts of the transfer in execution
// order.
func (r HookRequest) BaseAccounts() solana.AccountMetaSlice {
	return TransferBaseAccounts(r.Source, r.Mint, r.Destination, r.Authority)
}

// Accounts returns the base accounts followed by the extra accounts.
func (r HookRequest) Accounts() solana.AccountMetaSlice {
	return append(r.BaseAccounts(), r.ExtraAccounts...)
}

// TransferBaseAccounts returns the account metas a hook sees for the base
// accounts of a transfer. The hook cannot modify them.
func TransferBaseAccounts(source, mint, destination, authority solana.PublicKey) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		solana.Meta(source),
		solana.Meta(mint),
		solana.Meta(destination),
		solana.Meta(authority),
	}
}

// HookRouter maps hook program ids to their implementation.
type HookRouter struct {
	hooks  map[solana.PublicKey]TransferHook
	sealed bool
}

// NewHookRouter returns an empty router.
func NewHookRouter() *HookRouter {
	return &HookRouter{hooks: make(map[solana.PublicKey]TransferHook)}
}

// RegisterHook makes hook reachable under programID. It panics if the router
// is sealed or the program id is already taken.
func (r *HookRouter) RegisterHook(programID solana.PublicKey, hook TransferHook) {
	if r.sealed {
		panic("cannot register a transfer hook on a sealed router")
	}
	if _, ok := r.hooks[programID]; ok {
		panic(fmt.Sprintf("transfer hook already registered for program %s", programID))
	}
	r.hooks[programID] = hook
}

// Hook returns the hook registered under programID.
func (r *HookRouter) Hook(programID solana.PublicKey) (TransferHook, bool) {
	hook, ok := r.hooks[programID]
	return hook, ok
}

// Seal prevents further registrations.
func (r *HookRouter) Seal() {
	r.sealed = true
}
