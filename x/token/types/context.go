package types

import sdk "github.com/cosmos/cosmos-sdk/types"

type transferHookKey struct{}

// WithinTransferHook marks ctx as executing the hook of a checked transfer.
func WithinTransferHook(ctx sdk.Context) sdk.Context {
	return ctx.WithValue(transferHookKey{}, true)
}

// InTransferHook reports whether ctx is executing the hook of a checked
// transfer on behalf of the token runtime.
func InTransferHook(ctx sdk.Context) bool {
	v, ok := ctx.Value(transferHookKey{}).(bool)
	return ok && v
}
