package types

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/celestiaorg/taxhook/pkg/appconsts"
)

// ComputeFee returns floor(amount * basisPoints / 10000). The product is taken
// in 256-bit arithmetic so it never wraps; an error is returned only if the
// quotient does not fit in 64 bits, which requires basisPoints above 10000.
func ComputeFee(amount, basisPoints uint64) (uint64, error) {
	fee := sdkmath.NewUint(amount).MulUint64(basisPoints).QuoUint64(appconsts.BasisPointsDenominator)
	if !fee.BigInt().IsUint64() {
		return 0, errorsmod.Wrapf(ErrArithmeticOverflow, "fee of %d at %d bps", amount, basisPoints)
	}
	return fee.Uint64(), nil
}

// ValidateFeeBasisPoints checks that a fee rate is at most 100%.
func ValidateFeeBasisPoints(basisPoints uint64) error {
	if basisPoints > appconsts.BasisPointsDenominator {
		return errorsmod.Wrapf(ErrInvalidFeeRate, "fee rate %d exceeds %d basis points", basisPoints, appconsts.BasisPointsDenominator)
	}
	return nil
}
