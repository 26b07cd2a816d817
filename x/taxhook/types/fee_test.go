package types_test

import (
	"math"
	"testing"

	"github.com/celestiaorg/taxhook/pkg/appconsts"
	"github.com/celestiaorg/taxhook/x/taxhook/types"
	"github.com/stretchr/testify/require"
)

func TestComputeFee(t *testing.T) {
	testCases := []struct {
		name        string
		amount      uint64
		basisPoints uint64
		expected    uint64
		expErr      error
	}{
		{name: "zero amount", amount: 0, basisPoints: 100, expected: 0},
		{name: "rounds down to zero", amount: 50, basisPoints: 100, expected: 0},
		{name: "99 rounds down to zero", amount: 99, basisPoints: 100, expected: 0},
		{name: "smallest non-zero fee", amount: 100, basisPoints: 100, expected: 1},
		{name: "transfer of 1000 tokens", amount: 1_000_000_000_000, basisPoints: 100, expected: 10_000_000_000},
		{name: "zero rate", amount: 1_000_000, basisPoints: 0, expected: 0},
		{name: "full rate", amount: 1_000_000, basisPoints: 10_000, expected: 1_000_000},
		{
			name:        "max amount does not wrap",
			amount:      math.MaxUint64,
			basisPoints: 100,
			expected:    math.MaxUint64 / 100,
		},
		{
			name:        "max amount at full rate",
			amount:      math.MaxUint64,
			basisPoints: appconsts.BasisPointsDenominator,
			expected:    math.MaxUint64,
		},
		{
			name:        "quotient above 64 bits",
			amount:      math.MaxUint64,
			basisPoints: 20_000,
			expErr:      types.ErrArithmeticOverflow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fee, err := types.ComputeFee(tc.amount, tc.basisPoints)
			if tc.expErr != nil {
				require.ErrorIs(t, err, tc.expErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, fee)
		})
	}
}

func TestComputeFeeIsMonotonic(t *testing.T) {
	prev := uint64(0)
	for amount := uint64(0); amount < 1_000; amount++ {
		fee, err := types.ComputeFee(amount, appconsts.DefaultFeeBasisPoints)
		require.NoError(t, err)
		require.GreaterOrEqual(t, fee, prev)
		require.LessOrEqual(t, fee, amount)
		prev = fee
	}
}

func TestValidateFeeBasisPoints(t *testing.T) {
	require.NoError(t, types.ValidateFeeBasisPoints(0))
	require.NoError(t, types.ValidateFeeBasisPoints(appconsts.BasisPointsDenominator))
	err := types.ValidateFeeBasisPoints(appconsts.BasisPointsDenominator + 1)
	require.ErrorIs(t, err, types.ErrInvalidFeeRate)
	require.NotErrorIs(t, err, types.ErrArithmeticOverflow)
}
