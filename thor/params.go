// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import "github.com/holiman/uint256"

const (
	// DefaultRewardsDuration is one week, the reward period of the dev genesis.
	DefaultRewardsDuration uint64 = 7 * 24 * 60 * 60

	// TokenDecimals is the decimals of the tokens created by the dev genesis.
	TokenDecimals uint8 = 18
)

var (
	// RewardPrecision scales the reward-per-token integral.
	// It is applied exactly once when the integral grows and removed once when earnings are read.
	RewardPrecision = uint256.NewInt(1e18)

	// MaxUint256 is used as the infinite token allowance.
	MaxUint256 = new(uint256.Int).SetAllOne()
)
