// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/builtin/rewards/accumulator"
	"github.com/vechain/rewardpool/builtin/rewards/ledger"
)

var (
	ErrZeroAmount                  = reverts.New(reverts.ZeroAmount, "cannot stake 0")
	ErrInsufficientBalance         = ledger.ErrInsufficientBalance
	ErrInsufficientRewardBalance   = accumulator.ErrInsufficientRewardBalance
	ErrRewardPeriodActive          = reverts.New(reverts.RewardPeriodActive, "previous rewards period must be complete before changing the duration")
	ErrUnauthorized                = reverts.New(reverts.Unauthorized, "caller is not authorized")
	ErrCannotRecoverProtectedToken = reverts.New(reverts.CannotRecoverProtectedToken, "cannot withdraw the staking or rewards token")
	ErrTransferFailed              = reverts.New(reverts.TransferFailed, "token transfer failed")
	ErrPaused                      = reverts.New(reverts.Paused, "pool is paused")
	ErrInvalidDuration             = accumulator.ErrInvalidDuration
	ErrOverflow                    = reverts.New(reverts.Overflow, "arithmetic overflow")
	ErrAlreadyInitialized          = errors.New("pool already initialized")
)

func transferFailed(err error) error {
	return reverts.Newf(reverts.TransferFailed, "token transfer failed: %v", err)
}

func isZero(amount *uint256.Int) bool {
	return amount == nil || amount.IsZero()
}
