// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/vechain/rewardpool/api/events"
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/thor"
)

// State is a snapshot of the pool as of Now.
type State struct {
	Address                  thor.Address  `json:"address"`
	StakingToken             thor.Address  `json:"stakingToken"`
	RewardsToken             thor.Address  `json:"rewardsToken"`
	TotalSupply              *utils.Amount `json:"totalSupply"`
	RewardRate               *utils.Amount `json:"rewardRate"`
	RewardsDuration          uint64        `json:"rewardsDuration"`
	PeriodFinish             uint64        `json:"periodFinish"`
	LastUpdateTime           uint64        `json:"lastUpdateTime"`
	RewardPerTokenStored     *utils.Amount `json:"rewardPerTokenStored"`
	RewardPerToken           *utils.Amount `json:"rewardPerToken"`
	LastTimeRewardApplicable uint64        `json:"lastTimeRewardApplicable"`
	RewardForDuration        *utils.Amount `json:"rewardForDuration"`
	Paused                   bool          `json:"paused"`
	Now                      uint64        `json:"now"`
}

// Account is the position of one account as of Now.
type Account struct {
	Address            thor.Address  `json:"address"`
	Balance            *utils.Amount `json:"balance"`
	Earned             *utils.Amount `json:"earned"`
	RewardPerTokenPaid *utils.Amount `json:"rewardPerTokenPaid"`
	Rewards            *utils.Amount `json:"rewards"`
	Now                uint64        `json:"now"`
}

// AmountRequest is the body of stake, withdraw and notify.
type AmountRequest struct {
	Caller *thor.Address `json:"caller"`
	Amount *utils.Amount `json:"amount"`
}

// CallerRequest is the body of reward and exit.
type CallerRequest struct {
	Caller *thor.Address `json:"caller"`
}

type DurationRequest struct {
	Caller   *thor.Address `json:"caller"`
	Duration *uint64       `json:"duration"`
}

type RecoverRequest struct {
	Caller *thor.Address `json:"caller"`
	Token  *thor.Address `json:"token"`
	Amount *utils.Amount `json:"amount"`
}

type PauseRequest struct {
	Caller *thor.Address `json:"caller"`
	Paused *bool         `json:"paused"`
}

// Receipt lists the events emitted by a committed operation.
type Receipt struct {
	Events []*events.Event `json:"events"`
	Paid   *utils.Amount   `json:"paid,omitempty"`
}
