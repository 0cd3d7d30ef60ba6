// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

// Names of the events emitted by the pool.
const (
	EventStaked                 = "Staked"
	EventWithdrawn              = "Withdrawn"
	EventRewardPaid             = "RewardPaid"
	EventRewardAdded            = "RewardAdded"
	EventRewardsDurationUpdated = "RewardsDurationUpdated"
	EventRecovered              = "Recovered"
	EventPauseChanged           = "PauseChanged"
)

// EventNames lists every event the pool emits.
var EventNames = []string{
	EventStaked,
	EventWithdrawn,
	EventRewardPaid,
	EventRewardAdded,
	EventRewardsDurationUpdated,
	EventRecovered,
	EventPauseChanged,
}
