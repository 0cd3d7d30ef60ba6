// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accumulator

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/thor"
)

var (
	slotRewardState = thor.BytesToBytes32([]byte("reward-state"))

	ErrInsufficientRewardBalance = reverts.New(reverts.InsufficientRewardBalance, "provided reward too high")
	ErrInvalidDuration           = reverts.New(reverts.InvalidDuration, "rewards duration must be positive")
	ErrOverflow                  = reverts.New(reverts.Overflow, "reward arithmetic overflow")
)

// RewardState is the global emission schedule and the reward-per-token integral.
// It is stored in one slot so the fields are always persisted together.
type RewardState struct {
	RewardRate           *uint256.Int // reward units per second, undistributed remainder is dropped
	RewardsDuration      uint64
	PeriodFinish         uint64
	LastUpdateTime       uint64
	RewardPerTokenStored *uint256.Int // scaled by RewardPrecision
}

func (s *RewardState) normalize() *RewardState {
	if s.RewardRate == nil {
		s.RewardRate = new(uint256.Int)
	}
	if s.RewardPerTokenStored == nil {
		s.RewardPerTokenStored = new(uint256.Int)
	}
	return s
}

// Copy returns a deep copy.
func (s *RewardState) Copy() *RewardState {
	cpy := *s
	cpy.RewardRate = new(uint256.Int).Set(s.RewardRate)
	cpy.RewardPerTokenStored = new(uint256.Int).Set(s.RewardPerTokenStored)
	return &cpy
}

// LastTimeRewardApplicable is min(now, periodFinish).
func (s *RewardState) LastTimeRewardApplicable(now uint64) uint64 {
	return min(now, s.PeriodFinish)
}

// RewardPerToken returns the integral extended up to now.
// The stored value is returned unchanged while nothing is staked, and when time did not move forward.
func (s *RewardState) RewardPerToken(now uint64, totalSupply *uint256.Int) (*uint256.Int, error) {
	stored := new(uint256.Int).Set(s.RewardPerTokenStored)
	if totalSupply.IsZero() {
		return stored, nil
	}
	applicable := s.LastTimeRewardApplicable(now)
	if applicable <= s.LastUpdateTime {
		return stored, nil
	}

	delta := uint256.NewInt(applicable - s.LastUpdateTime)
	emitted, overflow := delta.MulOverflow(delta, s.RewardRate)
	if overflow {
		return nil, ErrOverflow
	}
	// 512-bit intermediate, so this only overflows when the quotient does
	increment, overflow := new(uint256.Int).MulDivOverflow(emitted, thor.RewardPrecision, totalSupply)
	if overflow {
		return nil, ErrOverflow
	}
	if _, overflow := stored.AddOverflow(stored, increment); overflow {
		return nil, ErrOverflow
	}
	return stored, nil
}

// RewardForDuration is the total emission of a full period at the current rate.
func (s *RewardState) RewardForDuration() (*uint256.Int, error) {
	total, overflow := new(uint256.Int).MulOverflow(s.RewardRate, uint256.NewInt(s.RewardsDuration))
	if overflow {
		return nil, ErrOverflow
	}
	return total, nil
}

// Update checkpoints the integral at now.
func (s *RewardState) Update(now uint64, totalSupply *uint256.Int) error {
	rpt, err := s.RewardPerToken(now, totalSupply)
	if err != nil {
		return err
	}
	s.RewardPerTokenStored = rpt
	// never moves backwards
	s.LastUpdateTime = max(s.LastUpdateTime, s.LastTimeRewardApplicable(now))
	return nil
}

// Notify schedules amount to be emitted over a new period that starts at now.
// The undistributed part of a running period is rolled over into the new rate.
// The state must be updated at now beforehand; balance is the reward token balance held by the pool.
func (s *RewardState) Notify(now uint64, amount, balance *uint256.Int) error {
	if s.RewardsDuration == 0 {
		return ErrInvalidDuration
	}
	finish := now + s.RewardsDuration
	if finish < now {
		return ErrOverflow
	}
	duration := uint256.NewInt(s.RewardsDuration)

	total := new(uint256.Int).Set(amount)
	if now < s.PeriodFinish {
		leftover := uint256.NewInt(s.PeriodFinish - now)
		if _, overflow := leftover.MulOverflow(leftover, s.RewardRate); overflow {
			return ErrOverflow
		}
		if _, overflow := total.AddOverflow(total, leftover); overflow {
			return ErrOverflow
		}
	}
	rate := new(uint256.Int).Div(total, duration)

	// rate*duration <= total, no overflow possible
	scheduled := new(uint256.Int).Mul(rate, duration)
	if balance.Lt(scheduled) {
		return ErrInsufficientRewardBalance
	}

	s.RewardRate = rate
	s.LastUpdateTime = now
	s.PeriodFinish = finish
	return nil
}

// SetDuration changes the period length, only allowed once the current period elapsed.
func (s *RewardState) SetDuration(now, duration uint64) error {
	if now <= s.PeriodFinish {
		return reverts.Newf(reverts.RewardPeriodActive, "previous rewards period must be complete, finishes at %d", s.PeriodFinish)
	}
	if duration == 0 {
		return ErrInvalidDuration
	}
	s.RewardsDuration = duration
	return nil
}

// Service persists the reward state of a pool.
type Service struct {
	state *solidity.Value[*RewardState]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		state: solidity.NewValue[*RewardState](sctx, slotRewardState),
	}
}

// Get returns the stored reward state. A fresh pool has an all zero state.
func (s *Service) Get() (*RewardState, error) {
	st, err := s.state.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward state")
	}
	return st.normalize(), nil
}

func (s *Service) Set(st *RewardState) error {
	if err := s.state.Set(st.normalize()); err != nil {
		return errors.Wrap(err, "failed to set reward state")
	}
	return nil
}

// Settle checkpoints the integral at now and stores it.
func (s *Service) Settle(now uint64, totalSupply *uint256.Int) (*RewardState, error) {
	st, err := s.Get()
	if err != nil {
		return nil, err
	}
	if err := st.Update(now, totalSupply); err != nil {
		return nil, err
	}
	if err := s.Set(st); err != nil {
		return nil, err
	}
	return st, nil
}
