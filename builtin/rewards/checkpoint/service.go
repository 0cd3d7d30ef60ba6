// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoint

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/thor"
)

var (
	slotCheckpoints = thor.BytesToBytes32([]byte("checkpoints"))

	ErrOverflow = reverts.New(reverts.Overflow, "earned reward overflow")
)

// Checkpoint is the settlement record of one account.
type Checkpoint struct {
	RewardPerTokenPaid *uint256.Int // integral value at the last settlement
	Rewards            *uint256.Int // accrued and unclaimed
}

func (c *Checkpoint) normalize() *Checkpoint {
	if c.RewardPerTokenPaid == nil {
		c.RewardPerTokenPaid = new(uint256.Int)
	}
	if c.Rewards == nil {
		c.Rewards = new(uint256.Int)
	}
	return c
}

// Earned is the unclaimed reward of an account holding balance, valued at the integral rpt.
func (c *Checkpoint) Earned(balance, rpt *uint256.Int) (*uint256.Int, error) {
	diff, underflow := new(uint256.Int).SubOverflow(rpt, c.RewardPerTokenPaid)
	if underflow {
		return nil, errors.New("reward per token below paid checkpoint")
	}
	accrued, overflow := new(uint256.Int).MulDivOverflow(balance, diff, thor.RewardPrecision)
	if overflow {
		return nil, ErrOverflow
	}
	if _, overflow := accrued.AddOverflow(accrued, c.Rewards); overflow {
		return nil, ErrOverflow
	}
	return accrued, nil
}

type Service struct {
	checkpoints *solidity.Mapping[thor.Address, *Checkpoint]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		checkpoints: solidity.NewMapping[thor.Address, *Checkpoint](sctx, slotCheckpoints),
	}
}

// Get returns the checkpoint of account, all zero if it never settled.
func (s *Service) Get(account thor.Address) (*Checkpoint, error) {
	cp, err := s.checkpoints.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get checkpoint")
	}
	return cp.normalize(), nil
}

func (s *Service) Set(account thor.Address, cp *Checkpoint) error {
	if err := s.checkpoints.Set(account, cp.normalize()); err != nil {
		return errors.Wrap(err, "failed to set checkpoint")
	}
	return nil
}

// Settle credits the reward accrued since the last checkpoint and moves the checkpoint to rpt.
func (s *Service) Settle(account thor.Address, balance, rpt *uint256.Int) (*Checkpoint, error) {
	cp, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	earned, err := cp.Earned(balance, rpt)
	if err != nil {
		return nil, err
	}
	cp.Rewards = earned
	cp.RewardPerTokenPaid = new(uint256.Int).Set(rpt)
	if err := s.Set(account, cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// Claim zeroes the accrued rewards and returns the claimed amount.
func (s *Service) Claim(account thor.Address) (*uint256.Int, error) {
	cp, err := s.Get(account)
	if err != nil {
		return nil, err
	}
	claimed := cp.Rewards
	cp.Rewards = new(uint256.Int)
	if err := s.Set(account, cp); err != nil {
		return nil, err
	}
	return claimed, nil
}
