// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/thor"
)

var (
	slotTotalSupply = thor.BytesToBytes32([]byte("total-supply"))
	slotBalances    = thor.BytesToBytes32([]byte("balances"))

	ErrInsufficientBalance = reverts.New(reverts.InsufficientBalance, "cannot withdraw more than staked")
	ErrOverflow            = reverts.New(reverts.Overflow, "total staked overflow")
)

// Service tracks the total staked amount and the staked balance of every account.
// The sum of all balances always equals the total supply.
type Service struct {
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *uint256.Int]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *uint256.Int](sctx, slotBalances),
	}
}

// TotalSupply returns the total staked amount.
func (s *Service) TotalSupply() (*uint256.Int, error) {
	supply, err := s.totalSupply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total staked")
	}
	return supply, nil
}

// BalanceOf returns the staked balance of account.
func (s *Service) BalanceOf(account thor.Address) (*uint256.Int, error) {
	bal, err := s.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staked balance")
	}
	return bal, nil
}

// Deposit increases both the account balance and the total by amount.
func (s *Service) Deposit(account thor.Address, amount *uint256.Int) error {
	if err := s.totalSupply.Add(amount); err != nil {
		if errors.Is(err, solidity.ErrUint256Overflow) {
			return ErrOverflow
		}
		return errors.Wrap(err, "failed to increase total staked")
	}
	bal, err := s.BalanceOf(account)
	if err != nil {
		return err
	}
	// bounded by the total
	bal.Add(bal, amount)
	return s.balances.Set(account, bal)
}

// Withdraw decreases both the account balance and the total by amount.
// A fully withdrawn balance is kept as zero.
func (s *Service) Withdraw(account thor.Address, amount *uint256.Int) error {
	bal, err := s.BalanceOf(account)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return ErrInsufficientBalance
	}
	if err := s.totalSupply.Sub(amount); err != nil {
		return errors.Wrap(err, "failed to decrease total staked")
	}
	bal.Sub(bal, amount)
	return s.balances.Set(account, bal)
}
