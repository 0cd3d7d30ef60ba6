// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

var (
	ErrInsufficientBalance   = reverts.New(reverts.InsufficientBalance, "token: transfer amount exceeds balance")
	ErrInsufficientAllowance = reverts.New(reverts.InsufficientAllowance, "token: insufficient allowance")
	ErrOverflow              = reverts.New(reverts.Overflow, "token: supply overflow")

	logger = log.WithContext("pkg", "token")

	slotMetadata    = nameToSlot("metadata")
	slotTotalSupply = nameToSlot("total-supply")
	slotBalances    = nameToSlot("balances")
	slotAllowances  = nameToSlot("allowances")
)

func nameToSlot(name string) thor.Bytes32 {
	return thor.BytesToBytes32([]byte(name))
}

// Metadata describes the token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

type allowanceKey struct {
	owner   thor.Address
	spender thor.Address
}

func (k allowanceKey) Bytes() []byte {
	return append(append(make([]byte, 0, 2*thor.AddressLength), k.owner[:]...), k.spender[:]...)
}

// Token implements a native fungible token over contract storage.
type Token struct {
	addr        thor.Address
	metadata    *solidity.Value[Metadata]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[thor.Address, *uint256.Int]
	allowances  *solidity.Mapping[allowanceKey, *uint256.Int]
}

// New creates the token bound to addr.
func New(addr thor.Address, state *state.State) *Token {
	ctx := solidity.NewContext(addr, state)
	return &Token{
		addr:        addr,
		metadata:    solidity.NewValue[Metadata](ctx, slotMetadata),
		totalSupply: solidity.NewUint256(ctx, slotTotalSupply),
		balances:    solidity.NewMapping[thor.Address, *uint256.Int](ctx, slotBalances),
		allowances:  solidity.NewMapping[allowanceKey, *uint256.Int](ctx, slotAllowances),
	}
}

func (t *Token) Address() thor.Address {
	return t.addr
}

func (t *Token) Metadata() (Metadata, error) {
	m, err := t.metadata.Get()
	if err != nil {
		return Metadata{}, errors.Wrap(err, "failed to get token metadata")
	}
	return m, nil
}

func (t *Token) SetMetadata(m Metadata) error {
	return t.metadata.Set(m)
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	supply, err := t.totalSupply.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total supply")
	}
	return supply, nil
}

func (t *Token) BalanceOf(addr thor.Address) (*uint256.Int, error) {
	bal, err := t.balances.Get(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}
	return bal, nil
}

func (t *Token) Allowance(owner, spender thor.Address) (*uint256.Int, error) {
	allowance, err := t.allowances.Get(allowanceKey{owner, spender})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get allowance")
	}
	return allowance, nil
}

func (t *Token) setBalance(addr thor.Address, bal *uint256.Int) error {
	if bal.IsZero() {
		t.balances.Delete(addr)
		return nil
	}
	return t.balances.Set(addr, bal)
}

// Mint creates amount new tokens for to.
func (t *Token) Mint(to thor.Address, amount *uint256.Int) error {
	if err := t.totalSupply.Add(amount); err != nil {
		if errors.Is(err, solidity.ErrUint256Overflow) {
			return ErrOverflow
		}
		return errors.Wrap(err, "failed to increase total supply")
	}
	bal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	// cannot overflow, bounded by the total supply
	bal.Add(bal, amount)
	if err := t.setBalance(to, bal); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	logger.Debug("minted", "token", t.addr, "to", to, "amount", amount)
	return nil
}

// Transfer moves amount from from to to.
func (t *Token) Transfer(from, to thor.Address, amount *uint256.Int) error {
	fromBal, err := t.BalanceOf(from)
	if err != nil {
		return err
	}
	if fromBal.Lt(amount) {
		return ErrInsufficientBalance
	}
	if from == to || amount.IsZero() {
		return nil
	}
	if err := t.setBalance(from, fromBal.Sub(fromBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}

	toBal, err := t.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := t.setBalance(to, toBal.Add(toBal, amount)); err != nil {
		return errors.Wrap(err, "failed to set balance")
	}
	return nil
}

// TransferFrom moves amount from from to to, spending the allowance granted by from to spender.
// The max uint256 allowance is never decremented.
func (t *Token) TransferFrom(spender, from, to thor.Address, amount *uint256.Int) error {
	allowance, err := t.Allowance(from, spender)
	if err != nil {
		return err
	}
	if allowance.Lt(amount) {
		return ErrInsufficientAllowance
	}
	if err := t.Transfer(from, to, amount); err != nil {
		return err
	}
	if allowance.Eq(thor.MaxUint256) {
		return nil
	}
	return t.Approve(from, spender, allowance.Sub(allowance, amount))
}

// Approve sets the allowance of spender over the tokens of owner.
func (t *Token) Approve(owner, spender thor.Address, amount *uint256.Int) error {
	key := allowanceKey{owner, spender}
	if amount.IsZero() {
		t.allowances.Delete(key)
		return nil
	}
	if err := t.allowances.Set(key, amount); err != nil {
		return errors.Wrap(err, "failed to set allowance")
	}
	return nil
}
