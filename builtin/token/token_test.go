// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/thor"
)

func M(a ...any) []any {
	return a
}

func newToken(t *testing.T) *Token {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(thor.BytesToAddress([]byte("tok")), state.New(db))
}

func TestMetadata(t *testing.T) {
	tok := newToken(t)
	meta := Metadata{Name: "Staking", Symbol: "STK", Decimals: 18}
	require.NoError(t, tok.SetMetadata(meta))
	assert.Equal(t, M(meta, nil), M(tok.Metadata()))
	assert.Equal(t, thor.BytesToAddress([]byte("tok")), tok.Address())
}

func TestMintTransfer(t *testing.T) {
	tok := newToken(t)

	alice := datagen.RandAddress()
	bob := datagen.RandAddress()

	require.NoError(t, tok.Mint(alice, uint256.NewInt(100)))

	tests := []struct {
		ret      any
		expected any
	}{
		{M(tok.BalanceOf(alice)), M(uint256.NewInt(100), nil)},
		{M(tok.BalanceOf(bob)), M(uint256.NewInt(0), nil)},
		{M(tok.TotalSupply()), M(uint256.NewInt(100), nil)},
		{tok.Transfer(alice, bob, uint256.NewInt(30)), nil},
		{M(tok.BalanceOf(alice)), M(uint256.NewInt(70), nil)},
		{M(tok.BalanceOf(bob)), M(uint256.NewInt(30), nil)},
		{tok.Transfer(bob, alice, uint256.NewInt(31)), ErrInsufficientBalance},
		{tok.Transfer(bob, bob, uint256.NewInt(30)), nil},
		{M(tok.BalanceOf(bob)), M(uint256.NewInt(30), nil)},
		{M(tok.TotalSupply()), M(uint256.NewInt(100), nil)},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}
}

func TestMintOverflow(t *testing.T) {
	tok := newToken(t)
	addr := datagen.RandAddress()

	require.NoError(t, tok.Mint(addr, thor.MaxUint256))
	assert.ErrorIs(t, tok.Mint(addr, uint256.NewInt(1)), ErrOverflow)
}

func TestTransferFrom(t *testing.T) {
	tok := newToken(t)

	owner := datagen.RandAddress()
	spender := datagen.RandAddress()
	to := datagen.RandAddress()

	require.NoError(t, tok.Mint(owner, uint256.NewInt(100)))

	// no allowance
	assert.ErrorIs(t, tok.TransferFrom(spender, owner, to, uint256.NewInt(1)), ErrInsufficientAllowance)

	require.NoError(t, tok.Approve(owner, spender, uint256.NewInt(50)))
	require.NoError(t, tok.TransferFrom(spender, owner, to, uint256.NewInt(20)))

	assert.Equal(t, M(uint256.NewInt(30), nil), M(tok.Allowance(owner, spender)))
	assert.Equal(t, M(uint256.NewInt(80), nil), M(tok.BalanceOf(owner)))
	assert.Equal(t, M(uint256.NewInt(20), nil), M(tok.BalanceOf(to)))

	// allowance is enough, balance is not
	require.NoError(t, tok.Approve(owner, spender, uint256.NewInt(1000)))
	assert.ErrorIs(t, tok.TransferFrom(spender, owner, to, uint256.NewInt(81)), ErrInsufficientBalance)
	assert.Equal(t, M(uint256.NewInt(1000), nil), M(tok.Allowance(owner, spender)))
}

func TestInfiniteAllowance(t *testing.T) {
	tok := newToken(t)

	owner := datagen.RandAddress()
	spender := datagen.RandAddress()

	require.NoError(t, tok.Mint(owner, uint256.NewInt(10)))
	require.NoError(t, tok.Approve(owner, spender, thor.MaxUint256))
	require.NoError(t, tok.TransferFrom(spender, owner, spender, uint256.NewInt(10)))

	assert.Equal(t, M(thor.MaxUint256, nil), M(tok.Allowance(owner, spender)))

	require.NoError(t, tok.Approve(owner, spender, uint256.NewInt(0)))
	assert.Equal(t, M(uint256.NewInt(0), nil), M(tok.Allowance(owner, spender)))
}
