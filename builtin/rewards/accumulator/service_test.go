// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accumulator

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

func M(a ...any) []any {
	return a
}

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func tokens(v uint64) *uint256.Int {
	return new(uint256.Int).Mul(u(v), thor.RewardPrecision)
}

func running(rate, start, duration uint64) *RewardState {
	return &RewardState{
		RewardRate:           u(rate),
		RewardsDuration:      duration,
		PeriodFinish:         start + duration,
		LastUpdateTime:       start,
		RewardPerTokenStored: new(uint256.Int),
	}
}

func TestLastTimeRewardApplicable(t *testing.T) {
	st := running(1, 100, 50)

	assert.Equal(t, uint64(120), st.LastTimeRewardApplicable(120))
	assert.Equal(t, uint64(150), st.LastTimeRewardApplicable(150))
	assert.Equal(t, uint64(150), st.LastTimeRewardApplicable(1000))
}

func TestRewardPerToken(t *testing.T) {
	st := running(10, 0, 100)

	tests := []struct {
		ret      any
		expected any
	}{
		// nothing staked
		{M(st.RewardPerToken(50, u(0))), M(u(0), nil)},
		// 50s * 10/s over 1000 staked
		{M(st.RewardPerToken(50, u(1000))), M(u(500_000_000_000_000_000), nil)},
		// capped at period finish
		{M(st.RewardPerToken(500, u(1000))), M(u(1_000_000_000_000_000_000), nil)},
		{M(st.RewardPerToken(0, u(1000))), M(u(0), nil)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.ret)
	}
}

func TestRewardPerTokenClockBehind(t *testing.T) {
	st := running(10, 100, 100)
	st.RewardPerTokenStored = u(7)

	rpt, err := st.RewardPerToken(40, u(1000))
	require.NoError(t, err)
	assert.Equal(t, u(7), rpt)

	require.NoError(t, st.Update(40, u(1000)))
	assert.Equal(t, uint64(100), st.LastUpdateTime)
}

func TestRewardPerTokenOverflow(t *testing.T) {
	st := running(1, 0, 10)
	st.RewardRate = thor.MaxUint256

	_, err := st.RewardPerToken(5, u(1))
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestNotify(t *testing.T) {
	st := (&RewardState{RewardsDuration: 100}).normalize()

	require.NoError(t, st.Notify(1000, u(1000), u(1000)))
	assert.Equal(t, u(10), st.RewardRate)
	assert.Equal(t, uint64(1000), st.LastUpdateTime)
	assert.Equal(t, uint64(1100), st.PeriodFinish)

	// half way through, 500 is undistributed and rolls over
	require.NoError(t, st.Update(1050, u(1)))
	require.NoError(t, st.Notify(1050, u(1000), u(1500)))
	assert.Equal(t, u(15), st.RewardRate)
	assert.Equal(t, uint64(1150), st.PeriodFinish)

	total, err := st.RewardForDuration()
	require.NoError(t, err)
	assert.Equal(t, u(1500), total)
}

func TestNotifyRemainderDropped(t *testing.T) {
	st := (&RewardState{RewardsDuration: 7}).normalize()

	require.NoError(t, st.Notify(0, u(100), u(100)))
	assert.Equal(t, u(14), st.RewardRate)

	total, err := st.RewardForDuration()
	require.NoError(t, err)
	assert.Equal(t, u(98), total)
}

func TestNotifyErrors(t *testing.T) {
	st := (&RewardState{RewardsDuration: 100}).normalize()
	assert.ErrorIs(t, st.Notify(0, tokens(10), tokens(9)), ErrInsufficientRewardBalance)

	// state untouched
	assert.Equal(t, u(0), st.RewardRate)
	assert.Equal(t, uint64(0), st.PeriodFinish)

	zero := (&RewardState{}).normalize()
	assert.ErrorIs(t, zero.Notify(0, u(1), u(1)), ErrInvalidDuration)

	late := (&RewardState{RewardsDuration: 100}).normalize()
	assert.ErrorIs(t, late.Notify(^uint64(0)-10, u(1), u(1)), ErrOverflow)

	// zero amount starts a zero rate period
	empty := (&RewardState{RewardsDuration: 100}).normalize()
	require.NoError(t, empty.Notify(5, u(0), u(0)))
	assert.Equal(t, uint64(105), empty.PeriodFinish)
}

func TestSetDuration(t *testing.T) {
	st := running(1, 0, 100)

	assert.Error(t, st.SetDuration(50, 10))
	assert.Error(t, st.SetDuration(100, 10))
	assert.ErrorIs(t, st.SetDuration(101, 0), ErrInvalidDuration)
	require.NoError(t, st.SetDuration(101, 10))
	assert.Equal(t, uint64(10), st.RewardsDuration)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	svc := New(solidity.NewContext(thor.BytesToAddress([]byte("pool")), state.New(db)))

	st, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, &RewardState{RewardRate: u(0), RewardPerTokenStored: u(0)}, st)

	require.NoError(t, svc.Set(running(10, 0, 100)))

	st, err = svc.Settle(50, u(1000))
	require.NoError(t, err)
	assert.Equal(t, u(500_000_000_000_000_000), st.RewardPerTokenStored)
	assert.Equal(t, uint64(50), st.LastUpdateTime)

	stored, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, st, stored)

	cpy := stored.Copy()
	cpy.RewardRate.SetUint64(1)
	assert.Equal(t, u(10), stored.RewardRate)
}
