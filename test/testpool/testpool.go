// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testpool builds a dev pool over in-memory stores for API tests.
package testpool

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/eventdb"
	"github.com/vechain/rewardpool/genesis"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

// LaunchTime is the clock reading of a new pool.
const LaunchTime = 1526400000

// Pool is a runtime over the dev genesis with a manual clock.
type Pool struct {
	Genesis *genesis.Genesis
	Clock   *runtime.ManualClock
	Runtime *runtime.Runtime
	EventDB *eventdb.EventDB
}

func New(t testing.TB) *Pool {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	edb, err := eventdb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { edb.Close() })

	gen := genesis.NewDevnet()
	st := state.New(state.StoreBucket.NewStore(db))
	_, err = gen.Build(st)
	require.NoError(t, err)
	require.NoError(t, st.Commit())

	clock := runtime.NewManualClock(LaunchTime)
	rt := runtime.New(st, clock, edb, 0)
	t.Cleanup(rt.Close)

	return &Pool{
		Genesis: gen,
		Clock:   clock,
		Runtime: rt,
		EventDB: edb,
	}
}

// Authority is the dev account allowed to administer the pool.
func (p *Pool) Authority() thor.Address {
	return genesis.DevAccounts()[0].Address
}

// Account returns the i-th dev account.
func (p *Pool) Account(i int) thor.Address {
	return genesis.DevAccounts()[i].Address
}

// Approve lets the pool pull any amount of the staking token from owner.
func (p *Pool) Approve(t testing.TB, owner thor.Address) {
	_, err := p.Runtime.Exec(owner, func(env *xenv.Environment) error {
		tk, err := builtin.Token(env.State(), p.Genesis.StakingToken())
		if err != nil {
			return err
		}
		return tk.Approve(env.Caller(), builtin.Pool.Address, new(uint256.Int).SetAllOne())
	})
	require.NoError(t, err)
}

// Fund transfers reward tokens from the authority to the pool.
func (p *Pool) Fund(t testing.TB, amount uint64) {
	_, err := p.Runtime.Exec(p.Authority(), func(env *xenv.Environment) error {
		tk, err := builtin.Token(env.State(), p.Genesis.RewardToken())
		if err != nil {
			return err
		}
		return tk.Transfer(env.Caller(), builtin.Pool.Address, uint256.NewInt(amount))
	})
	require.NoError(t, err)
}
