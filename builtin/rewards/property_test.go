// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/thor"
)

type randomOp struct {
	Kind    uint8
	Account uint8
	Amount  uint32
	Advance uint16
}

// TestRandomSequences drives random interleavings of all user operations and checks after each one
// that the reward integral never decreases, the ledger sums up, and no more is owed or paid than was notified.
func TestRandomSequences(t *testing.T) {
	for seed := range int64(8) {
		f := newFixture(t, 3600)
		accounts := datagen.RandAddresses(4)

		var ops []randomOp
		fuzz.NewWithSeed(seed).NilChance(0).NumElements(100, 300).Fuzz(&ops)

		now := t0
		notified := new(uint256.Int)
		lastRPT := new(uint256.Int)

		for _, op := range ops {
			now += uint64(op.Advance % 900)
			acc := accounts[int(op.Account)%len(accounts)]
			amount := new(uint256.Int).Mul(uint256.NewInt(uint64(op.Amount)+1), uint256.NewInt(1e12))
			env := f.env(acc, now)

			var err error
			switch op.Kind % 6 {
			case 0, 1:
				f.fund(acc, amount)
				err = f.pool.Stake(env, amount)
			case 2:
				bal, e := f.pool.BalanceOf(acc)
				require.NoError(t, e)
				err = f.pool.Withdraw(env, bal.Div(bal, uint256.NewInt(2)))
			case 3:
				_, err = f.pool.GetReward(env)
			case 4:
				_, err = f.pool.Exit(env)
			case 5:
				require.NoError(t, f.rewards.Mint(f.pool.Address(), amount))
				if err = f.pool.NotifyRewardAmount(f.env(f.admin, now), amount); err == nil {
					notified.Add(notified, amount)
				}
			}
			if err != nil {
				require.True(t, reverts.IsRevertErr(err), "unexpected error %v", err)
			}

			st, err := f.pool.RewardState()
			require.NoError(t, err)
			require.True(t, lastRPT.Cmp(st.RewardPerTokenStored) <= 0, "reward per token decreased")
			lastRPT = st.RewardPerTokenStored
			require.True(t, st.LastUpdateTime <= st.PeriodFinish || st.PeriodFinish == 0)

			supply, err := f.pool.TotalSupply()
			require.NoError(t, err)
			balances := new(uint256.Int)
			owed := new(uint256.Int)
			paid := new(uint256.Int)
			for _, a := range accounts {
				bal, err := f.pool.BalanceOf(a)
				require.NoError(t, err)
				balances.Add(balances, bal)
				owed.Add(owed, f.earned(a, now))
				paid.Add(paid, f.claimed(a))
			}
			require.Equal(t, supply, balances)

			total := new(uint256.Int).Add(owed, paid)
			require.True(t, total.Cmp(notified) <= 0, "owed %s + paid %s exceeds notified %s", owed.Dec(), paid.Dec(), notified.Dec())

			held, err := f.rewards.BalanceOf(f.pool.Address())
			require.NoError(t, err)
			assert.True(t, owed.Cmp(held) <= 0, "pool is insolvent")
		}
	}
}

// TestPrecisionAppliedOnce stakes a dust amount next to a whale and checks the dust staker is not rounded away.
func TestPrecisionAppliedOnce(t *testing.T) {
	f := newFixture(t, week)
	whale := datagen.RandAddress()
	dust := datagen.RandAddress()

	f.notify(tokens(1000), t0)
	f.stake(whale, tokens(1_000_000), t0)
	f.stake(dust, uint256.NewInt(1e9), t0)

	earned := f.earned(dust, t0+week)
	// 1e9 / 1e24 of 1000 tokens
	assertApprox(t, uint256.NewInt(1_000_000), earned, 1)

	st, err := f.pool.RewardState()
	require.NoError(t, err)
	assert.Equal(t, thor.DefaultRewardsDuration, st.RewardsDuration)
}
