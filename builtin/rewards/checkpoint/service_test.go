// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package checkpoint

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/thor"
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func TestEarned(t *testing.T) {
	cp := (&Checkpoint{RewardPerTokenPaid: u(2e18), Rewards: u(5)}).normalize()

	earned, err := cp.Earned(u(100), u(3e18))
	require.NoError(t, err)
	assert.Equal(t, u(105), earned)

	// truncated toward zero
	earned, err = cp.Earned(u(1), u(2e18+999_999_999_999_999_999))
	require.NoError(t, err)
	assert.Equal(t, u(5), earned)

	_, err = cp.Earned(u(1), u(1))
	assert.Error(t, err)
}

func TestService(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	svc := New(solidity.NewContext(thor.BytesToAddress([]byte("pool")), state.New(db)))
	acc := datagen.RandAddress()

	cp, err := svc.Get(acc)
	require.NoError(t, err)
	assert.Equal(t, &Checkpoint{RewardPerTokenPaid: u(0), Rewards: u(0)}, cp)

	cp, err = svc.Settle(acc, u(10), u(1e18))
	require.NoError(t, err)
	assert.Equal(t, &Checkpoint{RewardPerTokenPaid: u(1e18), Rewards: u(10)}, cp)

	// settling twice at the same integral is a no-op
	cp, err = svc.Settle(acc, u(10), u(1e18))
	require.NoError(t, err)
	assert.Equal(t, u(10), cp.Rewards)

	claimed, err := svc.Claim(acc)
	require.NoError(t, err)
	assert.Equal(t, u(10), claimed)

	cp, err = svc.Get(acc)
	require.NoError(t, err)
	assert.Equal(t, &Checkpoint{RewardPerTokenPaid: u(1e18), Rewards: u(0)}, cp)
}
