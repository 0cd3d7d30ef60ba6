// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/api/pool"
	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/builtin/rewards"
	"github.com/vechain/rewardpool/test/testpool"
	"github.com/vechain/rewardpool/thor"
)

const week = 604800

func initPoolServer(t *testing.T) (*httptest.Server, *testpool.Pool) {
	tp := testpool.New(t)

	router := mux.NewRouter()
	pool.New(tp.Runtime).Mount(router, "/pool")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, tp
}

func httpGet(t *testing.T, url string) ([]byte, int) {
	res, err := http.Get(url) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func httpPost(t *testing.T, url string, obj any) ([]byte, int) {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return body, res.StatusCode
}

func post(t *testing.T, url string, obj any) *pool.Receipt {
	body, status := httpPost(t, url, obj)
	require.Equal(t, http.StatusOK, status, string(body))
	var receipt pool.Receipt
	require.NoError(t, json.Unmarshal(body, &receipt))
	return &receipt
}

func getAccount(t *testing.T, ts *httptest.Server, addr thor.Address) *pool.Account {
	body, status := httpGet(t, ts.URL+"/pool/accounts/"+addr.String())
	require.Equal(t, http.StatusOK, status, string(body))
	var acc pool.Account
	require.NoError(t, json.Unmarshal(body, &acc))
	return &acc
}

func amount(v string) map[string]any {
	return map[string]any{"amount": v}
}

func with(caller thor.Address, body map[string]any) map[string]any {
	body["caller"] = caller.String()
	return body
}

func TestGetPool(t *testing.T) {
	ts, tp := initPoolServer(t)

	body, status := httpGet(t, ts.URL+"/pool")
	require.Equal(t, http.StatusOK, status, string(body))

	var st pool.State
	require.NoError(t, json.Unmarshal(body, &st))
	assert.Equal(t, builtin.Pool.Address, st.Address)
	assert.Equal(t, tp.Genesis.StakingToken(), st.StakingToken)
	assert.Equal(t, tp.Genesis.RewardToken(), st.RewardsToken)
	assert.Equal(t, "0", st.TotalSupply.String())
	assert.Equal(t, "0", st.RewardRate.String())
	assert.Equal(t, uint64(week), st.RewardsDuration)
	assert.Equal(t, uint64(0), st.PeriodFinish)
	assert.False(t, st.Paused)
	assert.Equal(t, uint64(testpool.LaunchTime), st.Now)
}

func TestStakeAndClaim(t *testing.T) {
	ts, tp := initPoolServer(t)
	staker := tp.Account(1)
	tp.Approve(t, staker)
	tp.Fund(t, week)

	receipt := post(t, ts.URL+"/pool/admin/notify", with(tp.Authority(), amount("604800")))
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, rewards.EventRewardAdded, receipt.Events[0].Name)
	assert.Equal(t, "604800", receipt.Events[0].Amount.String())

	receipt = post(t, ts.URL+"/pool/stake", with(staker, amount("1000")))
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, rewards.EventStaked, receipt.Events[0].Name)
	assert.Equal(t, staker, receipt.Events[0].Account)
	assert.Nil(t, receipt.Paid)

	tp.Clock.Advance(100)
	acc := getAccount(t, ts, staker)
	assert.Equal(t, "1000", acc.Balance.String())
	assert.Equal(t, "100", acc.Earned.String())

	receipt = post(t, ts.URL+"/pool/reward", with(staker, map[string]any{}))
	require.NotNil(t, receipt.Paid)
	assert.Equal(t, "100", receipt.Paid.String())
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, rewards.EventRewardPaid, receipt.Events[0].Name)

	// nothing accrued in the same second
	receipt = post(t, ts.URL+"/pool/reward", with(staker, map[string]any{}))
	assert.Equal(t, "0", receipt.Paid.String())
	assert.Len(t, receipt.Events, 0)

	tp.Clock.Advance(50)
	receipt = post(t, ts.URL+"/pool/exit", with(staker, map[string]any{}))
	assert.Equal(t, "50", receipt.Paid.String())
	require.Len(t, receipt.Events, 2)
	assert.Equal(t, rewards.EventWithdrawn, receipt.Events[0].Name)
	assert.Equal(t, "1000", receipt.Events[0].Amount.String())
	assert.Equal(t, rewards.EventRewardPaid, receipt.Events[1].Name)

	acc = getAccount(t, ts, staker)
	assert.Equal(t, "0", acc.Balance.String())
	assert.Equal(t, "0", acc.Earned.String())
}

func TestWithdraw(t *testing.T) {
	ts, tp := initPoolServer(t)
	staker := tp.Account(2)
	tp.Approve(t, staker)

	post(t, ts.URL+"/pool/stake", with(staker, amount("0x64")))
	receipt := post(t, ts.URL+"/pool/withdraw", with(staker, amount("40")))
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, rewards.EventWithdrawn, receipt.Events[0].Name)

	acc := getAccount(t, ts, staker)
	assert.Equal(t, "60", acc.Balance.String())

	body, status := httpPost(t, ts.URL+"/pool/withdraw", with(staker, amount("61")))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "InsufficientBalance")
}

func TestAdmin(t *testing.T) {
	ts, tp := initPoolServer(t)
	admin := tp.Authority()

	receipt := post(t, ts.URL+"/pool/admin/duration", with(admin, map[string]any{"duration": 3600}))
	require.Len(t, receipt.Events, 1)
	assert.Equal(t, rewards.EventRewardsDurationUpdated, receipt.Events[0].Name)
	assert.Equal(t, "3600", receipt.Events[0].Amount.String())

	post(t, ts.URL+"/pool/admin/pause", with(admin, map[string]any{"paused": true}))
	body, _ := httpGet(t, ts.URL+"/pool")
	var st pool.State
	require.NoError(t, json.Unmarshal(body, &st))
	assert.True(t, st.Paused)
	assert.Equal(t, uint64(3600), st.RewardsDuration)

	staker := tp.Account(1)
	tp.Approve(t, staker)
	body, status := httpPost(t, ts.URL+"/pool/stake", with(staker, amount("1")))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "Paused")

	body, status = httpPost(t, ts.URL+"/pool/admin/recover", with(admin, map[string]any{
		"token":  tp.Genesis.StakingToken().String(),
		"amount": "1",
	}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "CannotRecoverProtectedToken")
}

func TestErrors(t *testing.T) {
	ts, tp := initPoolServer(t)
	stranger := tp.Account(3)

	tests := []struct {
		name   string
		path   string
		body   any
		status int
		msg    string
	}{
		{"no caller", "/pool/stake", amount("1"), http.StatusBadRequest, "caller required"},
		{"no amount", "/pool/stake", with(stranger, map[string]any{}), http.StatusBadRequest, "amount required"},
		{"negative amount", "/pool/stake", with(stranger, amount("-1")), http.StatusBadRequest, "body"},
		{"unknown field", "/pool/exit", with(stranger, map[string]any{"foo": 1}), http.StatusBadRequest, "body"},
		{"zero stake", "/pool/stake", with(stranger, amount("0")), http.StatusBadRequest, "ZeroAmount"},
		{"not approved", "/pool/stake", with(stranger, amount("1")), http.StatusBadRequest, "TransferFailed"},
		{"exit nothing", "/pool/exit", with(stranger, map[string]any{}), http.StatusBadRequest, "InsufficientBalance"},
		{"notify unauthorized", "/pool/admin/notify", with(stranger, amount("1")), http.StatusForbidden, "Unauthorized"},
		{"pause unauthorized", "/pool/admin/pause", with(stranger, map[string]any{"paused": true}), http.StatusForbidden, "Unauthorized"},
		{"notify insolvent", "/pool/admin/notify", with(tp.Authority(), amount("604800")), http.StatusBadRequest, "InsufficientRewardBalance"},
		{"no duration", "/pool/admin/duration", with(tp.Authority(), map[string]any{}), http.StatusBadRequest, "duration required"},
		{"zero duration", "/pool/admin/duration", with(tp.Authority(), map[string]any{"duration": 0}), http.StatusBadRequest, "InvalidDuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, status := httpPost(t, ts.URL+tt.path, tt.body)
			assert.Equal(t, tt.status, status, string(body))
			assert.Contains(t, string(body), tt.msg)
		})
	}

	body, status := httpGet(t, ts.URL+"/pool/accounts/0x1234")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "address")

	// failed operations leave nothing behind
	seq := tp.Runtime.LastSeq()
	assert.Equal(t, uint64(0), seq)
}
