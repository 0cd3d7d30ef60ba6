// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/api/events"
	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/builtin/rewards"
	"github.com/vechain/rewardpool/test/testpool"
	"github.com/vechain/rewardpool/xenv"
)

const defaultLogLimit uint64 = 1000

func initEventServer(t *testing.T, limit uint64) (*httptest.Server, *testpool.Pool) {
	tp := testpool.New(t)

	router := mux.NewRouter()
	events.New(tp.EventDB, limit).Mount(router, "/logs/event")
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, tp
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

// insertEvents notifies once, then stakes from the first three non-authority dev accounts, one second apart.
func insertEvents(t *testing.T, tp *testpool.Pool) {
	tp.Fund(t, 1000)
	_, err := tp.Runtime.Exec(tp.Authority(), func(env *xenv.Environment) error {
		return builtin.Pool.WithState(env.State()).NotifyRewardAmount(env, uint256.NewInt(1000))
	})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		tp.Approve(t, tp.Account(i))
		tp.Clock.Advance(1)
		_, err := tp.Runtime.Exec(tp.Account(i), func(env *xenv.Environment) error {
			return builtin.Pool.WithState(env.State()).Stake(env, uint256.NewInt(uint64(i*10)))
		})
		require.NoError(t, err)
	}
}

func filter(t *testing.T, ts *httptest.Server, f *events.EventFilter) []*events.Event {
	body, status := httpPost(t, ts.URL+"/logs/event", f)
	require.Equal(t, http.StatusOK, status, string(body))
	var evs []*events.Event
	require.NoError(t, json.Unmarshal(body, &evs))
	return evs
}

func TestEmptyFilter(t *testing.T) {
	ts, _ := initEventServer(t, defaultLogLimit)

	evs := filter(t, ts, &events.EventFilter{})
	assert.Empty(t, evs)
}

func TestFilter(t *testing.T) {
	ts, tp := initEventServer(t, defaultLogLimit)
	insertEvents(t, tp)

	evs := filter(t, ts, &events.EventFilter{})
	require.Len(t, evs, 4)
	assert.Equal(t, rewards.EventRewardAdded, evs[0].Name)
	for i, ev := range evs {
		assert.Equal(t, uint64(i+1), ev.Seq)
		assert.Equal(t, builtin.Pool.Address, ev.Address)
	}

	name := rewards.EventStaked
	evs = filter(t, ts, &events.EventFilter{
		CriteriaSet: []*events.Criteria{{Name: &name}},
		Order:       "desc",
	})
	require.Len(t, evs, 3)
	assert.Equal(t, tp.Account(3), evs[0].Account)
	assert.Equal(t, "30", evs[0].Amount.String())

	account := tp.Account(2)
	evs = filter(t, ts, &events.EventFilter{
		CriteriaSet: []*events.Criteria{{Account: &account}},
	})
	require.Len(t, evs, 1)
	assert.Equal(t, "20", evs[0].Amount.String())

	from, to := uint64(testpool.LaunchTime+2), uint64(testpool.LaunchTime+3)
	evs = filter(t, ts, &events.EventFilter{
		Range: &events.Range{Unit: "time", From: &from, To: &to},
	})
	require.Len(t, evs, 2)
	assert.Equal(t, tp.Account(2), evs[0].Account)
	assert.Equal(t, tp.Account(3), evs[1].Account)

	evs = filter(t, ts, &events.EventFilter{
		Options: &events.Options{Offset: 1, Limit: 2},
	})
	require.Len(t, evs, 2)
	assert.Equal(t, uint64(2), evs[0].Seq)
}

func TestFilterInvalid(t *testing.T) {
	ts, _ := initEventServer(t, 5)

	from, to := uint64(10), uint64(1)
	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"limit exceeded", &events.EventFilter{Options: &events.Options{Limit: 6}}, http.StatusForbidden},
		{"bad order", &events.EventFilter{Order: "up"}, http.StatusBadRequest},
		{"bad unit", &events.EventFilter{Range: &events.Range{Unit: "block"}}, http.StatusBadRequest},
		{"reversed range", &events.EventFilter{Range: &events.Range{From: &from, To: &to}}, http.StatusBadRequest},
		{"null criteria", map[string]any{"criteriaSet": []any{nil}}, http.StatusBadRequest},
		{"unknown field", map[string]any{"foo": 1}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, status := httpPost(t, ts.URL+"/logs/event", tt.body)
			assert.Equal(t, tt.status, status, string(body))
		})
	}
}
