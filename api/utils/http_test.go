// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/builtin/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("body")), http.StatusBadRequest, "body\n"},
		{"wrapped", errors.WithMessage(NotFound(errors.New("gone")), "ctx"), http.StatusNotFound, "gone\n"},
		{"internal", errors.New("boom"), http.StatusInternalServerError, "boom\n"},
		{"revert", Revert(reverts.New(reverts.ZeroAmount, "cannot stake 0")), http.StatusBadRequest, "ZeroAmount: cannot stake 0\n"},
		{"unauthorized", Revert(reverts.New(reverts.Unauthorized, "nope")), http.StatusForbidden, "Unauthorized: nope\n"},
		{"no cause", HTTPError(nil, http.StatusTeapot), http.StatusTeapot, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error {
				return tt.err
			})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestRevertPassThrough(t *testing.T) {
	err := errors.New("io")
	assert.Equal(t, err, Revert(err))
}

func TestParseJSON(t *testing.T) {
	var v struct {
		A int `json:"a"`
	}
	require.NoError(t, ParseJSON(strings.NewReader(`{"a":1}`), &v))
	assert.Equal(t, 1, v.A)
	assert.Error(t, ParseJSON(strings.NewReader(`{"b":1}`), &v))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, WriteJSON(rec, M{"a": 1}))
	assert.Equal(t, JSONContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"a\":1}\n", rec.Body.String())
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    *uint256.Int
		wantErr bool
	}{
		{`"1000"`, uint256.NewInt(1000), false},
		{`"0x10"`, uint256.NewInt(16), false},
		{`42`, uint256.NewInt(42), false},
		{`"1000000000000000000000"`, new(uint256.Int).Mul(uint256.NewInt(1000), uint256.NewInt(1e18)), false},
		{`"-1"`, nil, true},
		{`"abc"`, nil, true},
		{`"0x1` + strings.Repeat("0", 64) + `"`, nil, true},
	}

	for _, tt := range tests {
		var a Amount
		err := json.Unmarshal([]byte(tt.in), &a)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, a.Int())
	}

	out, err := json.Marshal(struct {
		V *Amount `json:"v"`
	}{NewAmount(uint256.NewInt(7))})
	require.NoError(t, err)
	assert.Equal(t, `{"v":"7"}`, string(out))

	var nilAmount *Amount
	assert.True(t, nilAmount.Int().IsZero())
}
