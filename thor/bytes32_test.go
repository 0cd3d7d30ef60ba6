// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytes32JSON(t *testing.T) {
	original := `"0x00000000000000000000000000000000000000000000000000006d6173746572"`

	var value Bytes32
	require.NoError(t, json.Unmarshal([]byte(original), &value))
	assert.Equal(t, BytesToBytes32([]byte("master")), value)

	data, err := json.Marshal(&value)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))

	assert.Error(t, json.Unmarshal([]byte(`"0xzz"`), &value))
}

func TestParseBytes32(t *testing.T) {
	want := Blake2b([]byte("parse"))

	b, err := ParseBytes32(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, b)

	b, err = ParseBytes32(want.String()[2:])
	require.NoError(t, err)
	assert.Equal(t, want, b)

	_, err = ParseBytes32("0x1234")
	assert.Error(t, err)
	assert.Panics(t, func() { MustParseBytes32("nothex") })
	assert.True(t, Bytes32{}.IsZero())
}
