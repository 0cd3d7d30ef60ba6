// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUGetOrLoad(t *testing.T) {
	c, err := NewLRU(2)
	require.NoError(t, err)

	loads := 0
	loader := func(key any) (any, error) {
		loads++
		return key.(string) + "-v", nil
	}

	v, err := c.GetOrLoad("a", loader)
	assert.Nil(t, err)
	assert.Equal(t, "a-v", v)

	v, err = c.GetOrLoad("a", loader)
	assert.Nil(t, err)
	assert.Equal(t, "a-v", v)
	assert.Equal(t, 1, loads)

	// loader errors are not cached
	_, err = c.GetOrLoad("b", func(any) (any, error) { return nil, errors.New("boom") })
	assert.Error(t, err)
	assert.False(t, c.Contains("b"))
}

func TestLRUStats(t *testing.T) {
	c, err := NewLRU(4)
	require.NoError(t, err)

	changed, hit, miss := c.Stats()
	assert.False(t, changed)
	assert.Equal(t, int64(0), hit)
	assert.Equal(t, int64(0), miss)

	load := func(key any) (any, error) { return key, nil }
	_, _ = c.GetOrLoad(1, load)
	_, _ = c.GetOrLoad(1, load)

	changed, hit, miss = c.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	// same rate
	changed, _, _ = c.Stats()
	assert.False(t, changed)

	_, _ = c.GetOrLoad(1, load)
	changed, hit, miss = c.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(2), hit)
	assert.Equal(t, int64(1), miss)
}

func TestNewLRUInvalidSize(t *testing.T) {
	_, err := NewLRU(0)
	assert.Error(t, err)
}
