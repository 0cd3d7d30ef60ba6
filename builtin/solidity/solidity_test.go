// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/rewardpool/lvldb"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/test/datagen"
	"github.com/vechain/rewardpool/thor"
)

type TestStruct struct {
	Field1 uint64
	Field2 *uint256.Int
	Addr1  thor.Address
}

func newContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(thor.Address{1}, state.New(db))
}

func TestAddress(t *testing.T) {
	ctx := newContext(t)
	address := NewAddress(ctx, thor.Bytes32{1})

	value := datagen.RandAddress()
	address.Set(&value)

	retrievedValue, err := address.Get()
	assert.NoError(t, err)
	assert.Equal(t, value, retrievedValue)

	address.Set(nil)
	retrievedValue, err = address.Get()
	assert.NoError(t, err)
	assert.Equal(t, thor.Address{}, retrievedValue)

	assert.Equal(t, thor.Address{1}, ctx.Address())
	assert.NotNil(t, ctx.State())
}

func TestAddress_NegativeCases(t *testing.T) {
	ctx := newContext(t)
	slot := thor.BytesToBytes32([]byte("slot"))

	// invalid rlp makes state.GetStorage fail
	ctx.State().SetRawStorage(ctx.Address(), slot, rlp.RawValue{0xFF})

	addr, err := NewAddress(ctx, slot).Get()
	assert.Equal(t, thor.Address{}, addr)
	assert.Error(t, err)
}

func TestUint256(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, thor.Bytes32{01})

	u.Set(uint256.NewInt(1000))
	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1000), value)

	assert.NoError(t, u.Add(uint256.NewInt(500)))
	value, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1500), value)

	assert.NoError(t, u.Sub(uint256.NewInt(200)))
	value, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1300), value)
}

func TestUint256_Bounds(t *testing.T) {
	ctx := newContext(t)
	u := NewUint256(ctx, thor.Bytes32{02})

	assert.ErrorIs(t, u.Sub(uint256.NewInt(1)), ErrUint256Underflow)

	u.Set(thor.MaxUint256)
	value, err := u.Get()
	assert.NoError(t, err)
	assert.Equal(t, thor.MaxUint256, value)
	assert.ErrorIs(t, u.Add(uint256.NewInt(1)), ErrUint256Overflow)

	// failed ops leave the slot untouched
	value, err = u.Get()
	assert.NoError(t, err)
	assert.Equal(t, thor.MaxUint256, value)
}

func TestMapping(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[thor.Address, TestStruct](ctx, thor.Bytes32{3})

	key := datagen.RandAddress()

	// absent key decodes to zero value
	value, err := m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, TestStruct{}, value)

	expected := TestStruct{Field1: 7, Field2: uint256.NewInt(9), Addr1: datagen.RandAddress()}
	require.NoError(t, m.Set(key, expected))

	value, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, expected.Field1, value.Field1)
	assert.Equal(t, expected.Field2, value.Field2)
	assert.Equal(t, expected.Addr1, value.Addr1)

	// other keys are not affected
	other, err := m.Get(datagen.RandAddress())
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), other.Field1)

	m.Delete(key)
	value, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), value.Field1)
}

func TestMapping_PointerValue(t *testing.T) {
	ctx := newContext(t)
	m := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{4})

	key := datagen.RandAddress()
	value, err := m.Get(key)
	assert.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, uint64(0), value.Field1)

	require.NoError(t, m.Set(key, &TestStruct{Field1: 1, Field2: uint256.NewInt(2)}))
	value, err = m.Get(key)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), value.Field1)
}

func TestValue(t *testing.T) {
	ctx := newContext(t)
	v := NewValue[TestStruct](ctx, thor.Bytes32{5})

	require.NoError(t, v.Set(TestStruct{Field1: 42, Field2: uint256.NewInt(1)}))
	got, err := v.Get()
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), got.Field1)

	ctx.State().SetRawStorage(ctx.Address(), thor.Bytes32{5}, rlp.RawValue{0xFF})
	_, err = v.Get()
	assert.Error(t, err)
}
