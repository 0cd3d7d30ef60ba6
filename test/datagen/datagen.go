// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen produces random fixtures for tests.
package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/thor"
)

func RandAddress() (addr thor.Address) {
	_, _ = rand.Read(addr[:])
	return
}

func RandAddresses(n int) []thor.Address {
	addrs := make([]thor.Address, 0, n)
	for range n {
		addrs = append(addrs, RandAddress())
	}
	return addrs
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

// RandTokens returns between 1 and n whole 18 decimal tokens.
func RandTokens(n uint64) *uint256.Int {
	amount := uint256.NewInt(mathrand.Uint64N(n) + 1) //#nosec G404
	return amount.Mul(amount, thor.RewardPrecision)
}
