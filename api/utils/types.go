// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Amount is an uint256 in JSON. It is written as a decimal string,
// and read from a decimal or 0x prefixed hex string, or a plain JSON number.
type Amount uint256.Int

func NewAmount(v *uint256.Int) *Amount {
	if v == nil {
		return new(Amount)
	}
	return (*Amount)(new(uint256.Int).Set(v))
}

// Int returns the amount as uint256, zero for nil.
func (a *Amount) Int() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set((*uint256.Int)(a))
}

func (a *Amount) String() string {
	return (*uint256.Int)(a).Dec()
}

func (a *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	var h math.HexOrDecimal256
	if err := h.UnmarshalJSON(data); err != nil {
		return err
	}
	b := (*big.Int)(&h)
	if b.Sign() < 0 {
		return errors.New("negative amount")
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return errors.New("amount exceeds 256 bits")
	}
	*a = Amount(*v)
	return nil
}
