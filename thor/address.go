// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const AddressLength = common.AddressLength

// Address identifies an account or a builtin contract.
type Address common.Address

// String returns the lower case 0x-prefixed hex form.
func (a Address) String() string { return hexutil.Encode(a[:]) }

func (a Address) Bytes() []byte { return a[:] }

func (a Address) IsZero() bool { return a == Address{} }

// MarshalText encodes a as 0x-prefixed hex, for json, yaml and map keys.
func (a Address) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

// UnmarshalText accepts what ParseAddress accepts.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses 40 hex digits, with or without the 0x prefix.
func ParseAddress(s string) (Address, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	var addr Address
	if err := hexutil.UnmarshalFixedText("Address", []byte(s), addr[:]); err != nil {
		return Address{}, err
	}
	return addr, nil
}

func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// BytesToAddress left-pads short input and keeps the rightmost 20 bytes of long input.
func BytesToAddress(b []byte) Address {
	return Address(common.BytesToAddress(b))
}
