// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/rewardpool/thor"
)

type contract struct {
	name    string
	Address thor.Address
}

// newContract binds name to the address derived from it, the way every native contract is placed.
func newContract(name string) *contract {
	return &contract{
		name,
		thor.BytesToAddress([]byte(name)),
	}
}

func (c *contract) Name() string {
	return c.name
}
