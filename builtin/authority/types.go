// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/thor"
)

// entry is the list node of an authorized account.
type entry struct {
	Active bool
	Prev   *thor.Address `rlp:"nil"`
	Next   *thor.Address `rlp:"nil"`
}

func (e *entry) encode() ([]byte, error) {
	if e.IsEmpty() {
		return nil, nil
	}
	return rlp.EncodeToBytes(e)
}

// IsEmpty returns whether the entry can be treated as empty.
func (e *entry) IsEmpty() bool {
	return !e.Active && e.Prev == nil && e.Next == nil
}

// IsLinked returns whether the entry is linked to neighbours.
// The only entry of the list is listed but not linked.
func (e *entry) IsLinked() bool {
	return e.Prev != nil || e.Next != nil
}

// Member is a listed authority account.
type Member struct {
	Address thor.Address
	Active  bool
}
