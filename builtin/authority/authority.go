// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package authority

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

var (
	headKey = thor.Blake2b([]byte("head"))
	tailKey = thor.Blake2b([]byte("tail"))
)

// Authority keeps the list of accounts allowed to run privileged pool operations.
// Members are kept in a linked list over contract storage.
type Authority struct {
	addr  thor.Address
	state *state.State
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Authority {
	return &Authority{addr, state}
}

func (a *Authority) Address() thor.Address {
	return a.addr
}

func (a *Authority) getEntry(member thor.Address) (*entry, error) {
	var entry entry
	if err := a.state.DecodeStorage(a.addr, thor.BytesToBytes32(member[:]), func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &entry)
	}); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (a *Authority) setEntry(member thor.Address, entry *entry) error {
	return a.state.EncodeStorage(a.addr, thor.BytesToBytes32(member[:]), entry.encode)
}

func (a *Authority) getAddressPtr(key thor.Bytes32) (addr *thor.Address, err error) {
	err = a.state.DecodeStorage(a.addr, key, func(raw []byte) error {
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &addr)
	})
	return
}

func (a *Authority) setAddressPtr(key thor.Bytes32, addr *thor.Address) error {
	return a.state.EncodeStorage(a.addr, key, func() ([]byte, error) {
		if addr == nil {
			return nil, nil
		}
		return rlp.EncodeToBytes(addr)
	})
}

// Get returns whether the account is listed and active.
func (a *Authority) Get(member thor.Address) (listed bool, active bool, err error) {
	var entry *entry
	if entry, err = a.getEntry(member); err != nil {
		return
	}
	if entry.IsLinked() {
		return true, entry.Active, nil
	}
	// if it's the only member, IsLinked will be false.
	// check whether it's the head.
	var ptr *thor.Address
	if ptr, err = a.getAddressPtr(headKey); err != nil {
		return
	}
	listed = ptr != nil && *ptr == member
	return listed, listed && entry.Active, nil
}

// IsAuthorized reports whether the caller may run privileged operations.
func (a *Authority) IsAuthorized(caller thor.Address) (bool, error) {
	listed, active, err := a.Get(caller)
	if err != nil {
		return false, err
	}
	return listed && active, nil
}

// Add appends a new active member. It returns false if already listed.
func (a *Authority) Add(member thor.Address) (bool, error) {
	listed, _, err := a.Get(member)
	if err != nil {
		return false, err
	}
	if listed {
		return false, nil
	}

	entry := &entry{Active: true}

	tailPtr, err := a.getAddressPtr(tailKey)
	if err != nil {
		return false, err
	}
	entry.Prev = tailPtr

	if err := a.setAddressPtr(tailKey, &member); err != nil {
		return false, err
	}
	if tailPtr == nil {
		if err := a.setAddressPtr(headKey, &member); err != nil {
			return false, err
		}
	} else {
		tailEntry, err := a.getEntry(*tailPtr)
		if err != nil {
			return false, err
		}
		tailEntry.Next = &member
		if err := a.setEntry(*tailPtr, tailEntry); err != nil {
			return false, err
		}
	}

	if err := a.setEntry(member, entry); err != nil {
		return false, err
	}
	return true, nil
}

// Revoke unlinks the member. It returns false if not listed.
func (a *Authority) Revoke(member thor.Address) (bool, error) {
	listed, _, err := a.Get(member)
	if err != nil {
		return false, err
	}
	if !listed {
		return false, nil
	}
	e, err := a.getEntry(member)
	if err != nil {
		return false, err
	}

	if e.Prev == nil {
		if err := a.setAddressPtr(headKey, e.Next); err != nil {
			return false, err
		}
	} else {
		prevEntry, err := a.getEntry(*e.Prev)
		if err != nil {
			return false, err
		}
		prevEntry.Next = e.Next
		if err := a.setEntry(*e.Prev, prevEntry); err != nil {
			return false, err
		}
	}

	if e.Next == nil {
		if err := a.setAddressPtr(tailKey, e.Prev); err != nil {
			return false, err
		}
	} else {
		nextEntry, err := a.getEntry(*e.Next)
		if err != nil {
			return false, err
		}
		nextEntry.Prev = e.Prev
		if err := a.setEntry(*e.Next, nextEntry); err != nil {
			return false, err
		}
	}

	// an unlisted entry is empty
	if err := a.setEntry(member, &entry{}); err != nil {
		return false, err
	}
	return true, nil
}

// Update update member's status.
func (a *Authority) Update(member thor.Address, active bool) (bool, error) {
	listed, _, err := a.Get(member)
	if err != nil {
		return false, err
	}
	if !listed {
		return false, nil
	}
	entry, err := a.getEntry(member)
	if err != nil {
		return false, err
	}
	entry.Active = active
	if err := a.setEntry(member, entry); err != nil {
		return false, err
	}
	return true, nil
}

// All lists all members in insertion order.
func (a *Authority) All() ([]*Member, error) {
	ptr, err := a.getAddressPtr(headKey)
	if err != nil {
		return nil, err
	}
	var members []*Member
	for ptr != nil {
		entry, err := a.getEntry(*ptr)
		if err != nil {
			return nil, err
		}
		members = append(members, &Member{
			Address: *ptr,
			Active:  entry.Active,
		})
		ptr = entry.Next
	}
	return members, nil
}
