// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

// Event is a committed pool event in JSON.
type Event struct {
	Seq     uint64        `json:"seq"`
	Time    uint64        `json:"time"`
	Address thor.Address  `json:"address"`
	Name    string        `json:"name"`
	Account thor.Address  `json:"account"`
	Amount  *utils.Amount `json:"amount"`
}

func ConvertEvent(ev *xenv.Event) *Event {
	return &Event{
		Seq:     ev.Seq,
		Time:    ev.Time,
		Address: ev.Address,
		Name:    ev.Name,
		Account: ev.Account,
		Amount:  utils.NewAmount(ev.Amount),
	}
}

func ConvertEvents(evs []*xenv.Event) []*Event {
	res := make([]*Event, 0, len(evs))
	for _, ev := range evs {
		res = append(res, ConvertEvent(ev))
	}
	return res
}

type Range struct {
	Unit string  `json:"unit"`
	From *uint64 `json:"from,omitempty"`
	To   *uint64 `json:"to,omitempty"`
}

type Criteria struct {
	Address *thor.Address `json:"address,omitempty"`
	Name    *string       `json:"name,omitempty"`
	Account *thor.Address `json:"account,omitempty"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	Range       *Range      `json:"range,omitempty"`
	CriteriaSet []*Criteria `json:"criteriaSet,omitempty"`
	Options     *Options    `json:"options,omitempty"`
	Order       string      `json:"order,omitempty"`
}
