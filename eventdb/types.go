// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"github.com/vechain/rewardpool/thor"
)

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Range is inclusive on both ends. A To lower than From leaves the range open ended.
type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// Criteria matches when every set field matches.
type Criteria struct {
	Address *thor.Address // emitting contract
	Name    *string
	Account *thor.Address
}

// Filter selects events matching any of the criteria, within the range.
type Filter struct {
	Range       *Range
	CriteriaSet []*Criteria
	Order       Order
	Options     *Options
}
