// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func convertFilter(ef *EventFilter) (*eventdb.Filter, error) {
	filter := &eventdb.Filter{
		Order: eventdb.ASC,
		Options: &eventdb.Options{
			Offset: ef.Options.Offset,
			Limit:  ef.Options.Limit,
		},
	}
	switch ef.Order {
	case "", string(eventdb.ASC):
	case string(eventdb.DESC):
		filter.Order = eventdb.DESC
	default:
		return nil, fmt.Errorf("order: unsupported value %q", ef.Order)
	}

	if ef.Range != nil {
		rng := &eventdb.Range{Unit: eventdb.Seq, To: math.MaxInt64}
		switch ef.Range.Unit {
		case "", string(eventdb.Seq):
		case string(eventdb.Time):
			rng.Unit = eventdb.Time
		default:
			return nil, fmt.Errorf("range.unit: unsupported value %q", ef.Range.Unit)
		}
		if ef.Range.From != nil {
			rng.From = *ef.Range.From
		}
		if ef.Range.To != nil {
			rng.To = min(*ef.Range.To, math.MaxInt64)
		}
		if rng.From > math.MaxInt64 {
			return nil, fmt.Errorf("range.from exceeds the maximum allowed value of %d", int64(math.MaxInt64))
		}
		filter.Range = rng
	}

	for i, c := range ef.CriteriaSet {
		// {} is accepted and matches everything
		if c == nil {
			return nil, fmt.Errorf("criteriaSet[%d]: null not allowed", i)
		}
		filter.CriteriaSet = append(filter.CriteriaSet, &eventdb.Criteria{
			Address: c.Address,
			Name:    c.Name,
			Account: c.Account,
		})
	}
	return filter, nil
}

// filter query events with option
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*Event, error) {
	filter, err := convertFilter(ef)
	if err != nil {
		return nil, utils.BadRequest(err)
	}
	events, err := e.db.Filter(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ConvertEvents(events), nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Range != nil && filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
		return utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	if filter.Options == nil {
		filter.Options = &Options{Limit: e.limit}
	}

	fes, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /logs/event").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
