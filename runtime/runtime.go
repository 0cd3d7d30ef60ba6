// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/metrics"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

var (
	logger = log.WithContext("pkg", "runtime")

	metricExecCount    = metrics.LazyLoadCounterVec("runtime_exec_count", []string{"result"})
	metricExecDuration = metrics.LazyLoadHistogram("runtime_exec_duration_ms", metrics.BucketHTTPReqs)
)

// EventWriter persists committed events.
type EventWriter interface {
	Insert(events []*xenv.Event) error
}

// Runtime serializes operations over one state.
// Each operation samples the clock once, and either commits all of its changes or none.
type Runtime struct {
	mu     sync.Mutex
	state  *state.State
	clock  Clock
	writer EventWriter

	lastTime uint64
	seq      uint64

	feed  event.Feed
	scope event.SubscriptionScope
}

// New create a Runtime object. The writer is optional.
// Events are numbered starting after lastSeq.
func New(state *state.State, clock Clock, writer EventWriter, lastSeq uint64) *Runtime {
	if clock == nil {
		clock = SystemClock
	}
	return &Runtime{
		state:  state,
		clock:  clock,
		writer: writer,
		seq:    lastSeq,
	}
}

// now samples the clock, never going backwards.
func (rt *Runtime) now() uint64 {
	now := rt.clock.Now()
	if now < rt.lastTime {
		logger.Warn("clock went backwards", "now", now, "last", rt.lastTime)
		now = rt.lastTime
	}
	rt.lastTime = now
	return now
}

// Exec runs fn as caller and commits its changes when it succeeds.
// The events emitted by a committed operation are numbered, then stored and published.
func (rt *Runtime) Exec(caller thor.Address, fn func(env *xenv.Environment) error) ([]*xenv.Event, error) {
	start := time.Now()
	rt.mu.Lock()
	defer rt.mu.Unlock()

	now := rt.now()
	env := xenv.New(caller, now, rt.state)

	revision := rt.state.NewCheckpoint()
	if err := env.Call(fn); err != nil {
		rt.state.RevertTo(revision)
		metricExecCount().AddWithLabel(1, map[string]string{"result": "reverted"})
		return nil, err
	}
	if err := rt.state.Commit(); err != nil {
		rt.state.RevertTo(revision)
		metricExecCount().AddWithLabel(1, map[string]string{"result": "failed"})
		return nil, errors.Wrap(err, "commit state")
	}
	metricExecCount().AddWithLabel(1, map[string]string{"result": "committed"})
	metricExecDuration().Observe(time.Since(start).Milliseconds())

	events := env.Events()
	for _, ev := range events {
		rt.seq++
		ev.Seq = rt.seq
		ev.Time = now
	}
	if len(events) == 0 {
		return events, nil
	}

	if rt.writer != nil {
		// events are informational, the state is already committed
		if err := rt.writer.Insert(events); err != nil {
			logger.Warn("failed to store events", "first", events[0].Seq, "count", len(events), "err", err)
		}
	}
	rt.feed.Send(events)
	return events, nil
}

// View runs fn at the current time. Any change it makes is discarded.
func (rt *Runtime) View(fn func(env *xenv.Environment) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	env := xenv.New(thor.Address{}, rt.now(), rt.state)
	revision := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(revision)

	return env.Call(fn)
}

// Now returns the time the next operation would run at.
func (rt *Runtime) Now() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return max(rt.clock.Now(), rt.lastTime)
}

// LastSeq returns the sequence number of the last committed event.
func (rt *Runtime) LastSeq() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.seq
}

// SubscribeEvents delivers the events of every committed operation to ch, in commit order.
// Exec blocks until ch accepts, so ch should be buffered and drained promptly.
func (rt *Runtime) SubscribeEvents(ch chan []*xenv.Event) event.Subscription {
	return rt.scope.Track(rt.feed.Subscribe(ch))
}

// Close ends all subscriptions.
func (rt *Runtime) Close() {
	rt.scope.Close()
}
