// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package xenv

import (
	"github.com/holiman/uint256"

	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

// Event is an observability record emitted by a native contract.
// Seq and Time are assigned when the enclosing operation commits.
type Event struct {
	Seq     uint64
	Time    uint64
	Address thor.Address // emitting contract
	Name    string
	Account thor.Address
	Amount  *uint256.Int
}

type stopError struct {
	cause error
}

// Environment an env to execute native method.
// It is bound to one operation: one caller, one sampled time.
type Environment struct {
	caller thor.Address
	time   uint64
	state  *state.State
	events []*Event
}

// New create a new env.
func New(caller thor.Address, time uint64, state *state.State) *Environment {
	return &Environment{
		caller: caller,
		time:   time,
		state:  state,
	}
}

func (env *Environment) Caller() thor.Address { return env.caller }
func (env *Environment) Time() uint64         { return env.time }
func (env *Environment) State() *state.State  { return env.state }
func (env *Environment) Events() []*Event     { return env.events }

// Log appends an event emitted by the contract at address.
func (env *Environment) Log(address thor.Address, name string, account thor.Address, amount *uint256.Int) {
	if amount == nil {
		amount = new(uint256.Int)
	}
	env.events = append(env.events, &Event{
		Address: address,
		Name:    name,
		Account: account,
		Amount:  new(uint256.Int).Set(amount),
	})
}

// Require stops the execution with err if cond is false.
func (env *Environment) Require(cond bool, err error) {
	if !cond {
		env.Stop(err)
	}
}

// Stop aborts the execution with err.
func (env *Environment) Stop(err error) {
	panic(&stopError{err})
}

// Call runs proc, turning Stop into a returned error.
// Events logged by a failed proc are dropped.
func (env *Environment) Call(proc func(env *Environment) error) (err error) {
	mark := len(env.events)
	defer func() {
		if e := recover(); e != nil {
			if rec, ok := e.(*stopError); ok {
				err = rec.cause
			} else {
				panic(e)
			}
		}
		if err != nil {
			env.events = env.events[:mark]
		}
	}()
	return proc(env)
}
