// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/authority"
	"github.com/vechain/rewardpool/builtin/rewards"
	"github.com/vechain/rewardpool/builtin/token"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

// Builtin contracts binding.
var (
	Authority = &authorityContract{newContract("Authority")}
	Pool      = &poolContract{newContract("RewardPool")}
)

var ErrUnknownToken = errors.New("unknown token")

type (
	authorityContract struct{ *contract }
	poolContract      struct{ *contract }
)

func (a *authorityContract) WithState(state *state.State) *authority.Authority {
	return authority.New(a.Address, state)
}

func (p *poolContract) WithState(state *state.State) *rewards.Rewards {
	return rewards.New(p.Address, state, TokenResolver(state), Authority.WithState(state))
}

// TokenAddress is the address a token named symbol is deployed at.
func TokenAddress(symbol string) thor.Address {
	return newContract("Token:" + symbol).Address
}

// Token returns the deployed token at addr. A token is deployed once its metadata is set.
func Token(state *state.State, addr thor.Address) (*token.Token, error) {
	t := token.New(addr, state)
	md, err := t.Metadata()
	if err != nil {
		return nil, err
	}
	if md.Symbol == "" {
		return nil, errors.Wrap(ErrUnknownToken, addr.String())
	}
	return t, nil
}

// TokenResolver resolves deployed tokens for the pool.
func TokenResolver(state *state.State) rewards.TokenResolver {
	return func(addr thor.Address) (rewards.Token, error) {
		t, err := Token(state, addr)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}
