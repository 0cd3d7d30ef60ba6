// Copyright (c) 2018 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"os"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/builtin/rewards"
	"github.com/vechain/rewardpool/builtin/token"
	"github.com/vechain/rewardpool/log"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
)

var (
	// ErrMismatch is returned when the state was built from another genesis.
	ErrMismatch = errors.New("genesis mismatch")

	logger = log.WithContext("pkg", "genesis")

	markerAddress = thor.BytesToAddress([]byte("Genesis"))
	markerSlot    = thor.BytesToBytes32([]byte("id"))
)

// Amount is a token amount written as a decimal or 0x-prefixed hex string.
type Amount struct {
	uint256.Int
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", node.Line)
	}
	b, ok := math.ParseBig256(node.Value)
	if !ok || b.Sign() < 0 {
		return errors.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	if a.SetFromBig(b) {
		return errors.Errorf("line %d: amount %q overflows", node.Line, node.Value)
	}
	return nil
}

func (a Amount) MarshalYAML() (any, error) {
	return a.Dec(), nil
}

type Token struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

type Tokens struct {
	Staking Token `yaml:"staking"`
	Reward  Token `yaml:"reward"`
}

// Balance is an initial allocation of both tokens.
type Balance struct {
	Address thor.Address `yaml:"address"`
	Staking *Amount      `yaml:"staking,omitempty"`
	Reward  *Amount      `yaml:"reward,omitempty"`
}

// Genesis describes the initial state of the pool and its tokens.
type Genesis struct {
	RewardsDuration uint64         `yaml:"rewardsDuration"`
	Authorities     []thor.Address `yaml:"authorities"`
	Tokens          Tokens         `yaml:"tokens"`
	Balances        []Balance      `yaml:"balances"`
}

// Parse decodes and validates a yaml genesis. Unknown fields are rejected.
func Parse(data []byte) (*Genesis, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var gen Genesis
	if err := dec.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Load reads the genesis file at path.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

func (g *Genesis) Validate() error {
	if g.RewardsDuration == 0 {
		return errors.New("rewardsDuration must not be 0")
	}
	if len(g.Authorities) == 0 {
		return errors.New("at least one authority required")
	}
	seen := make(map[thor.Address]bool)
	for _, a := range g.Authorities {
		if a.IsZero() {
			return errors.New("authority: zero address")
		}
		if seen[a] {
			return errors.Errorf("authority: duplicated %v", a)
		}
		seen[a] = true
	}

	if g.Tokens.Staking.Symbol == "" || g.Tokens.Reward.Symbol == "" {
		return errors.New("tokens: symbol required")
	}
	if g.Tokens.Staking.Symbol == g.Tokens.Reward.Symbol {
		return errors.New("tokens: staking and reward token must differ")
	}
	for _, b := range g.Balances {
		if b.Address.IsZero() {
			return errors.New("balance: zero address")
		}
	}
	return nil
}

// ID is the blake2b hash of the canonical yaml encoding.
func (g *Genesis) ID() (thor.Bytes32, error) {
	data, err := yaml.Marshal(g)
	if err != nil {
		return thor.Bytes32{}, errors.Wrap(err, "encode genesis")
	}
	return thor.Blake2b(data), nil
}

// StakingToken returns the address the staking token is deployed at.
func (g *Genesis) StakingToken() thor.Address {
	return builtin.TokenAddress(g.Tokens.Staking.Symbol)
}

// RewardToken returns the address the reward token is deployed at.
func (g *Genesis) RewardToken() thor.Address {
	return builtin.TokenAddress(g.Tokens.Reward.Symbol)
}

// Build applies the genesis to an empty state, or checks that the state was built from it.
// It returns true when the genesis was applied. Changes are left uncommitted.
func (g *Genesis) Build(st *state.State) (bool, error) {
	id, err := g.ID()
	if err != nil {
		return false, err
	}
	marker, err := st.GetStorage(markerAddress, markerSlot)
	if err != nil {
		return false, err
	}
	if !marker.IsZero() {
		if marker != id {
			return false, errors.Wrapf(ErrMismatch, "want %v, stored %v", id, marker)
		}
		return false, nil
	}

	revision := st.NewCheckpoint()
	if err := g.apply(st); err != nil {
		st.RevertTo(revision)
		return false, err
	}
	st.SetStorage(markerAddress, markerSlot, id)
	logger.Info("genesis applied", "id", id, "staking", g.StakingToken(), "reward", g.RewardToken())
	return true, nil
}

func (g *Genesis) apply(st *state.State) error {
	staking := token.New(g.StakingToken(), st)
	reward := token.New(g.RewardToken(), st)
	if err := staking.SetMetadata(token.Metadata(g.Tokens.Staking)); err != nil {
		return err
	}
	if err := reward.SetMetadata(token.Metadata(g.Tokens.Reward)); err != nil {
		return err
	}

	for _, b := range g.Balances {
		if b.Staking != nil {
			if err := staking.Mint(b.Address, &b.Staking.Int); err != nil {
				return errors.WithMessagef(err, "mint staking to %v", b.Address)
			}
		}
		if b.Reward != nil {
			if err := reward.Mint(b.Address, &b.Reward.Int); err != nil {
				return errors.WithMessagef(err, "mint reward to %v", b.Address)
			}
		}
	}

	aut := builtin.Authority.WithState(st)
	for _, a := range g.Authorities {
		if _, err := aut.Add(a); err != nil {
			return errors.WithMessagef(err, "add authority %v", a)
		}
	}

	return builtin.Pool.WithState(st).Initialize(rewards.Config{
		StakingToken: g.StakingToken(),
		RewardsToken: g.RewardToken(),
	}, g.RewardsDuration)
}
