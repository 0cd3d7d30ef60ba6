// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rewards

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/builtin/rewards/accumulator"
	"github.com/vechain/rewardpool/builtin/rewards/checkpoint"
	"github.com/vechain/rewardpool/builtin/rewards/ledger"
	"github.com/vechain/rewardpool/builtin/solidity"
	"github.com/vechain/rewardpool/state"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

var (
	slotConfig = thor.BytesToBytes32([]byte("config"))
	slotPaused = thor.BytesToBytes32([]byte("paused"))
)

// Token is a fungible token the pool moves funds with.
type Token interface {
	Address() thor.Address
	BalanceOf(addr thor.Address) (*uint256.Int, error)
	Transfer(from, to thor.Address, amount *uint256.Int) error
	TransferFrom(spender, from, to thor.Address, amount *uint256.Int) error
}

// TokenResolver returns the token deployed at addr.
type TokenResolver func(addr thor.Address) (Token, error)

// Authorizer decides who may run the administrative operations.
type Authorizer interface {
	IsAuthorized(caller thor.Address) (bool, error)
}

// Config binds a pool to its tokens. It is immutable once initialized.
type Config struct {
	StakingToken thor.Address
	RewardsToken thor.Address
}

// Rewards implements the native staking rewards pool.
// Stake is accounted in the staking token and rewards are paid in the rewards token,
// emitted at a constant rate over a finite period and split pro rata to stake.
type Rewards struct {
	addr       thor.Address
	state      *state.State
	resolve    TokenResolver
	authorizer Authorizer

	config *solidity.Value[*Config]
	paused *solidity.Value[bool]

	ledgerService      *ledger.Service
	accumulatorService *accumulator.Service
	checkpointService  *checkpoint.Service
}

// New create a new instance.
func New(addr thor.Address, state *state.State, resolve TokenResolver, authorizer Authorizer) *Rewards {
	sctx := solidity.NewContext(addr, state)

	return &Rewards{
		addr:       addr,
		state:      state,
		resolve:    resolve,
		authorizer: authorizer,

		config: solidity.NewValue[*Config](sctx, slotConfig),
		paused: solidity.NewValue[bool](sctx, slotPaused),

		ledgerService:      ledger.New(sctx),
		accumulatorService: accumulator.New(sctx),
		checkpointService:  checkpoint.New(sctx),
	}
}

func (r *Rewards) Address() thor.Address {
	return r.addr
}

// Initialize binds the pool to its tokens and sets the initial rewards duration.
func (r *Rewards) Initialize(cfg Config, duration uint64) error {
	current, err := r.Config()
	if err != nil {
		return err
	}
	if !current.StakingToken.IsZero() || !current.RewardsToken.IsZero() {
		return ErrAlreadyInitialized
	}
	if cfg.StakingToken.IsZero() || cfg.RewardsToken.IsZero() {
		return errors.New("token addresses must be set")
	}
	if duration == 0 {
		return ErrInvalidDuration
	}
	if err := r.config.Set(&cfg); err != nil {
		return errors.Wrap(err, "failed to set config")
	}
	st, err := r.accumulatorService.Get()
	if err != nil {
		return err
	}
	st.RewardsDuration = duration
	return r.accumulatorService.Set(st)
}

//
// Getters - no state change
//

// Config returns the token bindings of the pool.
func (r *Rewards) Config() (*Config, error) {
	cfg, err := r.config.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	return cfg, nil
}

// TotalSupply returns the total staked amount.
func (r *Rewards) TotalSupply() (*uint256.Int, error) {
	return r.ledgerService.TotalSupply()
}

// BalanceOf returns the staked amount of account.
func (r *Rewards) BalanceOf(account thor.Address) (*uint256.Int, error) {
	return r.ledgerService.BalanceOf(account)
}

// RewardState returns a snapshot of the emission schedule.
func (r *Rewards) RewardState() (*accumulator.RewardState, error) {
	return r.accumulatorService.Get()
}

// Checkpoint returns the settlement record of account.
func (r *Rewards) Checkpoint(account thor.Address) (*checkpoint.Checkpoint, error) {
	return r.checkpointService.Get(account)
}

// LastTimeRewardApplicable returns min(now, periodFinish).
func (r *Rewards) LastTimeRewardApplicable(now uint64) (uint64, error) {
	st, err := r.accumulatorService.Get()
	if err != nil {
		return 0, err
	}
	return st.LastTimeRewardApplicable(now), nil
}

// RewardPerToken returns the reward-per-token integral as of now, without storing it.
func (r *Rewards) RewardPerToken(now uint64) (*uint256.Int, error) {
	st, err := r.accumulatorService.Get()
	if err != nil {
		return nil, err
	}
	supply, err := r.ledgerService.TotalSupply()
	if err != nil {
		return nil, err
	}
	return st.RewardPerToken(now, supply)
}

// Earned returns the reward account could claim at now.
func (r *Rewards) Earned(account thor.Address, now uint64) (*uint256.Int, error) {
	rpt, err := r.RewardPerToken(now)
	if err != nil {
		return nil, err
	}
	bal, err := r.ledgerService.BalanceOf(account)
	if err != nil {
		return nil, err
	}
	cp, err := r.checkpointService.Get(account)
	if err != nil {
		return nil, err
	}
	return cp.Earned(bal, rpt)
}

// GetRewardForDuration returns rewardRate x rewardsDuration.
func (r *Rewards) GetRewardForDuration() (*uint256.Int, error) {
	st, err := r.accumulatorService.Get()
	if err != nil {
		return nil, err
	}
	return st.RewardForDuration()
}

// Paused reports whether staking is suspended.
func (r *Rewards) Paused() (bool, error) {
	paused, err := r.paused.Get()
	if err != nil {
		return false, errors.Wrap(err, "failed to get paused")
	}
	return paused, nil
}

//
// Setters - state change
//

// Stake deposits amount of staking tokens from the caller, who must have approved the pool.
func (r *Rewards) Stake(env *xenv.Environment, amount *uint256.Int) error {
	caller := env.Caller()
	logger.Debug("staking", "account", caller, "amount", amount)

	err := r.atomic("stake", func() error {
		if isZero(amount) {
			return ErrZeroAmount
		}
		paused, err := r.Paused()
		if err != nil {
			return err
		}
		if paused {
			return ErrPaused
		}
		if _, err := r.updateReward(&caller, env.Time()); err != nil {
			return err
		}
		if err := r.ledgerService.Deposit(caller, amount); err != nil {
			return err
		}
		staking, err := r.stakingToken()
		if err != nil {
			return err
		}
		if err := staking.TransferFrom(r.addr, caller, r.addr, amount); err != nil {
			return transferFailed(err)
		}
		env.Log(r.addr, EventStaked, caller, amount)
		return nil
	})
	if err != nil {
		logger.Info("stake failed", "account", caller, "error", err)
		return err
	}

	logger.Info("staked", "account", caller, "amount", amount)
	return nil
}

// Withdraw returns amount of staked tokens to the caller.
func (r *Rewards) Withdraw(env *xenv.Environment, amount *uint256.Int) error {
	caller := env.Caller()
	logger.Debug("withdrawing", "account", caller, "amount", amount)

	err := r.atomic("withdraw", func() error {
		return r.withdraw(env, amount)
	})
	if err != nil {
		logger.Info("withdraw failed", "account", caller, "error", err)
		return err
	}

	logger.Info("withdrawn", "account", caller, "amount", amount)
	return nil
}

// GetReward pays all accrued rewards to the caller. Nothing is paid, and no event is emitted, when there is none.
func (r *Rewards) GetReward(env *xenv.Environment) (*uint256.Int, error) {
	caller := env.Caller()
	logger.Debug("claiming reward", "account", caller)

	var paid *uint256.Int
	err := r.atomic("getReward", func() (err error) {
		paid, err = r.getReward(env)
		return
	})
	if err != nil {
		logger.Info("claim reward failed", "account", caller, "error", err)
		return nil, err
	}

	logger.Info("reward claimed", "account", caller, "amount", paid)
	return paid, nil
}

// Exit withdraws the whole stake of the caller and claims the rewards.
func (r *Rewards) Exit(env *xenv.Environment) (*uint256.Int, error) {
	caller := env.Caller()
	logger.Debug("exiting", "account", caller)

	var paid *uint256.Int
	err := r.atomic("exit", func() error {
		bal, err := r.ledgerService.BalanceOf(caller)
		if err != nil {
			return err
		}
		if err := r.withdraw(env, bal); err != nil {
			return err
		}
		paid, err = r.getReward(env)
		return err
	})
	if err != nil {
		logger.Info("exit failed", "account", caller, "error", err)
		return nil, err
	}

	logger.Info("exited", "account", caller, "reward", paid)
	return paid, nil
}

// NotifyRewardAmount starts a new period emitting amount over the rewards duration,
// rolling over whatever the running period has not emitted yet.
// The pool must already hold enough rewards tokens to cover the whole period.
func (r *Rewards) NotifyRewardAmount(env *xenv.Environment, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	logger.Debug("notifying reward", "caller", env.Caller(), "amount", amount)

	var st *accumulator.RewardState
	err := r.atomic("notifyRewardAmount", func() (err error) {
		if err := r.requireAuthorized(env.Caller()); err != nil {
			return err
		}
		if st, err = r.updateReward(nil, env.Time()); err != nil {
			return err
		}
		rewards, err := r.rewardsToken()
		if err != nil {
			return err
		}
		balance, err := rewards.BalanceOf(r.addr)
		if err != nil {
			return errors.Wrap(err, "failed to get reward balance")
		}
		if err := st.Notify(env.Time(), amount, balance); err != nil {
			return err
		}
		if err := r.accumulatorService.Set(st); err != nil {
			return err
		}
		env.Log(r.addr, EventRewardAdded, thor.Address{}, amount)
		return nil
	})
	if err != nil {
		logger.Info("notify reward failed", "caller", env.Caller(), "error", err)
		return err
	}

	logger.Info("reward added", "amount", amount, "rate", st.RewardRate, "finish", st.PeriodFinish)
	return nil
}

// SetRewardsDuration changes the period length. Only allowed after the current period finished.
func (r *Rewards) SetRewardsDuration(env *xenv.Environment, duration uint64) error {
	logger.Debug("setting rewards duration", "caller", env.Caller(), "duration", duration)

	err := r.atomic("setRewardsDuration", func() error {
		if err := r.requireAuthorized(env.Caller()); err != nil {
			return err
		}
		st, err := r.accumulatorService.Get()
		if err != nil {
			return err
		}
		if err := st.SetDuration(env.Time(), duration); err != nil {
			return err
		}
		if err := r.accumulatorService.Set(st); err != nil {
			return err
		}
		env.Log(r.addr, EventRewardsDurationUpdated, thor.Address{}, uint256.NewInt(duration))
		return nil
	})
	if err != nil {
		logger.Info("set rewards duration failed", "caller", env.Caller(), "error", err)
		return err
	}

	logger.Info("rewards duration updated", "duration", duration)
	return nil
}

// RecoverERC20 sends amount of a token mistakenly held by the pool to the caller.
// Neither the staking nor the rewards token can be recovered.
func (r *Rewards) RecoverERC20(env *xenv.Environment, tokenAddr thor.Address, amount *uint256.Int) error {
	if amount == nil {
		amount = new(uint256.Int)
	}
	logger.Debug("recovering token", "caller", env.Caller(), "token", tokenAddr, "amount", amount)

	err := r.atomic("recoverERC20", func() error {
		if err := r.requireAuthorized(env.Caller()); err != nil {
			return err
		}
		cfg, err := r.Config()
		if err != nil {
			return err
		}
		if tokenAddr == cfg.StakingToken || tokenAddr == cfg.RewardsToken {
			return ErrCannotRecoverProtectedToken
		}
		t, err := r.resolve(tokenAddr)
		if err != nil {
			return transferFailed(err)
		}
		if err := t.Transfer(r.addr, env.Caller(), amount); err != nil {
			return transferFailed(err)
		}
		env.Log(r.addr, EventRecovered, tokenAddr, amount)
		return nil
	})
	if err != nil {
		logger.Info("recover token failed", "caller", env.Caller(), "error", err)
		return err
	}

	logger.Info("token recovered", "token", tokenAddr, "amount", amount)
	return nil
}

// SetPaused suspends or resumes staking. Withdrawals and claims are never paused.
func (r *Rewards) SetPaused(env *xenv.Environment, paused bool) error {
	logger.Debug("setting paused", "caller", env.Caller(), "paused", paused)

	err := r.atomic("setPaused", func() error {
		if err := r.requireAuthorized(env.Caller()); err != nil {
			return err
		}
		current, err := r.Paused()
		if err != nil {
			return err
		}
		if current == paused {
			return nil
		}
		if err := r.paused.Set(paused); err != nil {
			return errors.Wrap(err, "failed to set paused")
		}
		flag := new(uint256.Int)
		if paused {
			flag.SetOne()
		}
		env.Log(r.addr, EventPauseChanged, thor.Address{}, flag)
		return nil
	})
	if err != nil {
		logger.Info("set paused failed", "caller", env.Caller(), "error", err)
		return err
	}

	logger.Info("pause changed", "paused", paused)
	return nil
}

//
// internals
//

// atomic runs fn on a state checkpoint, which is reverted when fn fails.
func (r *Rewards) atomic(op string, fn func() error) error {
	revision := r.state.NewCheckpoint()
	err := fn()
	if err != nil {
		r.state.RevertTo(revision)
	}
	markOperation(op, err)
	return err
}

// updateReward checkpoints the integral at now, then settles account if not nil.
// Every balance or rate change must be preceded by it.
func (r *Rewards) updateReward(account *thor.Address, now uint64) (*accumulator.RewardState, error) {
	supply, err := r.ledgerService.TotalSupply()
	if err != nil {
		return nil, err
	}
	st, err := r.accumulatorService.Settle(now, supply)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return st, nil
	}

	bal, err := r.ledgerService.BalanceOf(*account)
	if err != nil {
		return nil, err
	}
	if _, err := r.checkpointService.Settle(*account, bal, st.RewardPerTokenStored); err != nil {
		return nil, err
	}
	return st, nil
}

func (r *Rewards) withdraw(env *xenv.Environment, amount *uint256.Int) error {
	caller := env.Caller()
	if isZero(amount) {
		return reverts.New(reverts.InsufficientBalance, "cannot withdraw 0")
	}
	if _, err := r.updateReward(&caller, env.Time()); err != nil {
		return err
	}
	if err := r.ledgerService.Withdraw(caller, amount); err != nil {
		return err
	}
	staking, err := r.stakingToken()
	if err != nil {
		return err
	}
	if err := staking.Transfer(r.addr, caller, amount); err != nil {
		return transferFailed(err)
	}
	env.Log(r.addr, EventWithdrawn, caller, amount)
	return nil
}

func (r *Rewards) getReward(env *xenv.Environment) (*uint256.Int, error) {
	caller := env.Caller()
	if _, err := r.updateReward(&caller, env.Time()); err != nil {
		return nil, err
	}
	claimed, err := r.checkpointService.Claim(caller)
	if err != nil {
		return nil, err
	}
	if claimed.IsZero() {
		return claimed, nil
	}
	rewards, err := r.rewardsToken()
	if err != nil {
		return nil, err
	}
	if err := rewards.Transfer(r.addr, caller, claimed); err != nil {
		return nil, transferFailed(err)
	}
	env.Log(r.addr, EventRewardPaid, caller, claimed)
	metricRewardPaid().Add(1)
	return claimed, nil
}

func (r *Rewards) requireAuthorized(caller thor.Address) error {
	ok, err := r.authorizer.IsAuthorized(caller)
	if err != nil {
		return errors.Wrap(err, "failed to check authorization")
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func (r *Rewards) token(addr thor.Address) (Token, error) {
	if addr.IsZero() {
		return nil, errors.New("pool not initialized")
	}
	t, err := r.resolve(addr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve token")
	}
	return t, nil
}

func (r *Rewards) stakingToken() (Token, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, err
	}
	return r.token(cfg.StakingToken)
}

func (r *Rewards) rewardsToken() (Token, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, err
	}
	return r.token(cfg.RewardsToken)
}
