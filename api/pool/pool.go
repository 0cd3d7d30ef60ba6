// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/events"
	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/builtin/rewards"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

type Pool struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Pool {
	return &Pool{rt}
}

func (p *Pool) handleGetPool(w http.ResponseWriter, _ *http.Request) error {
	var res *State
	err := p.rt.View(func(env *xenv.Environment) error {
		pool := builtin.Pool.WithState(env.State())
		now := env.Time()

		cfg, err := pool.Config()
		if err != nil {
			return err
		}
		st, err := pool.RewardState()
		if err != nil {
			return err
		}
		supply, err := pool.TotalSupply()
		if err != nil {
			return err
		}
		rpt, err := pool.RewardPerToken(now)
		if err != nil {
			return err
		}
		forDuration, err := pool.GetRewardForDuration()
		if err != nil {
			return err
		}
		paused, err := pool.Paused()
		if err != nil {
			return err
		}
		res = &State{
			Address:                  pool.Address(),
			StakingToken:             cfg.StakingToken,
			RewardsToken:             cfg.RewardsToken,
			TotalSupply:              utils.NewAmount(supply),
			RewardRate:               utils.NewAmount(st.RewardRate),
			RewardsDuration:          st.RewardsDuration,
			PeriodFinish:             st.PeriodFinish,
			LastUpdateTime:           st.LastUpdateTime,
			RewardPerTokenStored:     utils.NewAmount(st.RewardPerTokenStored),
			RewardPerToken:           utils.NewAmount(rpt),
			LastTimeRewardApplicable: st.LastTimeRewardApplicable(now),
			RewardForDuration:        utils.NewAmount(forDuration),
			Paused:                   paused,
			Now:                      now,
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (p *Pool) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := thor.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	var res *Account
	err = p.rt.View(func(env *xenv.Environment) error {
		pool := builtin.Pool.WithState(env.State())

		bal, err := pool.BalanceOf(addr)
		if err != nil {
			return err
		}
		earned, err := pool.Earned(addr, env.Time())
		if err != nil {
			return err
		}
		cp, err := pool.Checkpoint(addr)
		if err != nil {
			return err
		}
		res = &Account{
			Address:            addr,
			Balance:            utils.NewAmount(bal),
			Earned:             utils.NewAmount(earned),
			RewardPerTokenPaid: utils.NewAmount(cp.RewardPerTokenPaid),
			Rewards:            utils.NewAmount(cp.Rewards),
			Now:                env.Time(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

// exec runs op on the pool as caller and writes the receipt.
func (p *Pool) exec(w http.ResponseWriter, caller *thor.Address, op func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error)) error {
	if caller == nil {
		return utils.BadRequest(errors.New("body: caller required"))
	}

	var paid *uint256.Int
	evs, err := p.rt.Exec(*caller, func(env *xenv.Environment) (err error) {
		paid, err = op(env, builtin.Pool.WithState(env.State()))
		return
	})
	if err != nil {
		return utils.Revert(err)
	}

	receipt := &Receipt{Events: events.ConvertEvents(evs)}
	if paid != nil {
		receipt.Paid = utils.NewAmount(paid)
	}
	return utils.WriteJSON(w, receipt)
}

func parseAmountRequest(req *http.Request) (*AmountRequest, error) {
	var body AmountRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Amount == nil {
		return nil, utils.BadRequest(errors.New("body: amount required"))
	}
	return &body, nil
}

func (p *Pool) handleStake(w http.ResponseWriter, req *http.Request) error {
	body, err := parseAmountRequest(req)
	if err != nil {
		return err
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return nil, pool.Stake(env, body.Amount.Int())
	})
}

func (p *Pool) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	body, err := parseAmountRequest(req)
	if err != nil {
		return err
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return nil, pool.Withdraw(env, body.Amount.Int())
	})
}

func (p *Pool) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return pool.GetReward(env)
	})
}

func (p *Pool) handleExit(w http.ResponseWriter, req *http.Request) error {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return pool.Exit(env)
	})
}

func (p *Pool) handleNotify(w http.ResponseWriter, req *http.Request) error {
	body, err := parseAmountRequest(req)
	if err != nil {
		return err
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return nil, pool.NotifyRewardAmount(env, body.Amount.Int())
	})
}

func (p *Pool) handleSetDuration(w http.ResponseWriter, req *http.Request) error {
	var body DurationRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Duration == nil {
		return utils.BadRequest(errors.New("body: duration required"))
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return nil, pool.SetRewardsDuration(env, *body.Duration)
	})
}

func (p *Pool) handleRecover(w http.ResponseWriter, req *http.Request) error {
	var body RecoverRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Token == nil || body.Amount == nil {
		return utils.BadRequest(errors.New("body: token and amount required"))
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return nil, pool.RecoverERC20(env, *body.Token, body.Amount.Int())
	})
}

func (p *Pool) handlePause(w http.ResponseWriter, req *http.Request) error {
	var body PauseRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Paused == nil {
		return utils.BadRequest(errors.New("body: paused required"))
	}
	return p.exec(w, body.Caller, func(env *xenv.Environment, pool *rewards.Rewards) (*uint256.Int, error) {
		return nil, pool.SetPaused(env, *body.Paused)
	})
}

func (p *Pool) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetPool))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /pool/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetAccount))

	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /pool/stake").
		HandlerFunc(utils.WrapHandlerFunc(p.handleStake))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /pool/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(p.handleWithdraw))
	sub.Path("/reward").
		Methods(http.MethodPost).
		Name("POST /pool/reward").
		HandlerFunc(utils.WrapHandlerFunc(p.handleGetReward))
	sub.Path("/exit").
		Methods(http.MethodPost).
		Name("POST /pool/exit").
		HandlerFunc(utils.WrapHandlerFunc(p.handleExit))

	sub.Path("/admin/notify").
		Methods(http.MethodPost).
		Name("POST /pool/admin/notify").
		HandlerFunc(utils.WrapHandlerFunc(p.handleNotify))
	sub.Path("/admin/duration").
		Methods(http.MethodPost).
		Name("POST /pool/admin/duration").
		HandlerFunc(utils.WrapHandlerFunc(p.handleSetDuration))
	sub.Path("/admin/recover").
		Methods(http.MethodPost).
		Name("POST /pool/admin/recover").
		HandlerFunc(utils.WrapHandlerFunc(p.handleRecover))
	sub.Path("/admin/pause").
		Methods(http.MethodPost).
		Name("POST /pool/admin/pause").
		HandlerFunc(utils.WrapHandlerFunc(p.handlePause))
}
