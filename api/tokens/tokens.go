// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/rewardpool/api/utils"
	"github.com/vechain/rewardpool/builtin"
	"github.com/vechain/rewardpool/builtin/reverts"
	"github.com/vechain/rewardpool/builtin/token"
	"github.com/vechain/rewardpool/runtime"
	"github.com/vechain/rewardpool/thor"
	"github.com/vechain/rewardpool/xenv"
)

var errMintUnauthorized = reverts.New(reverts.Unauthorized, "caller is not authorized to mint")

type Token struct {
	Address     thor.Address  `json:"address"`
	Name        string        `json:"name"`
	Symbol      string        `json:"symbol"`
	Decimals    uint8         `json:"decimals"`
	TotalSupply *utils.Amount `json:"totalSupply"`
}

type Balance struct {
	Balance *utils.Amount `json:"balance"`
}

type Allowance struct {
	Allowance *utils.Amount `json:"allowance"`
}

// TransferRequest is the body of transfer, approve and mint. To is the spender on approve.
type TransferRequest struct {
	Caller *thor.Address `json:"caller"`
	To     *thor.Address `json:"to"`
	Amount *utils.Amount `json:"amount"`
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func parseAddress(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

// view resolves the token from the path and runs fn on it.
func (t *Tokens) view(req *http.Request, fn func(tk *token.Token) error) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	return t.rt.View(func(env *xenv.Environment) error {
		tk, err := builtin.Token(env.State(), addr)
		if err != nil {
			if errors.Is(err, builtin.ErrUnknownToken) {
				return utils.NotFound(err)
			}
			return err
		}
		return fn(tk)
	})
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	var res *Token
	err := t.view(req, func(tk *token.Token) error {
		md, err := tk.Metadata()
		if err != nil {
			return err
		}
		supply, err := tk.TotalSupply()
		if err != nil {
			return err
		}
		res = &Token{
			Address:     tk.Address(),
			Name:        md.Name,
			Symbol:      md.Symbol,
			Decimals:    md.Decimals,
			TotalSupply: utils.NewAmount(supply),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	account, err := parseAddress(req, "account")
	if err != nil {
		return err
	}
	var res *Balance
	err = t.view(req, func(tk *token.Token) error {
		bal, err := tk.BalanceOf(account)
		if err != nil {
			return err
		}
		res = &Balance{utils.NewAmount(bal)}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

func (t *Tokens) handleGetAllowance(w http.ResponseWriter, req *http.Request) error {
	owner, err := parseAddress(req, "owner")
	if err != nil {
		return err
	}
	spender, err := parseAddress(req, "spender")
	if err != nil {
		return err
	}
	var res *Allowance
	err = t.view(req, func(tk *token.Token) error {
		allowance, err := tk.Allowance(owner, spender)
		if err != nil {
			return err
		}
		res = &Allowance{utils.NewAmount(allowance)}
		return nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, res)
}

// exec parses the request and runs op on the token as the caller.
func (t *Tokens) exec(w http.ResponseWriter, req *http.Request, op func(env *xenv.Environment, tk *token.Token, to thor.Address, body *TransferRequest) error) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if body.Caller == nil || body.To == nil || body.Amount == nil {
		return utils.BadRequest(errors.New("body: caller, to and amount required"))
	}

	_, err = t.rt.Exec(*body.Caller, func(env *xenv.Environment) error {
		tk, err := builtin.Token(env.State(), addr)
		if err != nil {
			if errors.Is(err, builtin.ErrUnknownToken) {
				return utils.NotFound(err)
			}
			return err
		}
		return op(env, tk, *body.To, &body)
	})
	if err != nil {
		return utils.Revert(err)
	}
	return utils.WriteJSON(w, utils.M{})
}

func (t *Tokens) handleTransfer(w http.ResponseWriter, req *http.Request) error {
	return t.exec(w, req, func(env *xenv.Environment, tk *token.Token, to thor.Address, body *TransferRequest) error {
		return tk.Transfer(env.Caller(), to, body.Amount.Int())
	})
}

func (t *Tokens) handleApprove(w http.ResponseWriter, req *http.Request) error {
	return t.exec(w, req, func(env *xenv.Environment, tk *token.Token, spender thor.Address, body *TransferRequest) error {
		return tk.Approve(env.Caller(), spender, body.Amount.Int())
	})
}

// handleMint is for dev networks, where authorities fund test accounts.
func (t *Tokens) handleMint(w http.ResponseWriter, req *http.Request) error {
	return t.exec(w, req, func(env *xenv.Environment, tk *token.Token, to thor.Address, body *TransferRequest) error {
		ok, err := builtin.Authority.WithState(env.State()).IsAuthorized(env.Caller())
		if err != nil {
			return err
		}
		if !ok {
			return errMintUnauthorized
		}
		return tk.Mint(to, body.Amount.Int())
	})
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/balances/{account}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/balances/{account}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
	sub.Path("/{address}/allowances/{owner}/{spender}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/allowances/{owner}/{spender}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetAllowance))

	sub.Path("/{address}/transfer").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/transfer").
		HandlerFunc(utils.WrapHandlerFunc(t.handleTransfer))
	sub.Path("/{address}/approve").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/approve").
		HandlerFunc(utils.WrapHandlerFunc(t.handleApprove))
	sub.Path("/{address}/mint").
		Methods(http.MethodPost).
		Name("POST /tokens/{address}/mint").
		HandlerFunc(utils.WrapHandlerFunc(t.handleMint))
}
