// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Code classifies a revert.
type Code string

const (
	ZeroAmount                  Code = "ZeroAmount"
	InsufficientBalance         Code = "InsufficientBalance"
	InsufficientAllowance       Code = "InsufficientAllowance"
	InsufficientRewardBalance   Code = "InsufficientRewardBalance"
	RewardPeriodActive          Code = "RewardPeriodActive"
	Unauthorized                Code = "Unauthorized"
	CannotRecoverProtectedToken Code = "CannotRecoverProtectedToken"
	TransferFailed              Code = "TransferFailed"
	Paused                      Code = "Paused"
	InvalidDuration             Code = "InvalidDuration"
	Overflow                    Code = "Overflow"
)

// ErrRevert is a local validation failure. The whole operation raising it is rolled back.
type ErrRevert struct {
	code    Code
	message string
}

func New(code Code, message string) *ErrRevert {
	return &ErrRevert{
		code:    code,
		message: message,
	}
}

// Newf creates a revert with formatted message.
func Newf(code Code, format string, args ...any) *ErrRevert {
	return New(code, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	return e.message
}

func (e *ErrRevert) Code() Code {
	return e.code
}

// Is reports reverts of the same code as equal, so sentinels match reverts with other messages.
func (e *ErrRevert) Is(target error) bool {
	var t *ErrRevert
	if !errors.As(target, &t) {
		return false
	}
	return t != nil && e.code == t.code
}

// Bytes encodes the revert as solidity Error(string) return data.
func (e *ErrRevert) Bytes() []byte {
	if e == nil {
		return nil
	}

	// 4-byte selector for Error(string)
	selector := []byte{0x08, 0xc3, 0x79, 0xa0}
	msgBytes := []byte(e.message)
	padded := ((len(msgBytes) + 31) / 32) * 32

	encoded := make([]byte, 4+32+32+padded)
	copy(encoded, selector)
	// offset is always 0x20 after the selector
	binary.BigEndian.PutUint64(encoded[4+24:], 32)
	binary.BigEndian.PutUint64(encoded[4+32+24:], uint64(len(msgBytes)))
	copy(encoded[4+64:], msgBytes)
	return encoded
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// CodeOf returns the code of the revert wrapped in err, if any.
func CodeOf(err error) (Code, bool) {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.code, true
	}
	return "", false
}
