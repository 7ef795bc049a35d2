package payee

import (
	"encoding/base64"

	"lendingpool/core"

	"github.com/fox-one/msgpack"
	"github.com/shopspring/decimal"
)

// action types
const (
	ActionDeposit  = "deposit"
	ActionLock     = "lock"
	ActionRepay    = "repay"
	ActionRepayAll = "repay_all"
	ActionWithdraw = "withdraw"
	ActionRedeem   = "redeem"
	ActionBorrow   = "borrow"
)

// Action request carried by a snapshot memo, base64 of its msgpack encoding
//
// Deposit, lock, repay and repay_all pay with the snapshot itself. Withdraw, redeem
// and borrow only use the snapshot to carry the request, its amount is refunded.
type Action struct {
	Type string `msgpack:"t"`
	// target token of requests, the snapshot asset when empty
	Token string `msgpack:"a,omitempty"`
	// shares to withdraw or redeem, tokens to borrow
	Amount string `msgpack:"m,omitempty"`
	// fixed-term deposit key
	Key string `msgpack:"k,omitempty"`
	// lock days of the fixed-term tier
	Days int64 `msgpack:"d,omitempty"`
}

// EncodeAction memo of action
func EncodeAction(action Action) (string, error) {
	b, err := msgpack.Marshal(action)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(b), nil
}

// DecodeAction parses a memo encoded with std or url base64
func DecodeAction(memo string) (*Action, error) {
	b, err := base64.StdEncoding.DecodeString(memo)
	if err != nil {
		if b, err = base64.URLEncoding.DecodeString(memo); err != nil {
			return nil, core.ErrInvalidAction
		}
	}

	var action Action
	if err := msgpack.Unmarshal(b, &action); err != nil || action.Type == "" {
		return nil, core.ErrInvalidAction
	}

	return &action, nil
}

func (a *Action) amount() (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(a.Amount)
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	return amount, nil
}

func (a *Action) token(asset string) string {
	if a.Token == "" {
		return asset
	}

	return a.Token
}
