package codes

import (
	"errors"
	"strconv"

	"lendingpool/core"

	"github.com/twitchtv/twirp"
)

const (
	// CustomCodeKey code key
	CustomCodeKey = "custom_code"

	// InvalidArguments invalid arguments
	InvalidArguments = 100001
)

// Get get error code
func Get(code twirp.ErrorCode) int {
	switch code {
	case twirp.InvalidArgument:
		return InvalidArguments
	default:
		return twirp.ServerHTTPStatusFromErrorCode(code)
	}
}

// From converts a ledger error into a twirp error carrying its code
func From(err error) twirp.Error {
	if twerr, ok := err.(twirp.Error); ok {
		return twerr
	}

	var code core.ErrorCode
	if !errors.As(err, &code) {
		return twirp.InternalErrorWith(err)
	}

	var twerr twirp.Error
	switch {
	case code == core.ErrAssetNotFound || code == core.ErrDepositNotFound:
		twerr = twirp.NotFoundError(code.Error())
	case code == core.ErrReentrant:
		twerr = twirp.NewError(twirp.Unavailable, code.Error())
	case code.Kind() == core.KindPolicy:
		twerr = twirp.NewError(twirp.InvalidArgument, code.Error())
	case code.Kind() == core.KindState, code.Kind() == core.KindTemporal:
		twerr = twirp.NewError(twirp.FailedPrecondition, code.Error())
	default:
		twerr = twirp.InternalErrorWith(err)
	}

	return twerr.WithMeta(CustomCodeKey, strconv.Itoa(int(code)))
}
