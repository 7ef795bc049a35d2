package render

import (
	"encoding/json"
	"net/http"
	"strconv"

	"lendingpool/handler/codes"

	"github.com/sirupsen/logrus"
	"github.com/twitchtv/twirp"
)

// H map view
type H map[string]interface{}

type errorResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(H{"data": v}); err != nil {
		logrus.WithError(err).Errorln("render json")
	}
}

// Error write error, ledger codes are kept as the response code
func Error(w http.ResponseWriter, err error) {
	twerr := codes.From(err)

	code := codes.Get(twerr.Code())
	if custom, e := strconv.Atoi(twerr.Meta(codes.CustomCodeKey)); e == nil {
		code = custom
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(twirp.ServerHTTPStatusFromErrorCode(twerr.Code()))

	if err := json.NewEncoder(w).Encode(errorResponse{Code: code, Msg: twerr.Msg()}); err != nil {
		logrus.WithError(err).Errorln("render error")
	}
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.NewError(twirp.InvalidArgument, err.Error()))
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, twirp.NotFoundError(err.Error()))
}
