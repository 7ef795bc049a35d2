package param

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/gorilla/schema"
	"github.com/spf13/cast"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.SetAliasTag("json")
	d.IgnoreUnknownKeys(true)
	return d
}

// Binding decodes the query string into v
func Binding(r *http.Request, v interface{}) error {
	return decoder.Decode(v, r.URL.Query())
}

// Path url param
func Path(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// Int64 query param as int64, def if absent
func Int64(r *http.Request, key string, def int64) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	return cast.ToInt64(v)
}
