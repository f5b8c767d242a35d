// Package generichttp defines interfaces for generic devices
// and an extensible type that wraps them in an HTTP interface
package generichttp

import (
	"encoding/json"
	"fmt"
	"go/types"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi"
	"github.com/pkg/errors"
)

// MethodPath is a combination of an HTTP method and a URL path
type MethodPath struct {
	Method, Path string
}

// RouteTable maps method-paths to handlers
type RouteTable map[MethodPath]http.HandlerFunc

// Endpoints lists the routes in the table as "METHOD /path", sorted
func (rt RouteTable) Endpoints() []string {
	out := make([]string, 0, len(rt))
	for mp := range rt {
		out = append(out, mp.Method+" "+mp.Path)
	}
	sort.Strings(out)
	return out
}

// Bind binds the routes of the table to a chi router, plus a GET route at
// /endpoints which lists them
func (rt RouteTable) Bind(r chi.Router) {
	for mp, f := range rt {
		r.MethodFunc(mp.Method, mp.Path, f)
	}
	r.Get("/endpoints", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(rt.Endpoints())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// HTTPer is a type that exposes its HTTP routes
type HTTPer interface {
	// RT returns the route table of the type
	RT() RouteTable
}

// SubMuxSanitize makes sure a mount point for a sub-router starts with a
// slash and does not end with one
func SubMuxSanitize(str string) string {
	if !strings.HasPrefix(str, "/") {
		str = "/" + str
	}
	if len(str) > 1 {
		str = strings.TrimSuffix(str, "/")
	}
	return str
}

// FloatT is a struct with a single float64 field
type FloatT struct {
	F64 float64 `json:"f64"`
}

// IntT is a struct with a single int field
type IntT struct {
	Int int `json:"int"`
}

// BoolT is a struct with a single bool field
type BoolT struct {
	Bool bool `json:"bool"`
}

// StrT is a struct with a single string field
type StrT struct {
	Str string `json:"str"`
}

// HumanPayload holds one value of a basic type and knows how to send it
type HumanPayload struct {
	// T selects which of the other fields is sent
	T types.BasicKind

	Bool   bool
	Float  float64
	Int    int
	String string
}

// EncodeAndRespond writes the payload to w.  Clients that accept only
// text/plain get the bare value, others get JSON such as {"f64": 1.5}
func (hp HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	var v interface{}
	switch hp.T {
	case types.Bool:
		v = BoolT{Bool: hp.Bool}
	case types.Float64:
		v = FloatT{F64: hp.Float}
	case types.Int:
		v = IntT{Int: hp.Int}
	case types.String:
		v = StrT{Str: hp.String}
	default:
		http.Error(w, fmt.Sprintf("payload of kind %v cannot be encoded", hp.T), http.StatusInternalServerError)
		return
	}
	if r.Header.Get("Accept") == "text/plain" {
		w.Header().Set("Content-Type", "text/plain")
		switch hp.T {
		case types.Bool:
			fmt.Fprint(w, hp.Bool)
		case types.Float64:
			fmt.Fprint(w, hp.Float)
		case types.Int:
			fmt.Fprint(w, hp.Int)
		case types.String:
			fmt.Fprint(w, hp.String)
		}
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ErrorStatus is the HTTP status for an error from a device: 504 if the
// error reports a timeout, 400 if it reports bad input, 500 otherwise
func ErrorStatus(err error) int {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return http.StatusGatewayTimeout
	}
	var b interface{ BadInput() bool }
	if errors.As(err, &b) && b.BadInput() {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Error replies to the request with the error and ErrorStatus
func Error(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), ErrorStatus(err))
}

// GetFloat calls a float-getting function and returns the response
// as json {'f64': value}
func GetFloat(fcn func() (float64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := fcn()
		if err != nil {
			Error(w, err)
			return
		}
		hp := HumanPayload{T: types.Float64, Float: f}
		hp.EncodeAndRespond(w, r)
	}
}

// SetFloat parses a JSON input of {'f64': value} and
// calls fcn with it
func SetFloat(fcn func(float64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := FloatT{}
		err := json.NewDecoder(r.Body).Decode(&f)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = fcn(f.F64)
		if err != nil {
			Error(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetInt calls an int-getting function and returns the response
// as json {'int': value}
func GetInt(fcn func() (int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		i, err := fcn()
		if err != nil {
			Error(w, err)
			return
		}
		hp := HumanPayload{T: types.Int, Int: i}
		hp.EncodeAndRespond(w, r)
	}
}

// SetInt parses a JSON input of {'int': value} and
// calls fcn with it
func SetInt(fcn func(int) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := IntT{}
		err := json.NewDecoder(r.Body).Decode(&f)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = fcn(f.Int)
		if err != nil {
			Error(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetString calls a string-getting function and returns the response
// as json {'str': value}
func GetString(fcn func() (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := fcn()
		if err != nil {
			Error(w, err)
			return
		}
		hp := HumanPayload{T: types.String, String: s}
		hp.EncodeAndRespond(w, r)
	}
}

// SetString parses a JSON input of {'str': value} and
// calls fcn with it
func SetString(fcn func(string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := StrT{}
		err := json.NewDecoder(r.Body).Decode(&s)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = fcn(s.Str)
		if err != nil {
			Error(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetBool calls a bool-getting function and returns the response
// as json {'bool': value}
func GetBool(fcn func() (bool, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fcn()
		if err != nil {
			Error(w, err)
			return
		}
		hp := HumanPayload{T: types.Bool, Bool: b}
		hp.EncodeAndRespond(w, r)
	}
}

// SetBool parses a JSON input of {'bool': value} and
// calls fcn with it
func SetBool(fcn func(bool) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b := BoolT{}
		err := json.NewDecoder(r.Body).Decode(&b)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		err = fcn(b.Bool)
		if err != nil {
			Error(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}

// GetJSON calls fcn and returns its result encoded as JSON
func GetJSON(fcn func() (interface{}, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := fcn()
		if err != nil {
			Error(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err = json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
