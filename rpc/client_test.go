package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iotanames/inresolver/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, status int, body string, seen *Request) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		by, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if seen != nil {
			require.NoError(t, json.Unmarshal(by, seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCall_Result(t *testing.T) {
	seen := Request{}
	srv := rpcServer(t, 200, `{"jsonrpc":"2.0","id":1,"result":{"nftId":"0x1","data":{"website":"x.io"}}}`, &seen)

	raw, err := New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, []string{"example.iota"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"nftId":"0x1","data":{"website":"x.io"}}`, string(raw))

	assert.Equal(t, "2.0", seen.JsonRpc)
	assert.Equal(t, 1, seen.Id)
	assert.Equal(t, schema.NamesLookup, seen.Method)
	assert.Equal(t, []interface{}{"example.iota"}, seen.Params)
}

func TestCall_NullResult(t *testing.T) {
	srv := rpcServer(t, 200, `{"jsonrpc":"2.0","id":1,"result":null}`, nil)
	raw, err := New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, []string{"a.iota"})
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))
}

func TestCall_MissingResult(t *testing.T) {
	srv := rpcServer(t, 200, `{"jsonrpc":"2.0","id":1}`, nil)
	raw, err := New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, []string{"a.iota"})
	assert.Nil(t, raw)
	tErr := &schema.TransportError{}
	require.True(t, errors.As(err, &tErr))
	assert.True(t, errors.Is(err, schema.ErrMalformedRespond))
}

func TestCall_BadStatusWithoutErrorObject(t *testing.T) {
	srv := rpcServer(t, 502, `{"message":"upstream unavailable"}`, nil)
	raw, err := New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, []string{"a.iota"})
	assert.Nil(t, raw)
	tErr := &schema.TransportError{}
	require.True(t, errors.As(err, &tErr))

	// a result on a non-2xx reply is not trusted either
	srv = rpcServer(t, 503, `{"jsonrpc":"2.0","id":1,"result":null}`, nil)
	_, err = New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, []string{"a.iota"})
	require.True(t, errors.As(err, &tErr))
}

func TestCall_ContextCancelled(t *testing.T) {
	srv := rpcServer(t, 200, `{"jsonrpc":"2.0","id":1,"result":null}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(time.Second).Call(ctx, srv.URL, schema.NamesLookup, []string{"a.iota"})
	tErr := &schema.TransportError{}
	assert.True(t, errors.As(err, &tErr))
}

func TestCall_RpcError(t *testing.T) {
	// error objects are honoured whatever the http status
	srv := rpcServer(t, 500, `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"Method not found"}}`, nil)
	_, err := New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, []string{"a.iota"})

	rpcErr := &schema.RpcError{}
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "Method not found", rpcErr.Message)
	assert.Equal(t, int64(-32601), rpcErr.Code)
	assert.Equal(t, "Method not found (code -32601)", err.Error())
}

func TestCall_RpcErrorWithoutMessage(t *testing.T) {
	srv := rpcServer(t, 200, `{"error":{"code":1}}`, nil)
	_, err := New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, nil)
	rpcErr := &schema.RpcError{}
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "RPC error", rpcErr.Message)
}

func TestCall_MalformedBody(t *testing.T) {
	srv := rpcServer(t, 502, `<html>bad gateway</html>`, nil)
	_, err := New(time.Second).Call(context.Background(), srv.URL, schema.NamesLookup, nil)
	tErr := &schema.TransportError{}
	require.True(t, errors.As(err, &tErr))
	assert.True(t, errors.Is(err, schema.ErrMalformedRespond))
}

func TestCall_NetworkFailure(t *testing.T) {
	srv := rpcServer(t, 200, `{}`, nil)
	url := srv.URL
	srv.Close()

	_, err := New(time.Second).Call(context.Background(), url, schema.NamesLookup, nil)
	tErr := &schema.TransportError{}
	assert.True(t, errors.As(err, &tErr))
}
