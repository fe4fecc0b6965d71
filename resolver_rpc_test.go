package inresolver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iotanames/inresolver/cache"
	"github.com/iotanames/inresolver/config"
	"github.com/iotanames/inresolver/rawdb"
	"github.com/iotanames/inresolver/rpc"
	"github.com/iotanames/inresolver/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonRpcServer(t *testing.T, status int, body string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// routedCaller sends configured endpoints to local servers through a real
// rpc.Client.
type routedCaller struct {
	cli    *rpc.Client
	routes map[string]string
}

func (c *routedCaller) Call(ctx context.Context, endpoint, method string, params interface{}) (json.RawMessage, error) {
	if target, ok := c.routes[endpoint]; ok {
		endpoint = target
	}
	return c.cli.Call(ctx, endpoint, method, params)
}

func newRpcResolver(t *testing.T, caller Caller, rpcUrl string) (*Resolver, *config.Config, *cache.ResolutionCache) {
	bc, err := cache.NewBigCache(time.Hour)
	require.NoError(t, err)
	cfg := config.New(rawdb.NewMemoryDB())
	require.NoError(t, cfg.SetRpcUrl(rpcUrl))
	rc := cache.NewResolutionCache(bc, nil)
	return NewResolver(caller, cfg, rc), cfg, rc
}

func TestResolve_RealRpcClient(t *testing.T) {
	srv := jsonRpcServer(t, 200, `{"jsonrpc":"2.0","id":1,"result":`+exampleRecord+`}`)
	resolver, _, _ := newRpcResolver(t, rpc.New(time.Second), srv.URL)

	record, err := resolver.Resolve(context.Background(), "example.iota")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "0xabc", record.TargetAddress)
	assert.Equal(t, "example.org", record.Data["website"])
}

func TestResolve_RealRpcClientUnknownName(t *testing.T) {
	srv := jsonRpcServer(t, 200, `{"jsonrpc":"2.0","id":1,"result":null}`)
	resolver, _, _ := newRpcResolver(t, rpc.New(time.Second), srv.URL)

	record, err := resolver.Resolve(context.Background(), "nobody.iota")
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestResolve_GatewayErrorIsNotCached(t *testing.T) {
	srv := jsonRpcServer(t, 502, `{"message":"upstream unavailable"}`)
	resolver, _, rc := newRpcResolver(t, rpc.New(time.Second), srv.URL)

	record, err := resolver.Resolve(context.Background(), "example.iota")
	assert.Nil(t, record)
	tErr := &schema.TransportError{}
	require.True(t, errors.As(err, &tErr))

	_, ok := rc.Get(cache.Key(srv.URL, "example.iota"))
	assert.False(t, ok)
}

func TestResolve_GatewayErrorTriggersFallback(t *testing.T) {
	bad := jsonRpcServer(t, 502, `{"message":"upstream unavailable"}`)
	good := jsonRpcServer(t, 200, `{"jsonrpc":"2.0","id":1,"result":`+exampleRecord+`}`)
	primary := "https://api.mainnet.iota.cafe:443"
	fallback := "https://indexer.mainnet.iota.cafe:443"
	caller := &routedCaller{
		cli:    rpc.New(time.Second),
		routes: map[string]string{primary: bad.URL, fallback: good.URL},
	}
	resolver, cfg, rc := newRpcResolver(t, caller, primary)

	record, err := resolver.Resolve(context.Background(), "example.iota")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "0xnft", record.NftId)

	settings, err := cfg.Get()
	require.NoError(t, err)
	assert.Equal(t, fallback, settings.RpcUrl)

	cached, ok := rc.Get(cache.Key(primary, "example.iota"))
	require.True(t, ok)
	require.NotNil(t, cached)
	assert.Equal(t, "0xabc", cached.TargetAddress)
}
