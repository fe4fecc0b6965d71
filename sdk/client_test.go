package sdk

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iotanames/inresolver/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *InrCli {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestResolveNow(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/message", r.URL.Path)
		msg := schema.Message{}
		by, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(by, &msg))
		assert.Equal(t, schema.MsgResolveNow, msg.Type)
		assert.Equal(t, "alice.iota", msg.Name)
		w.Write([]byte(`{"ok":true,"payload":{"name":"alice.iota","record":{"targetAddress":"0xabc","data":{}},"websiteUrl":"https://alice.example/","resolvedAt":"2024-01-01T00:00:00.000Z"}}`))
	})

	payload, err := cli.ResolveNow("alice.iota")
	require.NoError(t, err)
	require.NotNil(t, payload)
	assert.Equal(t, "alice.iota", payload.Name)
	assert.Equal(t, "0xabc", payload.Record.TargetAddress)
	assert.Equal(t, "https://alice.example/", payload.WebsiteUrl)
}

func TestGetLastForTab_Null(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true,"payload":null}`))
	})
	payload, err := cli.GetLastForTab(7)
	assert.NoError(t, err)
	assert.Nil(t, payload)
}

func TestGetLastForSender_Header(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "12", r.Header.Get(tabIdHeader))
		w.Write([]byte(`{"ok":false,"error":"No tabId"}`))
	})
	_, err := cli.GetLastForSender(12)
	assert.EqualError(t, err, "No tabId")
}

func TestNavigate(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/navigation", r.URL.Path)
		req := schema.NavigationReq{}
		by, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(by, &req))
		assert.Equal(t, int64(3), req.TabId)
		require.NotNil(t, req.Preview)
		assert.False(t, *req.Preview)
		w.Write([]byte(`{"intercepted":true,"action":"direct","url":"https://alice.example/"}`))
	})
	nav, err := cli.Navigate(schema.NavigationEvent{TabId: 3, Url: "https://alice.iota/"}, false)
	require.NoError(t, err)
	assert.Equal(t, schema.ActionDirect, nav.Action)
	assert.Equal(t, "https://alice.example/", nav.Url)
}

func TestCloseTab_Failed(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tabs/4/close", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
	})
	assert.Error(t, cli.CloseTab(4))
}

func TestSelection(t *testing.T) {
	cli := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Alice.iota,", r.URL.Query().Get("text"))
		assert.Equal(t, "1", r.URL.Query().Get("details"))
		w.Write([]byte(`{"name":"alice.iota","url":"https://alice.iota/?inr_no_redirect=1"}`))
	})
	sel, err := cli.Selection("Alice.iota,", true)
	require.NoError(t, err)
	assert.Equal(t, "alice.iota", sel.Name)
}
