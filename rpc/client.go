// Package rpc issues single JSON-RPC 2.0 requests and classifies failures
// into protocol errors (schema.RpcError) and transport errors
// (schema.TransportError).
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iotanames/inresolver/common"
	"github.com/iotanames/inresolver/schema"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
	"gopkg.in/h2non/gentleman.v2/plugins/timeout"
)

var log = common.NewLog("rpc")

type Request struct {
	JsonRpc string      `json:"jsonrpc"`
	Id      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type Client struct {
	cli *gentleman.Client
}

func New(reqTimeout time.Duration) *Client {
	cli := gentleman.New()
	if reqTimeout > 0 {
		cli.Use(timeout.Request(reqTimeout))
	}
	return &Client{cli: cli}
}

// Call returns the raw `result` member. Bodies that are neither a result nor
// an error object, and non-2xx replies without an error object, are transport
// failures.
func (c *Client) Call(ctx context.Context, endpoint, method string, params interface{}) (json.RawMessage, error) {
	req := c.cli.Request()
	req.Method("POST")
	req.URL(endpoint)
	req.SetHeader("content-type", "application/json")
	req.JSON(Request{JsonRpc: "2.0", Id: 1, Method: method, Params: params})
	req.Context.SetCancelContext(ctx)

	resp, err := req.Send()
	if err != nil {
		return nil, &schema.TransportError{Err: err}
	}
	defer resp.Close()
	body := resp.Bytes()

	if !gjson.ValidBytes(body) {
		log.Debug("malformed rpc response", "endpoint", endpoint, "status", resp.StatusCode)
		return nil, &schema.TransportError{Err: fmt.Errorf("%w: status %d", schema.ErrMalformedRespond, resp.StatusCode)}
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, &schema.TransportError{Err: errors.New("rpc response is not an object")}
	}

	if rpcErr := parsed.Get("error"); rpcErr.Exists() && rpcErr.Type != gjson.Null {
		msg := rpcErr.Get("message").String()
		if msg == "" {
			msg = "RPC error"
		}
		return nil, &schema.RpcError{Message: msg, Code: rpcErr.Get("code").Int()}
	}

	if !resp.Ok {
		return nil, &schema.TransportError{Err: fmt.Errorf("%w: status %d", schema.ErrMalformedRespond, resp.StatusCode)}
	}
	result := parsed.Get("result")
	if !result.Exists() {
		return nil, &schema.TransportError{Err: fmt.Errorf("%w: no result member", schema.ErrMalformedRespond)}
	}
	return json.RawMessage(result.Raw), nil
}
