package schema

import (
	"errors"
	"fmt"
)

var (
	ErrNotExist = errors.New("not_exist_record")
	ErrNotFound = errors.New("not_found")

	ErrNoTabId          = errors.New("No tabId")
	ErrNoName           = errors.New("No name")
	ErrUnknownMessage   = errors.New("Unknown message type")
	ErrInvalidTarget    = errors.New("invalid_target_url")
	ErrSessionNotExist  = errors.New("preview_session_not_exist")
	ErrContextMenuOff   = errors.New("context_menus_disabled")
	ErrInvalidSettings  = errors.New("invalid_settings")
	ErrMalformedRespond = errors.New("malformed_rpc_response")
	ErrInvalidPublicUrl = errors.New("invalid_public_url")
)

// RpcError is a well-formed JSON-RPC response carrying an error object.
type RpcError struct {
	Message string `json:"message"`
	Code    int64  `json:"code"`
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// TransportError covers network failures and unparseable response bodies.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ValidationError rejects a name or selection before it reaches the network.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Input, e.Reason)
}
