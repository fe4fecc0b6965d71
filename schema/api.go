package schema

import "encoding/json"

const (
	MsgGetLastForTab = "getLastForTab"
	MsgResolveNow    = "resolveNow"

	TabIdNone = int64(-1)

	// OptOutParam on a navigation forces the details page
	OptOutParam = "inr_no_redirect"
)

type Action string

const (
	ActionNone    Action = "none"
	ActionDirect  Action = "direct"
	ActionPreview Action = "preview"
	ActionDetails Action = "details"
)

// Message is a cross-context request. TabId falls back to SenderTabId.
type Message struct {
	Type        string `json:"type"`
	TabId       *int64 `json:"tabId,omitempty"`
	Name        string `json:"name,omitempty"`
	SenderTabId *int64 `json:"-"`
}

type Envelope struct {
	Ok      bool
	Payload interface{}
	Error   string
}

// MarshalJSON keeps a null payload visible on success and drops it on failure.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Ok {
		return json.Marshal(map[string]interface{}{"ok": true, "payload": e.Payload})
	}
	return json.Marshal(map[string]interface{}{"ok": false, "error": e.Error})
}

type NavigationEvent struct {
	TabId   int64  `json:"tabId"`
	FrameId int    `json:"frameId"`
	Url     string `json:"url"`
}

type NavigationReq struct {
	NavigationEvent
	Preview *bool `json:"preview"` // defaults to true
}

// Navigation is the engine's answer for one navigation event. Url is empty
// for ActionNone.
type Navigation struct {
	Intercepted bool               `json:"intercepted"`
	Action      Action             `json:"action"`
	Url         string             `json:"url,omitempty"`
	Payload     *ResolutionPayload `json:"payload,omitempty"`
}

type SelectionResp struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

type RespErr struct {
	Err string `json:"error"`
}

func (r RespErr) Error() string {
	return r.Err
}
