// Package sdk is a client for the resolver's HTTP API, for UI surfaces that
// live outside the process.
package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/iotanames/inresolver/schema"
	"gopkg.in/h2non/gentleman.v2"
)

const tabIdHeader = "X-Inr-Tab-Id"

type InrCli struct {
	SCli *gentleman.Client
}

func New(inrUrl string) *InrCli {
	return &InrCli{
		SCli: gentleman.New().URL(inrUrl),
	}
}

type envelope struct {
	Ok      bool            `json:"ok"`
	Payload json.RawMessage `json:"payload"`
	Error   string          `json:"error"`
}

// GetLastForTab returns nil when nothing was recorded for the tab.
func (a *InrCli) GetLastForTab(tabId int64) (*schema.ResolutionPayload, error) {
	return a.message(schema.Message{Type: schema.MsgGetLastForTab, TabId: &tabId}, schema.TabIdNone)
}

// GetLastForSender asks for the sending tab's payload without naming it.
func (a *InrCli) GetLastForSender(senderTabId int64) (*schema.ResolutionPayload, error) {
	return a.message(schema.Message{Type: schema.MsgGetLastForTab}, senderTabId)
}

func (a *InrCli) ResolveNow(name string) (*schema.ResolutionPayload, error) {
	return a.message(schema.Message{Type: schema.MsgResolveNow, Name: name}, schema.TabIdNone)
}

func (a *InrCli) message(msg schema.Message, senderTabId int64) (*schema.ResolutionPayload, error) {
	req := a.SCli.Post()
	req.Path("/message")
	if senderTabId >= 0 {
		req.SetHeader(tabIdHeader, strconv.FormatInt(senderTabId, 10))
	}
	req.JSON(msg)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if !resp.Ok {
		return nil, fmt.Errorf("resp failed: %s", resp.String())
	}
	env := envelope{}
	if err := resp.JSON(&env); err != nil {
		return nil, err
	}
	if !env.Ok {
		return nil, errors.New(env.Error)
	}
	if len(env.Payload) == 0 || string(env.Payload) == "null" {
		return nil, nil
	}
	payload := &schema.ResolutionPayload{}
	err = json.Unmarshal(env.Payload, payload)
	return payload, err
}

func (a *InrCli) Navigate(ev schema.NavigationEvent, preview bool) (schema.Navigation, error) {
	req := a.SCli.Post()
	req.Path("/navigation")
	req.JSON(schema.NavigationReq{NavigationEvent: ev, Preview: &preview})
	resp, err := req.Send()
	if err != nil {
		return schema.Navigation{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.Navigation{}, fmt.Errorf("resp failed: %s", resp.String())
	}
	nav := schema.Navigation{}
	err = resp.JSON(&nav)
	return nav, err
}

func (a *InrCli) CloseTab(tabId int64) error {
	req := a.SCli.Post()
	req.Path(fmt.Sprintf("/tabs/%d/close", tabId))
	resp, err := req.Send()
	if err != nil {
		return err
	}
	defer resp.Close()
	if !resp.Ok {
		return fmt.Errorf("resp failed: %s", resp.String())
	}
	return nil
}

func (a *InrCli) GetSettings() (schema.Settings, error) {
	req := a.SCli.Get()
	req.Path("/settings")
	resp, err := req.Send()
	if err != nil {
		return schema.Settings{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.Settings{}, fmt.Errorf("resp failed: %s", resp.String())
	}
	settings := schema.Settings{}
	err = resp.JSON(&settings)
	return settings, err
}

func (a *InrCli) UpdateSettings(patch schema.SettingsPatch) (schema.Settings, error) {
	req := a.SCli.Put()
	req.Path("/settings")
	req.JSON(patch)
	resp, err := req.Send()
	if err != nil {
		return schema.Settings{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.Settings{}, fmt.Errorf("resp failed: %s", resp.String())
	}
	settings := schema.Settings{}
	err = resp.JSON(&settings)
	return settings, err
}

// Selection turns selected text into the URL a new tab should open.
func (a *InrCli) Selection(text string, details bool) (schema.SelectionResp, error) {
	req := a.SCli.Get()
	req.Path("/selection")
	req.AddQuery("text", text)
	if details {
		req.AddQuery("details", "1")
	}
	resp, err := req.Send()
	if err != nil {
		return schema.SelectionResp{}, err
	}
	defer resp.Close()
	if !resp.Ok {
		return schema.SelectionResp{}, fmt.Errorf("resp failed: %s", resp.String())
	}
	sel := schema.SelectionResp{}
	err = resp.JSON(&sel)
	return sel, err
}
