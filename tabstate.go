package inresolver

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/iotanames/inresolver/rawdb"
	"github.com/iotanames/inresolver/schema"
)

// TabStore keeps the last resolution payload per tab under "last:<tabId>".
// Entries live until the tab closes.
type TabStore struct {
	db rawdb.KeyValueDB
}

// NewTabStore prefers the session-scoped area and falls back to the durable one.
func NewTabStore(session, local rawdb.KeyValueDB) *TabStore {
	if session != nil {
		return &TabStore{db: session}
	}
	return &TabStore{db: local}
}

func tabKey(tabId int64) string {
	return schema.LastPrefix + strconv.FormatInt(tabId, 10)
}

func (t *TabStore) SetLast(tabId int64, payload schema.ResolutionPayload) error {
	by, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return t.db.Put(schema.TabStateBucket, tabKey(tabId), by)
}

// GetLast returns nil when nothing is recorded for the tab.
func (t *TabStore) GetLast(tabId int64) (*schema.ResolutionPayload, error) {
	by, err := t.db.Get(schema.TabStateBucket, tabKey(tabId))
	if errors.Is(err, schema.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	payload := &schema.ResolutionPayload{}
	if err := json.Unmarshal(by, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (t *TabStore) Clear(tabId int64) error {
	return t.db.Delete(schema.TabStateBucket, tabKey(tabId))
}

func (t *TabStore) Count() (int, error) {
	keys, err := t.db.GetAllKey(schema.TabStateBucket)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, k := range keys {
		if strings.HasPrefix(k, schema.LastPrefix) {
			n++
		}
	}
	return n, nil
}

// OnTabRemoved is the tab-closed lifecycle hook. Cleanup is best effort.
func (t *TabStore) OnTabRemoved(tabId int64) {
	if err := t.Clear(tabId); err != nil {
		log.Debug("clear tab state", "err", err, "tabId", tabId)
	}
}
