package inresolver

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iotanames/inresolver/schema"
)

const (
	detailsPage = "/resolve.html"
	previewPage = "/redirect.html"
)

// ShouldIntercept filters navigation events down to top-level http(s)
// navigations to a host under the naming suffix, never our own pages.
func (s *Inr) ShouldIntercept(ev schema.NavigationEvent) (*url.URL, bool) {
	if ev.FrameId != 0 || ev.Url == "" {
		return nil, false
	}
	u, err := url.Parse(ev.Url)
	if err != nil {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	if s.isInternalPage(u) {
		return nil, false
	}
	if !isNameHost(u.Hostname()) {
		return nil, false
	}
	return u, true
}

func (s *Inr) isInternalPage(u *url.URL) bool {
	if s.publicUrl == nil || u.Scheme != s.publicUrl.Scheme || !strings.EqualFold(u.Host, s.publicUrl.Host) {
		return false
	}
	return strings.HasSuffix(u.Path, detailsPage) || strings.HasSuffix(u.Path, previewPage)
}

func isNameHost(hostname string) bool {
	return strings.HasSuffix(strings.ToLower(hostname), schema.NamingSuffix)
}

// HandleNavigation resolves the navigated name, records the outcome for the
// tab and says where the tab should go. It never fails: resolution errors end
// up in the payload and on the details page.
func (s *Inr) HandleNavigation(ctx context.Context, ev schema.NavigationEvent, previewAvailable bool) schema.Navigation {
	u, ok := s.ShouldIntercept(ev)
	if !ok {
		return schema.Navigation{Intercepted: false, Action: schema.ActionNone}
	}
	name := strings.ToLower(u.Hostname())

	payload := schema.ResolutionPayload{Name: name}
	in := DecisionInput{Url: u, PreviewAvailable: previewAvailable}

	settings, err := s.config.Get()
	if err == nil {
		in.Settings = settings
		var record *schema.ResolutionRecord
		record, err = s.resolver.Resolve(ctx, name)
		if err == nil {
			payload.Record = record
			if record != nil {
				payload.WebsiteUrl = PickWebsiteUrl(record.Data, settings.WebsiteKeys)
			}
		}
	}
	if err != nil {
		log.Warn("resolve failed", "err", err, "name", name, "tabId", ev.TabId)
		payload.Error = err.Error()
		in.Err = err
	}
	payload.ResolvedAt = nowISO(s.now())
	in.WebsiteUrl = payload.WebsiteUrl

	if ev.TabId >= 0 {
		if err := s.tabs.SetLast(ev.TabId, payload); err != nil {
			log.Error("record tab state failed", "err", err, "tabId", ev.TabId)
		}
	}

	d := Decide(in)
	nav := schema.Navigation{Intercepted: true, Action: d.Action, Payload: &payload}
	switch d.Action {
	case schema.ActionDetails:
		nav.Url = s.DetailsUrl(name, ev.TabId)
	case schema.ActionPreview:
		nav.Url = s.PreviewUrl(name, d.Target, ev.Url, ev.TabId)
	case schema.ActionDirect:
		nav.Url = d.Target
	}
	metricNavigation(d.Action)
	return nav
}

func (s *Inr) pageUrl(page string) *url.URL {
	u := *s.publicUrl
	u.Path = strings.TrimRight(u.Path, "/") + page
	u.RawQuery = ""
	u.Fragment = ""
	return &u
}

func (s *Inr) DetailsUrl(name string, tabId int64) string {
	u := s.pageUrl(detailsPage)
	q := url.Values{}
	q.Set("name", name)
	if tabId >= 0 {
		q.Set("tabId", strconv.FormatInt(tabId, 10))
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (s *Inr) PreviewUrl(name, target, from string, tabId int64) string {
	u := s.pageUrl(previewPage)
	q := url.Values{}
	q.Set("name", name)
	q.Set("target", target)
	if tabId >= 0 {
		q.Set("tabId", strconv.FormatInt(tabId, 10))
	}
	if from != "" {
		q.Set("from", from)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// parseTabId accepts digits only; anything else means no tab.
func parseTabId(raw string) int64 {
	if raw == "" || strings.TrimLeft(raw, "0123456789") != "" {
		return schema.TabIdNone
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return schema.TabIdNone
	}
	return id
}

func nowISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
