package inresolver

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iotanames/inresolver/preview"
	"github.com/iotanames/inresolver/schema"
)

const pagesTemplate = `
{{define "resolve.html"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body>
<h1 id="title">{{.Name}}</h1>
<p id="sub">Resolved via IOTA Names</p>
{{if .Error}}<div id="errorCard"><p id="errorText">{{.Error}}</p></div>{{end}}
<dl>
<dt>Name</dt><dd id="nameVal">{{.Name}}</dd>
<dt>Target address</dt><dd id="targetVal">{{.TargetAddress}}</dd>
<dt>Expiration</dt><dd id="expVal">{{.Expiration}}</dd>
<dt>NFT id</dt><dd id="nftVal">{{.NftId}}</dd>
<dt>Website</dt><dd id="webVal">{{.WebsiteUrl}}</dd>
</dl>
{{if .OpenWebsite}}<a id="openWebsiteBtn" href="{{.OpenWebsite}}">Open website</a>{{end}}
{{if .Groups}}<details id="recordsDetails"><summary>Records</summary>
{{range .Groups}}<section class="meta-section"><div class="meta-title">{{.Title}}</div>{{if .Subtitle}}<div class="meta-sub">{{.Subtitle}}</div>{{end}}
{{range .Items}}<div class="meta-item"><div class="meta-key">{{.Label}}</div><div class="meta-val">{{if eq .Kind "avatar"}}{{if .Href}}<img class="avatar" alt="avatar" src="{{.Href}}">{{end}}{{.Value}}{{else if .Href}}<a href="{{.Href}}" target="_blank" rel="noreferrer">{{.Value}}</a>{{else}}{{.Value}}{{end}}</div></div>
{{end}}</section>
{{end}}</details>{{end}}
<details id="rawDetails"><summary>Raw</summary><pre id="raw">{{.Raw}}</pre></details>
</body></html>
{{end}}

{{define "redirect.html"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Name}}</title>
{{if .Refresh}}<meta http-equiv="refresh" content="1">{{end}}
</head>
<body>
<div id="badge">{{.Name}}</div>
{{if .Invalid}}<div id="host">Invalid target URL</div>
<div id="full">{{if .Target}}{{.Target}}{{else}}(missing){{end}}</div>
<a id="cancel" href="{{.DetailsUrl}}">Cancel</a>
{{else}}<div id="host">{{.Host}}</div>
<div id="full">{{.Target}}</div>
<p id="countdownText">{{if .Paused}}Redirect paused{{else}}Redirecting in {{.Remaining}} s{{end}}</p>
<form method="post" action="{{.ToggleUrl}}"><button id="proceed">{{if .Paused}}Continue redirect{{else}}Pause redirect{{end}}</button></form>
<form method="post" action="{{.CancelUrl}}"><button id="cancel">Cancel</button></form>
{{end}}
</body></html>
{{end}}
`

type detailsPageView struct {
	DetailsView
	OpenWebsite string
}

type previewPageView struct {
	Name       string
	Target     string
	Host       string
	Invalid    bool
	Paused     bool
	Refresh    bool
	Remaining  int
	DetailsUrl string
	ToggleUrl  string
	CancelUrl  string
}

func newPagesTemplate() *template.Template {
	return template.Must(template.New("pages").Parse(pagesTemplate))
}

// detailsPayload prefers the payload recorded for the tab and resolves afresh
// when it is missing or belongs to another name.
func (s *Inr) detailsPayload(c *gin.Context, name string, tabId int64) *schema.ResolutionPayload {
	var payload *schema.ResolutionPayload
	if tabId >= 0 {
		env := s.router.Dispatch(c.Request.Context(), schema.Message{Type: schema.MsgGetLastForTab, TabId: &tabId})
		if p, ok := env.Payload.(*schema.ResolutionPayload); env.Ok && ok {
			payload = p
		}
	}
	if payload != nil && payload.Name == name {
		return payload
	}
	env := s.router.Dispatch(c.Request.Context(), schema.Message{Type: schema.MsgResolveNow, Name: name})
	if p, ok := env.Payload.(*schema.ResolutionPayload); env.Ok && ok {
		return p
	}
	if payload == nil {
		payload = &schema.ResolutionPayload{Name: name, Error: env.Error}
	}
	return payload
}

func (s *Inr) detailsPage(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		name = "(" + schema.NamingSuffix + ")"
	}
	payload := s.detailsPayload(c, name, parseTabId(c.Query("tabId")))

	view := detailsPageView{DetailsView: BuildDetailsView(name, payload)}
	if payload != nil {
		view.OpenWebsite = payload.WebsiteUrl
	}
	c.HTML(http.StatusOK, "resolve.html", view)
}

// previewPage opens a countdown for the target and renders its first frame.
func (s *Inr) previewPage(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	target := strings.TrimSpace(c.Query("target"))
	detailsUrl := s.DetailsUrl(name, parseTabId(c.Query("tabId")))

	id, err := s.previews.Open(name, target, detailsUrl)
	if err != nil {
		c.HTML(http.StatusOK, "redirect.html", previewPageView{
			Name:       name,
			Target:     target,
			Invalid:    true,
			DetailsUrl: detailsUrl,
		})
		return
	}
	previewSessionsGauge.Set(float64(s.previews.Len()))
	c.Redirect(http.StatusSeeOther, "/preview/"+id)
}

func (s *Inr) getPreview(c *gin.Context) {
	id := c.Param("id")
	ctrl, err := s.previews.Get(id)
	if err != nil {
		notFoundResponse(c, err.Error())
		return
	}
	state := ctrl.State()
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, state)
		return
	}
	if state.Phase.Terminal() {
		s.previews.Close(id)
		c.Redirect(http.StatusFound, state.Destination)
		return
	}
	c.HTML(http.StatusOK, "redirect.html", previewPageView{
		Name:      state.Name,
		Target:    state.Target,
		Host:      hostOf(state.Target),
		Paused:    state.Phase == preview.Paused,
		Refresh:   state.Phase == preview.Counting,
		Remaining: state.Remaining,
		ToggleUrl: "/preview/" + id + "/toggle",
		CancelUrl: "/preview/" + id + "/cancel",
	})
}

func (s *Inr) togglePreview(c *gin.Context) {
	s.previewAction(c, (*preview.Controller).Toggle)
}

func (s *Inr) cancelPreview(c *gin.Context) {
	s.previewAction(c, (*preview.Controller).Cancel)
}

func (s *Inr) previewAction(c *gin.Context, action func(*preview.Controller)) {
	id := c.Param("id")
	ctrl, err := s.previews.Get(id)
	if err != nil {
		notFoundResponse(c, err.Error())
		return
	}
	action(ctrl)
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, ctrl.State())
		return
	}
	c.Redirect(http.StatusSeeOther, "/preview/"+id)
}
