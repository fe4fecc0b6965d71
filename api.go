package inresolver

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iotanames/inresolver/common"
	"github.com/iotanames/inresolver/schema"
)

const tabIdHeader = "X-Inr-Tab-Id"

func (s *Inr) initAPI() {
	r := s.engine
	r.SetHTMLTemplate(newPagesTemplate())
	r.Use(common.CORSMiddleware())
	r.Use(s.InterceptMiddleware())

	// extension pages
	r.GET(detailsPage, s.detailsPage)
	r.GET(previewPage, s.previewPage)
	r.GET("/preview/:id", s.getPreview)
	r.POST("/preview/:id/toggle", s.togglePreview)
	r.POST("/preview/:id/cancel", s.cancelPreview)

	v1 := r.Group("/")
	if s.cfg.RateLimit > 0 {
		v1.Use(common.LimiterMiddleware(s.cfg.RateLimit, "M", nil))
	}
	{
		v1.POST("/navigation", s.postNavigation)
		v1.POST("/tabs/:tabId/close", s.closeTab)
		v1.POST("/message", s.postMessage)

		v1.GET("/settings", s.getSettings)
		v1.PUT("/settings", s.putSettings)

		v1.GET("/selection", s.getSelection)
		v1.GET("/omnibox", s.getOmnibox)
		v1.GET("/go", s.getGo)
	}

	r.NoRoute(func(c *gin.Context) {
		notFoundResponse(c, schema.ErrNotFound.Error())
	})
}

func (s *Inr) runAPI(port string) {
	if err := s.engine.Run(port); err != nil {
		panic(err)
	}
}

func (s *Inr) postNavigation(c *gin.Context) {
	req := schema.NavigationReq{NavigationEvent: schema.NavigationEvent{TabId: schema.TabIdNone}}
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, err.Error())
		return
	}
	previewAvailable := req.Preview == nil || *req.Preview
	c.JSON(http.StatusOK, s.HandleNavigation(c.Request.Context(), req.NavigationEvent, previewAvailable))
}

func (s *Inr) closeTab(c *gin.Context) {
	tabId := parseTabId(c.Param("tabId"))
	if tabId < 0 {
		errorResponse(c, schema.ErrNoTabId.Error())
		return
	}
	s.tabs.OnTabRemoved(tabId)
	c.JSON(http.StatusOK, "ok")
}

// postMessage speaks the envelope protocol. The sender tab comes from the
// header, the way a browser attaches it to runtime messages.
func (s *Inr) postMessage(c *gin.Context) {
	msg := schema.Message{}
	if err := c.ShouldBindJSON(&msg); err != nil {
		errorResponse(c, err.Error())
		return
	}
	if sender := parseTabId(c.GetHeader(tabIdHeader)); sender >= 0 {
		msg.SenderTabId = &sender
	}
	c.JSON(http.StatusOK, s.router.Request(c.Request.Context(), msg))
}

func (s *Inr) getSettings(c *gin.Context) {
	settings, err := s.config.Get()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Inr) putSettings(c *gin.Context) {
	patch := schema.SettingsPatch{}
	if err := c.ShouldBindJSON(&patch); err != nil {
		errorResponse(c, err.Error())
		return
	}
	settings, err := s.config.Update(patch)
	if errors.Is(err, schema.ErrInvalidSettings) {
		errorResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (s *Inr) getSelection(c *gin.Context) {
	settings, err := s.config.Get()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	if !settings.ContextMenusEnabled {
		c.JSON(http.StatusForbidden, schema.RespErr{Err: schema.ErrContextMenuOff.Error()})
		return
	}
	name, err := ParseSelection(c.Query("text"))
	if err != nil {
		errorResponse(c, err.Error())
		return
	}
	details := isTruthy(strings.TrimSpace(c.Query("details")))
	c.JSON(http.StatusOK, schema.SelectionResp{Name: name, Url: SelectionTarget(name, details)})
}

func (s *Inr) getOmnibox(c *gin.Context) {
	target := OmniboxTarget(c.Query("text"))
	if target == "" {
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusFound, target)
}

// getGo is the popup quick-open: the website when auto-redirect is on and
// one exists, otherwise the details page.
func (s *Inr) getGo(c *gin.Context) {
	name := NormalizeTypedName(c.Query("name"))
	if name == "" {
		errorResponse(c, schema.ErrNoName.Error())
		return
	}
	env := s.router.Request(c.Request.Context(), schema.Message{Type: schema.MsgResolveNow, Name: name})
	if !env.Ok {
		errorResponse(c, env.Error)
		return
	}
	settings, err := s.config.Get()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	payload, _ := env.Payload.(*schema.ResolutionPayload)
	if settings.AutoRedirect && payload != nil && payload.WebsiteUrl != "" {
		c.Redirect(http.StatusFound, payload.WebsiteUrl)
		return
	}
	c.Redirect(http.StatusFound, s.DetailsUrl(name, schema.TabIdNone))
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func notFoundResponse(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
