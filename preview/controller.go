// Package preview implements the countdown that guards an automatic redirect.
//
// A preview starts Counting with five seconds left and ticks once per second.
// Reaching zero proceeds to the target. The pause button stops the clock; the
// same button then proceeds at once, the countdown never restarts. Cancel,
// from Counting or Paused, goes to the details page. Proceeded and Cancelled
// are terminal.
package preview

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/iotanames/inresolver/schema"
)

type Phase int

const (
	Counting Phase = iota
	Paused
	Proceeded
	Cancelled
)

func (p Phase) String() string {
	switch p {
	case Counting:
		return "counting"
	case Paused:
		return "paused"
	case Proceeded:
		return "proceeded"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

func (p Phase) Terminal() bool {
	return p == Proceeded || p == Cancelled
}

const StartSeconds = 5

type State struct {
	Name        string `json:"name"`
	Target      string `json:"target"`
	Remaining   int    `json:"remaining"`
	Phase       Phase  `json:"-"`
	PhaseName   string `json:"phase"`
	Destination string `json:"destination,omitempty"`
}

type Controller struct {
	lock        sync.Mutex
	name        string
	target      string
	detailsUrl  string
	remaining   int
	phase       Phase
	destination string
	done        chan struct{}
	onNavigate  func(string)
}

// NewController validates target; only absolute http(s) URLs can be previewed.
// onNavigate, if set, is called once with the final destination.
func NewController(name, target, detailsUrl string, onNavigate func(string)) (*Controller, error) {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, schema.ErrInvalidTarget
	}
	return &Controller{
		name:       name,
		target:     u.String(),
		detailsUrl: detailsUrl,
		remaining:  StartSeconds,
		phase:      Counting,
		done:       make(chan struct{}),
		onNavigate: onNavigate,
	}, nil
}

// Tick advances the clock by one second. Ignored unless Counting.
func (c *Controller) Tick() {
	c.lock.Lock()
	if c.phase != Counting {
		c.lock.Unlock()
		return
	}
	c.remaining--
	if c.remaining > 0 {
		c.lock.Unlock()
		return
	}
	c.remaining = 0
	dest := c.finishLocked(Proceeded, NoRedirectLoop(c.target))
	c.lock.Unlock()
	c.navigate(dest)
}

// Toggle is the pause/continue button.
func (c *Controller) Toggle() {
	c.lock.Lock()
	switch c.phase {
	case Counting:
		c.phase = Paused
		c.lock.Unlock()
	case Paused:
		dest := c.finishLocked(Proceeded, NoRedirectLoop(c.target))
		c.lock.Unlock()
		c.navigate(dest)
	default:
		c.lock.Unlock()
	}
}

func (c *Controller) Cancel() {
	c.lock.Lock()
	if c.phase.Terminal() {
		c.lock.Unlock()
		return
	}
	dest := c.finishLocked(Cancelled, c.detailsUrl)
	c.lock.Unlock()
	c.navigate(dest)
}

func (c *Controller) finishLocked(phase Phase, dest string) string {
	c.phase = phase
	c.destination = dest
	close(c.done)
	return dest
}

func (c *Controller) navigate(dest string) {
	if c.onNavigate != nil {
		c.onNavigate(dest)
	}
}

func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return State{
		Name:        c.name,
		Target:      c.target,
		Remaining:   c.remaining,
		Phase:       c.phase,
		PhaseName:   c.phase.String(),
		Destination: c.destination,
	}
}

func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Run drives Tick from a wall clock until the preview ends or ctx is done.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// NoRedirectLoop marks targets that are themselves names so that landing on
// them shows details instead of redirecting again.
func NoRedirectLoop(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	if !strings.HasSuffix(strings.ToLower(u.Hostname()), schema.NamingSuffix) {
		return target
	}
	u.RawQuery = withOptOut(u.RawQuery)
	return u.String()
}

// withOptOut sets the opt-out marker on a raw query without re-encoding or
// reordering the pairs already there.
func withOptOut(rawQuery string) string {
	marker := schema.OptOutParam + "=1"
	if rawQuery == "" {
		return marker
	}
	pairs := strings.Split(rawQuery, "&")
	found := false
	for i, pair := range pairs {
		if pair == schema.OptOutParam || strings.HasPrefix(pair, schema.OptOutParam+"=") {
			pairs[i] = marker
			found = true
		}
	}
	if !found {
		pairs = append(pairs, marker)
	}
	return strings.Join(pairs, "&")
}
