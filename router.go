package inresolver

import (
	"context"
	"strings"

	"github.com/iotanames/inresolver/schema"
	"github.com/panjf2000/ants/v2"
)

type Handler func(ctx context.Context, msg schema.Message) (interface{}, error)

// Router dispatches cross-context messages by kind. Unknown kinds get the
// fixed "Unknown message type" envelope.
type Router struct {
	handlers map[string]Handler
	pool     *ants.Pool
}

func NewRouter(poolSize int) (*Router, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}
	return &Router{
		handlers: make(map[string]Handler),
		pool:     pool,
	}, nil
}

func (r *Router) Register(kind string, h Handler) {
	r.handlers[kind] = h
}

func (r *Router) Dispatch(ctx context.Context, msg schema.Message) schema.Envelope {
	h, ok := r.handlers[msg.Type]
	if !ok {
		return schema.Envelope{Ok: false, Error: schema.ErrUnknownMessage.Error()}
	}
	payload, err := h(ctx, msg)
	if err != nil {
		return schema.Envelope{Ok: false, Error: err.Error()}
	}
	return schema.Envelope{Ok: true, Payload: payload}
}

// Send runs the dispatch on the pool and hands the envelope to reply.
func (r *Router) Send(ctx context.Context, msg schema.Message, reply func(schema.Envelope)) error {
	return r.pool.Submit(func() {
		reply(r.Dispatch(ctx, msg))
	})
}

// Request is Send for callers that want to wait on the answer.
func (r *Router) Request(ctx context.Context, msg schema.Message) schema.Envelope {
	ch := make(chan schema.Envelope, 1)
	if err := r.Send(ctx, msg, func(env schema.Envelope) { ch <- env }); err != nil {
		return schema.Envelope{Ok: false, Error: err.Error()}
	}
	select {
	case env := <-ch:
		return env
	case <-ctx.Done():
		return schema.Envelope{Ok: false, Error: ctx.Err().Error()}
	}
}

func (r *Router) Release() {
	r.pool.Release()
}

// registerHandlers wires the two message kinds the core answers.
func (s *Inr) registerHandlers(r *Router) {
	r.Register(schema.MsgGetLastForTab, func(ctx context.Context, msg schema.Message) (interface{}, error) {
		tabId := msg.TabId
		if tabId == nil {
			tabId = msg.SenderTabId
		}
		if tabId == nil {
			return nil, schema.ErrNoTabId
		}
		return s.tabs.GetLast(*tabId)
	})

	r.Register(schema.MsgResolveNow, func(ctx context.Context, msg schema.Message) (interface{}, error) {
		name := strings.ToLower(strings.TrimSpace(msg.Name))
		if name == "" {
			return nil, schema.ErrNoName
		}
		record, err := s.resolver.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		settings, err := s.config.Get()
		if err != nil {
			return nil, err
		}
		payload := &schema.ResolutionPayload{
			Name:       name,
			Record:     record,
			ResolvedAt: nowISO(s.now()),
		}
		if record != nil {
			payload.WebsiteUrl = PickWebsiteUrl(record.Data, settings.WebsiteKeys)
		}
		return payload, nil
	})
}
