package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/debug"
	"github.com/signadot/classmod/modify"
	"github.com/signadot/classmod/plan"
	"github.com/signadot/classmod/system/patchd/api"
)

// handler dispatches one session's JSON-RPC requests. Domain failures
// travel inside result payloads as api.Error; JSON-RPC errors are
// reserved for malformed requests and unknown methods.
func (s *Server) handler(sessionID string) jsonrpc2.Handler {
	log := s.Spec.Log.With("session", sessionID)
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if debug.RPC() {
			debug.Logf("rpc: %s %s\n", sessionID, req.Method())
		}
		switch req.Method() {
		case api.MethodAuthorize:
			var params api.AuthorizeParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err))
			}
			return reply(ctx, s.authorize(ctx, log, &params), nil)
		case api.MethodPatch:
			var params api.PatchParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err))
			}
			return reply(ctx, s.patch(log, &params), nil)
		case api.MethodUnpatch:
			var params api.UnpatchParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err))
			}
			return reply(ctx, s.unpatch(log, &params), nil)
		case api.MethodCall:
			var params api.CallParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return reply(ctx, nil, fmt.Errorf("%w: %v", jsonrpc2.ErrInvalidParams, err))
			}
			return reply(ctx, s.call(ctx, &params), nil)
		case api.MethodState:
			return reply(ctx, s.state(), nil)
		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}
}

func (s *Server) authorize(ctx context.Context, log *slog.Logger, params *api.AuthorizeParams) *api.AuthorizeResult {
	if err := s.Spec.Patcher.Extend(ctx, params.Caller, params.Targets); err != nil {
		return &api.AuthorizeResult{Error: api.FromErr(err)}
	}
	log.Info("authorized", "caller", params.Caller, "targets", params.Targets)
	return &api.AuthorizeResult{Authorized: s.Spec.Patcher.Gate().Authorized()}
}

func (s *Server) patch(log *slog.Logger, params *api.PatchParams) *api.PatchResult {
	p := s.Spec.Patcher
	var err error
	switch params.Verb {
	case modify.VerbAround:
		var fn modify.AroundFn
		fn, err = plan.CompileAround(params.Body)
		if err == nil {
			err = p.Around(params.Method, fn, params.Class)
		}
	case modify.VerbMethod, modify.VerbOverride, modify.VerbBefore, modify.VerbAfter:
		var fn class.Fn
		fn, err = plan.CompileFn(params.Body)
		if err != nil {
			break
		}
		switch params.Verb {
		case modify.VerbMethod:
			err = p.Method(params.Method, fn, params.Class)
		case modify.VerbOverride:
			err = p.Override(params.Method, fn, params.Class)
		case modify.VerbBefore:
			names := params.Methods
			if len(names) == 0 {
				names = []string{params.Method}
			}
			err = p.BeforeAll(names, fn, params.Class)
		case modify.VerbAfter:
			err = p.After(params.Method, fn, params.Class)
		}
	default:
		err = fmt.Errorf("unknown verb %q", params.Verb)
	}
	if err != nil {
		return &api.PatchResult{Error: api.FromErr(err)}
	}
	log.Info("patched", "verb", params.Verb, "class", params.Class, "method", params.Method)
	return &api.PatchResult{Applied: true}
}

func (s *Server) unpatch(log *slog.Logger, params *api.UnpatchParams) *api.UnpatchResult {
	ok, err := s.Spec.Patcher.Unpatch(params.Method, params.Class)
	if ok {
		log.Info("unpatched", "class", params.Class, "method", params.Method)
		return &api.UnpatchResult{Restored: true}
	}
	if errors.Is(err, modify.ErrNoSuchPatch) {
		return &api.UnpatchResult{Warning: err.Error()}
	}
	return &api.UnpatchResult{Error: api.FromErr(err)}
}

func (s *Server) call(ctx context.Context, params *api.CallParams) *api.CallResult {
	c, err := s.Spec.Universe.Ensure(ctx, params.Class)
	if err != nil {
		return &api.CallResult{Error: api.FromErr(err)}
	}
	value, err := c.NewObject().Call(params.Method, params.Args...)
	if err != nil {
		return &api.CallResult{Error: api.FromErr(err)}
	}
	return &api.CallResult{Value: value}
}

func (s *Server) state() *api.StateResult {
	res := &api.StateResult{
		Authorized: s.Spec.Patcher.Gate().Authorized(),
		Patched:    []string{},
		Journal:    []api.JournalEntry{},
		Classes:    []api.ClassState{},
	}
	for _, id := range s.Spec.Patcher.Registry().Keys() {
		res.Patched = append(res.Patched, id.String())
	}
	for _, rec := range s.Spec.Patcher.Journal().Records() {
		res.Journal = append(res.Journal, api.JournalEntry{
			Verb:   rec.Verb,
			Method: rec.Method.String(),
			At:     rec.At,
		})
	}
	for _, name := range s.Spec.Universe.Names() {
		c, ok := s.Spec.Universe.Get(name)
		if !ok {
			continue
		}
		cs := api.ClassState{Name: name, Methods: c.Methods()}
		for _, b := range c.Bases() {
			cs.Bases = append(cs.Bases, b.Name())
		}
		res.Classes = append(res.Classes, cs)
	}
	return res
}
