package server

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"go.lsp.dev/jsonrpc2"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/system/patchd/api"
)

func startTestServer(t *testing.T) (*Server, jsonrpc2.Conn) {
	t.Helper()

	u := class.NewUniverse(nil)
	sample := class.New("sample")
	sample.Define("greet", func(self *class.Object, args ...any) (any, error) {
		return "Hello, " + args[0].(string), nil
	})
	if err := u.Register(sample); err != nil {
		t.Fatal(err)
	}

	srv := New(&Spec{
		Universe: u,
		Log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err := srv.StartTCP("127.0.0.1:0"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.StopTCP() })

	netConn, err := net.DialTimeout("tcp", srv.TCPAddr(), 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))
	conn.Go(context.Background(), jsonrpc2.MethodNotFoundHandler)
	t.Cleanup(func() { conn.Close() })
	return srv, conn
}

func TestServerRoundTrip(t *testing.T) {
	_, conn := startTestServer(t)
	ctx := context.Background()

	// Patching before authorization is denied.
	var denied api.PatchResult
	if _, err := conn.Call(ctx, api.MethodPatch, &api.PatchParams{
		Verb: "override", Class: "sample", Method: "greet", Body: `"patched"`,
	}, &denied); err != nil {
		t.Fatal(err)
	}
	if denied.Applied || denied.Error == nil || denied.Error.Code != api.ErrCodePermissionDenied {
		t.Fatalf("patch before authorize = %+v, want permission_denied", denied)
	}

	var auth api.AuthorizeResult
	if _, err := conn.Call(ctx, api.MethodAuthorize, &api.AuthorizeParams{
		Targets: []string{"sample"},
	}, &auth); err != nil {
		t.Fatal(err)
	}
	if auth.Error != nil || len(auth.Authorized) != 1 || auth.Authorized[0] != "sample" {
		t.Fatalf("authorize = %+v, want [sample]", auth)
	}

	var patched api.PatchResult
	if _, err := conn.Call(ctx, api.MethodPatch, &api.PatchParams{
		Verb: "around", Class: "sample", Method: "greet", Body: `upper(string(original()))`,
	}, &patched); err != nil {
		t.Fatal(err)
	}
	if !patched.Applied || patched.Error != nil {
		t.Fatalf("patch = %+v, want applied", patched)
	}

	var called api.CallResult
	if _, err := conn.Call(ctx, api.MethodCall, &api.CallParams{
		Class: "sample", Method: "greet", Args: []any{"World"},
	}, &called); err != nil {
		t.Fatal(err)
	}
	if called.Error != nil || called.Value != "HELLO, WORLD" {
		t.Fatalf("call = %+v, want HELLO, WORLD", called)
	}

	var state api.StateResult
	if _, err := conn.Call(ctx, api.MethodState, nil, &state); err != nil {
		t.Fatal(err)
	}
	if len(state.Patched) != 1 || state.Patched[0] != "sample.greet" {
		t.Errorf("state.Patched = %v, want [sample.greet]", state.Patched)
	}
	if len(state.Journal) != 1 || state.Journal[0].Verb != "around" {
		t.Errorf("state.Journal = %v, want one around record", state.Journal)
	}

	var restored api.UnpatchResult
	if _, err := conn.Call(ctx, api.MethodUnpatch, &api.UnpatchParams{
		Class: "sample", Method: "greet",
	}, &restored); err != nil {
		t.Fatal(err)
	}
	if !restored.Restored || restored.Error != nil {
		t.Fatalf("unpatch = %+v, want restored", restored)
	}

	if _, err := conn.Call(ctx, api.MethodCall, &api.CallParams{
		Class: "sample", Method: "greet", Args: []any{"World"},
	}, &called); err != nil {
		t.Fatal(err)
	}
	if called.Value != "Hello, World" {
		t.Errorf("call after unpatch = %v, want pristine Hello, World", called.Value)
	}
}

func TestServerUnpatchMissingWarns(t *testing.T) {
	_, conn := startTestServer(t)
	ctx := context.Background()

	var auth api.AuthorizeResult
	if _, err := conn.Call(ctx, api.MethodAuthorize, &api.AuthorizeParams{
		Targets: []string{"sample"},
	}, &auth); err != nil {
		t.Fatal(err)
	}

	var res api.UnpatchResult
	if _, err := conn.Call(ctx, api.MethodUnpatch, &api.UnpatchParams{
		Class: "sample", Method: "greet",
	}, &res); err != nil {
		t.Fatal(err)
	}
	if res.Restored || res.Error != nil || res.Warning == "" {
		t.Errorf("unpatch missing = %+v, want warning only", res)
	}
}

func TestServerUnknownClass(t *testing.T) {
	_, conn := startTestServer(t)
	ctx := context.Background()

	var called api.CallResult
	if _, err := conn.Call(ctx, api.MethodCall, &api.CallParams{
		Class: "ghost", Method: "m",
	}, &called); err != nil {
		t.Fatal(err)
	}
	if called.Error == nil || called.Error.Code != api.ErrCodeNoSuchClass {
		t.Errorf("call on unknown class = %+v, want no_such_class", called)
	}
}
