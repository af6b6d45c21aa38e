package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	u := NoopUpdateHooks{}
	u.OnUpdateStart(ctx, "chart-1", 10)
	u.OnUpdateComplete(ctx, "chart-1", UpdateStats{Entering: 2}, time.Millisecond, nil)

	tr := NoopTransitionHooks{}
	tr.OnTransitionStart("line/y", "update", 300*time.Millisecond)
	tr.OnTransitionCancel("line/y", "update")
	tr.OnTransitionComplete("line/y", "update")

	r := NoopRenderHooks{}
	r.OnRenderStart(ctx, []string{"svg"})
	r.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "artifact")
	c.OnCacheMiss(ctx, "artifact")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/render")
	h.OnResponse(ctx, "POST", "/render", 200, time.Second)
	h.OnError(ctx, "POST", "/render", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Update().(NoopUpdateHooks); !ok {
		t.Error("Update() should return NoopUpdateHooks by default")
	}
	if _, ok := Transition().(NoopTransitionHooks); !ok {
		t.Error("Transition() should return NoopTransitionHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customUpdate := &testUpdateHooks{}
	SetUpdateHooks(customUpdate)
	if Update() != customUpdate {
		t.Error("SetUpdateHooks should set custom hooks")
	}

	customTransition := &testTransitionHooks{}
	SetTransitionHooks(customTransition)
	if Transition() != customTransition {
		t.Error("SetTransitionHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Update().(NoopUpdateHooks); !ok {
		t.Error("Reset() should restore NoopUpdateHooks")
	}
	if _, ok := Transition().(NoopTransitionHooks); !ok {
		t.Error("Reset() should restore NoopTransitionHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testUpdateHooks{}
	SetUpdateHooks(custom)
	SetUpdateHooks(nil)

	if Update() != custom {
		t.Error("SetUpdateHooks(nil) should be ignored")
	}

	Reset()
}

type testUpdateHooks struct{ NoopUpdateHooks }
type testTransitionHooks struct{ NoopTransitionHooks }
type testRenderHooks struct{ NoopRenderHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
