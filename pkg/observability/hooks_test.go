package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnTokenizeStart(ctx, 4)
	p.OnTokenizeComplete(ctx, 120, time.Second, nil)
	p.OnLayoutStart(ctx, 120)
	p.OnLayoutComplete(ctx, 110, 10, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	pl := NoopPlacementHooks{}
	pl.OnWordPlaced(ctx, "gopher", 12, 40)
	pl.OnWordUnplaced(ctx, "gopher", 5000)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "table")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	a := NoopAPIHooks{}
	a.OnRequest(ctx, "POST", "/v1/render")
	a.OnResponse(ctx, "POST", "/v1/render", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Placement().(NoopPlacementHooks); !ok {
		t.Error("Placement() should return NoopPlacementHooks by default")
	}

	placement := &countingPlacement{}
	SetPlacementHooks(placement)
	Placement().OnWordPlaced(context.Background(), "go", 1, 0)
	Placement().OnWordUnplaced(context.Background(), "rust", 9)
	if placement.placed != 1 || placement.unplaced != 1 {
		t.Errorf("counts = %d/%d", placement.placed, placement.unplaced)
	}

	cache := &testCacheHooks{}
	SetCacheHooks(cache)
	if Cache() != cache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	api := &testAPIHooks{}
	SetAPIHooks(api)
	if API() != api {
		t.Error("SetAPIHooks should set custom hooks")
	}

	Reset()
	if _, ok := Placement().(NoopPlacementHooks); !ok {
		t.Error("Reset() should restore NoopPlacementHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testAPIHooks struct{ NoopAPIHooks }

type countingPlacement struct{ placed, unplaced int }

func (c *countingPlacement) OnWordPlaced(context.Context, string, int, float64) { c.placed++ }
func (c *countingPlacement) OnWordUnplaced(context.Context, string, int)        { c.unplaced++ }
