package stack

import (
	"testing"

	"github.com/deepnoodle-ai/actrec/frame"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	NoOpObserver
	pushes  []PushEvent
	pops    []PopEvent
	unwinds []UnwindEvent
}

func (o *recordingObserver) OnPush(e PushEvent)     { o.pushes = append(o.pushes, e) }
func (o *recordingObserver) OnPop(e PopEvent)       { o.pops = append(o.pops, e) }
func (o *recordingObserver) OnUnwind(e UnwindEvent) { o.unwinds = append(o.unwinds, e) }

func TestUnwindReleasesLocalsOnce(t *testing.T) {
	fx := newFixture()
	released := map[string]int{}
	releaser := ReleaserFunc(func(f *frame.Frame) {
		released[f.Func().Name()]++
	})
	obs := &recordingObserver{}
	c := fx.context(t, WithReleaser(releaser), WithObserver(obs))
	push(t, c, fx.main, 0)
	helper := push(t, c, fx.helper, 0)
	incr := push(t, c, fx.method, 0)

	// The helper released its locals before the exception reached it.
	require.True(t, c.ReleaseLocals(helper))
	require.False(t, c.ReleaseLocals(helper))
	require.True(t, helper.LocalsDecRefd())

	incr.SetLocalsDecRefd()
	require.Equal(t, 2, c.UnwindTo(1))
	require.Equal(t, 1, c.Depth())
	require.Equal(t, map[string]int{"helper": 1}, released)

	require.Equal(t, 1, c.Unwind())
	require.Equal(t, 0, c.Depth())
	require.Equal(t, map[string]int{"helper": 1, "main": 1}, released)

	require.Len(t, obs.pushes, 3)
	require.Empty(t, obs.pops)
	require.Equal(t, []UnwindEvent{
		{Context: c.ID(), FunctionName: "incr", Depth: 2, Released: false},
		{Context: c.ID(), FunctionName: "helper", Depth: 1, Released: false},
		{Context: c.ID(), FunctionName: "main", Depth: 0, Released: true},
	}, obs.unwinds)
}

func TestUnwindToNegativeDepth(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	push(t, c, fx.main, 0)
	require.Equal(t, 1, c.UnwindTo(-3))
	require.Equal(t, 0, c.Unwind())
}

func TestObserverPushPop(t *testing.T) {
	fx := newFixture()
	obs := &recordingObserver{}
	c := fx.context(t, WithObserver(obs))
	push(t, c, fx.main, 0)
	push(t, c, fx.helper, 4)
	require.Nil(t, c.Pop())

	require.Equal(t, PushEvent{Context: c.ID(), FunctionName: "helper", NumArgs: 4, Depth: 2}, obs.pushes[1])
	require.Equal(t, []PopEvent{{Context: c.ID(), FunctionName: "helper", Depth: 1}}, obs.pops)
}
