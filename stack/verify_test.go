package stack

import (
	"testing"

	"github.com/deepnoodle-ai/actrec/internal/assert"
	"github.com/deepnoodle-ai/actrec/object"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"
)

func TestVerifyReportsEveryViolation(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	push(t, c, fx.main, 0)
	helper := push(t, c, fx.helper, 0)
	incr := push(t, c, fx.method, 0)

	helper.SetCallerLink(0xdead0)
	helper.SetThisOrClassAllowNull(fx.receiver.Addr())
	incr.SetCallerLink(c.Bounds().Base)

	err := c.Verify()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 3)
	require.Contains(t, err.Error(), "frame 1: caller link 0xdead0")
	require.Contains(t, err.Error(), "frame 1: helper is not a method but has a instance call context")
	require.Contains(t, err.Error(), "frame 2: caller link")
}

func TestVerifyReportsTrashedSlots(t *testing.T) {
	if !assert.Enabled {
		t.Skip("trash poisoning is compiled out")
	}
	fx := newFixture()
	c := fx.context(t)
	f := push(t, c, fx.method, 0)
	f.Teardown()

	err := c.Verify()
	require.Error(t, err)
	require.Contains(t, err.Error(), "trashed call context")
	require.Contains(t, err.Error(), "trashed dynamic scope")
}

func TestVerifyFirstFrameInsideRegion(t *testing.T) {
	fx := newFixture()
	c := fx.context(t)
	f := push(t, c, fx.main, 0)
	f.SetCallerLink(c.Bounds().Base + object.Addr(3*40))
	err := c.Verify()
	require.Error(t, err)
	require.Contains(t, err.Error(), "first frame links inside its own region")
}
