package compliance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryAssignsIDsInOrder(t *testing.T) {
	reg := NewRegistry("v0.5")
	noop := func(context.Context, *Runner) {}
	c0 := reg.Register("First", "first test", "http://doc/1", noop)
	c1 := reg.Register("Second", "", "", noop)
	c2 := reg.Register("First", "same title", "", noop)

	assert.Equal(t, "test0", c0.ID)
	assert.Equal(t, "test1", c1.ID)
	assert.Equal(t, "test2", c2.ID)
	assert.Equal(t, TestID{"v0.5", "Second"}, c1.Name())
	assert.Equal(t, "first test", c0.Description)
	assert.Equal(t, "http://doc/1", c0.DocLink)
	assert.Equal(t, []*TestCase{c0, c1, c2}, reg.Cases())
	assert.Equal(t, 3, reg.Len())
	assert.Equal(t, "v0.5", reg.Suite())
}
