package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestValueStore(t *testing.T) {
	t.Run("set records the value and marks it changed", func(t *testing.T) {
		s := newValueStore()

		s.set("x", num(1))

		v, ok := s.value("x")
		require.True(t, ok)
		assert.Equal(t, num(1), v)
		assert.True(t, s.isChanged("x"))
	})

	t.Run("markUnchanged keeps the cached value intact", func(t *testing.T) {
		s := newValueStore()
		s.set("x", num(1))

		s.markUnchanged("x")

		v, ok := s.value("x")
		require.True(t, ok)
		assert.Equal(t, num(1), v)
		assert.False(t, s.isChanged("x"))
	})

	t.Run("markUnchanged on an unset name leaves it unset", func(t *testing.T) {
		s := newValueStore()

		s.markUnchanged("ghost")

		_, ok := s.value("ghost")
		assert.False(t, ok)
		assert.False(t, s.isChanged("ghost"))
	})

	t.Run("resetChanged clears flags but not values", func(t *testing.T) {
		s := newValueStore()
		s.set("x", num(1))
		s.set("y", cty.StringVal("hi"))

		s.resetChanged()

		assert.False(t, s.isChanged("x"))
		assert.False(t, s.isChanged("y"))
		v, ok := s.value("x")
		require.True(t, ok)
		assert.Equal(t, num(1), v)
	})

	t.Run("names that never settled report unchanged", func(t *testing.T) {
		s := newValueStore()
		assert.False(t, s.isChanged("nope"))
	})

	t.Run("snapshot returns a detached copy", func(t *testing.T) {
		s := newValueStore()
		s.set("x", num(1))

		snap := s.snapshot()
		snap["x"] = num(99)

		v, _ := s.value("x")
		assert.Equal(t, num(1), v)
	})
}
