package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type config struct {
	level int
	name  string
}

func withLevel(level int) Option[*config] {
	return New(func(c *config) error {
		if level < 0 {
			return errors.New("level cannot be negative")
		}
		c.level = level

		return nil
	})
}

func withName(name string) Option[*config] {
	return NoError(func(c *config) {
		c.name = name
	})
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		c := &config{}
		err := Apply(c, withLevel(3), withName("payload"))
		require.NoError(t, err)
		require.Equal(t, 3, c.level)
		require.Equal(t, "payload", c.name)
	})

	t.Run("stops at first error", func(t *testing.T) {
		c := &config{}
		err := Apply(c, withLevel(-1), withName("never"))
		require.Error(t, err)
		require.Empty(t, c.name)
	})

	t.Run("no options is a no-op", func(t *testing.T) {
		c := &config{level: 7}
		require.NoError(t, Apply(c))
		require.Equal(t, 7, c.level)
	})
}
