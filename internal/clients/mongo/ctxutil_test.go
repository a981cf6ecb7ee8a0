package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"natours/internal/services/tours"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	driver "go.mongodb.org/mongo-driver/v2/mongo"
)

func TestWithRepoTimeout(t *testing.T) {
	t.Run("adds a deadline to an unbounded context", func(t *testing.T) {
		ctx, cancel := WithRepoTimeout(context.Background(), time.Minute)
		defer cancel()

		dl, ok := ctx.Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(time.Minute), dl, time.Second)
	})

	t.Run("keeps a stricter existing deadline", func(t *testing.T) {
		parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
		defer parentCancel()

		ctx, cancel := WithRepoTimeout(parent, time.Minute)
		defer cancel()

		assert.Equal(t, parent, ctx)
	})

	t.Run("passes through a canceled context", func(t *testing.T) {
		parent, parentCancel := context.WithCancel(context.Background())
		parentCancel()

		ctx, cancel := WithRepoTimeout(parent, time.Minute)
		defer cancel()

		assert.Equal(t, parent, ctx)
		assert.Error(t, ctx.Err())
	})
}

func TestTranslateTourNotFound(t *testing.T) {
	assert.ErrorIs(t, translateTourNotFound(driver.ErrNoDocuments), tours.ErrTourNotFound)

	other := errors.New("network down")
	assert.Equal(t, other, translateTourNotFound(other))
}
