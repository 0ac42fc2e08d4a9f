package mystore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

type outboxEntry struct {
	UID       string
	CreatedAt time.Time
	Published bool
}

func TestInMemoryStore(t *testing.T) {
	c := context.TODO()
	store, cleanup, err := NewInMemoryStore[outboxEntry](c)
	assert.NoError(t, err)
	defer cleanup()

	first := outboxEntry{UID: "b", CreatedAt: mytime.ExampleTime, Published: false}
	second := outboxEntry{UID: "a", CreatedAt: mytime.ExampleTime.Add(time.Minute), Published: false}
	done := outboxEntry{UID: "c", CreatedAt: mytime.ExampleTime.Add(-time.Minute), Published: true}

	t.Run("Get not found", func(t *testing.T) {
		_, found, err := store.Get(c, first.UID)
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put and get", func(t *testing.T) {
		for _, e := range []outboxEntry{first, second, done} {
			err = store.Put(c, e.UID, e)
			assert.NoError(t, err)
		}

		got, found, err := store.Get(c, first.UID)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, first, got)
	})

	t.Run("List ordered by uid", func(t *testing.T) {
		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Equal(t, []outboxEntry{second, first, done}, all)
	})

	t.Run("Query filters and orders", func(t *testing.T) {
		unpublished, err := store.Query(c, []Filter{{Field: "Published", Compare: "=", Value: false}}, "CreatedAt")
		assert.NoError(t, err)
		assert.Equal(t, []outboxEntry{first, second}, unpublished)
	})

	t.Run("Transaction rollback returns error", func(t *testing.T) {
		err := store.RunInTransaction(c, func(c context.Context) error {
			_, _, err := store.Get(c, first.UID)
			assert.NoError(t, err)
			return fmt.Errorf("abort")
		})
		assert.EqualError(t, err, "abort")
	})

	t.Run("Transaction with nested calls", func(t *testing.T) {
		err := store.RunInTransaction(c, func(c context.Context) error {
			e, _, err := store.Get(c, first.UID)
			if err != nil {
				return err
			}
			e.Published = true
			return store.Put(c, e.UID, e)
		})
		assert.NoError(t, err)

		got, _, _ := store.Get(c, first.UID)
		assert.True(t, got.Published)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(c, done.UID)
		assert.NoError(t, err)

		_, found, err := store.Get(c, done.UID)
		assert.NoError(t, err)
		assert.False(t, found)

		all, err := store.List(c)
		assert.NoError(t, err)
		assert.Len(t, all, 2)
	})
}
