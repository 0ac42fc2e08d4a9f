package mykv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MarcGrol/workersdeploy/lib/mytime"
)

func TestInMemoryStore(t *testing.T) {
	c := context.TODO()

	t.Run("Get not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := NewInMemoryStore(mytime.NewMockNower(ctrl))

		_, found, err := store.Get(c, "auth:123")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put then get before expiry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		store := NewInMemoryStore(nower)

		gomock.InOrder(
			nower.EXPECT().Now().Return(mytime.ExampleTime),
			nower.EXPECT().Now().Return(mytime.ExampleTime.Add(59*time.Minute)),
		)

		err := store.Put(c, "auth:123", []byte("cipher"), time.Hour)
		assert.NoError(t, err)

		value, found, err := store.Get(c, "auth:123")
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("cipher"), value)
	})

	t.Run("Expired entry is gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		store := NewInMemoryStore(nower)

		gomock.InOrder(
			nower.EXPECT().Now().Return(mytime.ExampleTime),
			nower.EXPECT().Now().Return(mytime.ExampleTime.Add(time.Hour)),
		)

		err := store.Put(c, "keys:123", []byte("{}"), time.Hour)
		assert.NoError(t, err)

		_, found, err := store.Get(c, "keys:123")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("Put sweeps expired entries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		store := NewInMemoryStore(nower)

		gomock.InOrder(
			nower.EXPECT().Now().Return(mytime.ExampleTime),
			nower.EXPECT().Now().Return(mytime.ExampleTime),
			nower.EXPECT().Now().Return(mytime.ExampleTime.Add(time.Hour)),
		)

		// given
		assert.NoError(t, store.Put(c, "state:abandoned", []byte("https://github.com/acme/widget"), time.Hour))
		assert.NoError(t, store.Put(c, "state:long", []byte("https://github.com/acme/gadget"), 2*time.Hour))

		// when
		assert.NoError(t, store.Put(c, "state:fresh", []byte("https://github.com/acme/gizmo"), time.Hour))

		// then
		assert.Len(t, store.items, 2)
		assert.NotContains(t, store.items, "state:abandoned")
		assert.Contains(t, store.items, "state:long")
		assert.Contains(t, store.items, "state:fresh")
	})

	t.Run("Delete", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		nower := mytime.NewMockNower(ctrl)
		nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		store := NewInMemoryStore(nower)

		err := store.Put(c, "state:abc", []byte("https://github.com/acme/widget"), time.Hour)
		assert.NoError(t, err)

		err = store.Delete(c, "state:abc")
		assert.NoError(t, err)

		_, found, err := store.Get(c, "state:abc")
		assert.NoError(t, err)
		assert.False(t, found)
	})
}
