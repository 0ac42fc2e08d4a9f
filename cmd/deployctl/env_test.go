package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingFlusher struct {
	ctxErr error
	called bool
	err    error
}

func (f *recordingFlusher) Flush(c context.Context) (int, error) {
	f.called = true
	f.ctxErr = c.Err()
	return 1, f.err
}

func TestFlushOutbox(t *testing.T) {

	t.Run("Delivers after interrupt", func(t *testing.T) {
		// given
		c, cancel := context.WithCancel(context.Background())
		cancel()
		flusher := &recordingFlusher{}

		// when
		err := flushOutbox(c, flusher)

		// then
		assert.NoError(t, err)
		assert.True(t, flusher.called)
		assert.NoError(t, flusher.ctxErr)
	})

	t.Run("Reports flush error", func(t *testing.T) {
		flusher := &recordingFlusher{err: fmt.Errorf("pubsub down")}

		err := flushOutbox(context.Background(), flusher)

		assert.EqualError(t, err, "pubsub down")
	})
}
