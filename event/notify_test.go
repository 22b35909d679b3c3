package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitStatus_NilEmitter(t *testing.T) {
	// Must not panic.
	EmitStatus(context.Background(), nil, "no sink", false)
	EmitCitation(context.Background(), nil, "content", "title", "url")
}

func TestEmitStatus_DeliversEvent(t *testing.T) {
	var events []*Event
	emitter := func(_ context.Context, evt *Event) error {
		events = append(events, evt)
		return nil
	}

	EmitStatus(context.Background(), emitter, "working", false)
	EmitStatus(context.Background(), emitter, "done", true)

	require.Len(t, events, 2)
	assert.Equal(t, "working", events[0].Status.Description)
	assert.False(t, events[0].Status.Done)
	assert.Equal(t, "done", events[1].Status.Description)
	assert.True(t, events[1].Status.Done)
}

func TestEmit_SwallowsError(t *testing.T) {
	emitter := func(_ context.Context, _ *Event) error {
		return errors.New("sink is broken")
	}

	// Must not panic and must not propagate.
	EmitStatus(context.Background(), emitter, "working", false)
	EmitCitation(context.Background(), emitter, "content", "title", "url")
}

func TestEmit_SwallowsPanic(t *testing.T) {
	emitter := func(_ context.Context, _ *Event) error {
		panic("sink panicked")
	}

	assert.NotPanics(t, func() {
		EmitStatus(context.Background(), emitter, "working", false)
	})
	assert.NotPanics(t, func() {
		EmitCitation(context.Background(), emitter, "content", "title", "url")
	})
}
