package event

import (
	"context"

	"github.com/levelvc/level-agent-tools/log"
)

// EmitStatus delivers a status event to the emitter on a best-effort basis.
// A nil emitter is a no-op. Errors and panics from the emitter are discarded
// so that notification never affects the outcome of the calling operation.
func EmitStatus(ctx context.Context, emitter Emitter, description string, done bool) {
	emit(ctx, emitter, NewStatus(description, done))
}

// EmitCitation delivers a citation event to the emitter on a best-effort
// basis, with the same guarantees as EmitStatus.
func EmitCitation(ctx context.Context, emitter Emitter, content, title, url string) {
	emit(ctx, emitter, NewCitation(content, title, url))
}

func emit(ctx context.Context, emitter Emitter, evt *Event) {
	if emitter == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Debugf("event: emitter panicked for %s event: %v", evt.Type, r)
		}
	}()
	if err := emitter(ctx, evt); err != nil {
		log.Debugf("event: emitter failed for %s event: %v", evt.Type, err)
	}
}
