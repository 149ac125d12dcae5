package natsstore

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
)

// keyedValues keeps the latest value per key in the order keys were first seen.
type keyedValues struct {
	order  []string
	values map[string][]byte
}

func newKeyedValues() *keyedValues {
	return &keyedValues{values: map[string][]byte{}}
}

func (kv *keyedValues) apply(entry jetstream.KeyValueEntry) {
	key := entry.Key()

	switch entry.Operation() {
	case jetstream.KeyValueDelete, jetstream.KeyValuePurge:
		if _, ok := kv.values[key]; !ok {
			return
		}
		delete(kv.values, key)
		for i, k := range kv.order {
			if k == key {
				kv.order = append(kv.order[:i], kv.order[i+1:]...)
				break
			}
		}
	default:
		if _, ok := kv.values[key]; !ok {
			kv.order = append(kv.order, key)
		}
		kv.values[key] = entry.Value()
	}
}

func (kv *keyedValues) each(fn func(key string, value []byte)) {
	for _, k := range kv.order {
		fn(k, kv.values[k])
	}
}

// relay turns watcher updates into full snapshots. The first snapshot is sent once
// the initial values have been replayed. When the watcher ends without ctx being
// cancelled, fail is called with the reason before out is closed.
func relay[S any](ctx context.Context, watcher jetstream.KeyWatcher, snapshot func(*keyedValues) S, fail func(error) S, out chan<- S, log zerolog.Logger) {
	defer close(out)
	defer watcher.Stop()

	state := newKeyedValues()
	replayed := false

	send := func(s S) bool {
		select {
		case out <- s:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-watcher.Updates():
			if !ok {
				if ctx.Err() == nil {
					log.Warn().Msg("watcher stopped")
					send(fail(errWatcherStopped))
				}
				return
			}

			if entry == nil {
				replayed = true
			} else {
				state.apply(entry)
			}

			if replayed && !send(snapshot(state)) {
				return
			}
		}
	}
}
