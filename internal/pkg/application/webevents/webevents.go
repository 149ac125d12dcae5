package webevents

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	gosse "github.com/alexandrevicenzi/go-sse"
)

//go:generate moq -rm -out webevents_mock.go . WebEvents

const (
	EventView         string = "view"
	EventNotification string = "notification"
)

const (
	dashboardChannel    = "dashboard"
	retryMillis         = 3000
	notificationBacklog = 32
)

type WebEvents interface {
	http.Handler
	Shutdown()
	Publish(event string, data any) error
}

type webEvents struct {
	s   *gosse.Server
	seq atomic.Uint64

	mu            sync.Mutex
	view          *pending
	notifications []pending

	wake chan struct{}
	done chan struct{}
	once sync.Once
}

type pending struct {
	seq uint64
	msg *gosse.Message
}

// New returns an event stream where every browser, whatever path it connects on,
// joins the same channel and receives every published event.
func New() WebEvents {
	we := newWebEvents()
	go we.run()
	return we
}

func newWebEvents() *webEvents {
	return &webEvents{
		s: gosse.NewServer(&gosse.Options{
			RetryInterval: retryMillis,
			Headers: map[string]string{
				"Cache-Control": "no-cache",
			},
			ChannelNameFunc: func(*http.Request) string {
				return dashboardChannel
			},
		}),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (we *webEvents) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	we.s.ServeHTTP(w, r)
}

func (we *webEvents) Shutdown() {
	we.once.Do(func() {
		close(we.done)
		we.s.Shutdown()
	})
}

// Publish queues data as JSON for every connected client and never waits for
// them. Only the latest view is kept, and at most notificationBacklog other
// events, oldest dropped first. Events carry increasing ids so a reconnecting
// browser can tell what it missed.
func (we *webEvents) Publish(event string, data any) error {
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}

	seq := we.seq.Add(1)
	p := pending{seq: seq, msg: gosse.NewMessage(strconv.FormatUint(seq, 10), string(b), event)}

	we.mu.Lock()
	if event == EventView {
		we.view = &p
	} else {
		if len(we.notifications) == notificationBacklog {
			we.notifications = we.notifications[1:]
		}
		we.notifications = append(we.notifications, p)
	}
	we.mu.Unlock()

	select {
	case we.wake <- struct{}{}:
	default:
	}

	return nil
}

// run hands queued events to go-sse, which blocks until every client has taken them.
func (we *webEvents) run() {
	for {
		select {
		case <-we.done:
			return
		case <-we.wake:
		}

		for {
			p, ok := we.next()
			if !ok {
				break
			}

			select {
			case <-we.done:
				return
			default:
			}

			we.s.SendMessage(dashboardChannel, p.msg)
		}
	}
}

// next pops the queued event with the lowest id.
func (we *webEvents) next() (pending, bool) {
	we.mu.Lock()
	defer we.mu.Unlock()

	if len(we.notifications) > 0 && (we.view == nil || we.notifications[0].seq < we.view.seq) {
		p := we.notifications[0]
		we.notifications = we.notifications[1:]
		return p, true
	}

	if we.view != nil {
		p := *we.view
		we.view = nil
		return p, true
	}

	return pending{}, false
}
