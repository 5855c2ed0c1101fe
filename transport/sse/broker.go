package sse

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/r3labs/sse/v2"

	"github.com/wricardo/trolly/game/engine"
)

// Broker fans game events out as server-sent events, one stream per
// session. Stream IDs are session IDs.
type Broker struct {
	server *sse.Server
}

// NewBroker creates a broker with no streams. Late subscribers do not get
// events published before they connected.
func NewBroker() *Broker {
	server := sse.New()
	server.AutoReplay = false
	server.AutoStream = false
	return &Broker{server: server}
}

// Open makes sure the session has a stream
func (b *Broker) Open(sessionID string) {
	if !b.server.StreamExists(sessionID) {
		b.server.CreateStream(sessionID)
	}
}

// Close drops the session's stream and disconnects its subscribers
func (b *Broker) Close(sessionID string) {
	if b.server.StreamExists(sessionID) {
		b.server.RemoveStream(sessionID)
	}
}

// Publish sends events to the session's subscribers. Sessions without an
// open stream have nobody listening and are skipped. It returns how many
// events were queued.
func (b *Broker) Publish(sessionID string, events ...engine.GameEvent) int {
	if len(events) == 0 || !b.server.StreamExists(sessionID) {
		return 0
	}

	sent := 0
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			log.Printf("sse: marshal event %s: %v", ev.ID, err)
			continue
		}
		ok := b.server.TryPublish(sessionID, &sse.Event{
			ID:    []byte(ev.ID),
			Event: []byte(ev.Type),
			Data:  data,
		})
		if !ok {
			log.Printf("sse: stream %s full, dropped %s", sessionID, ev.Type)
			continue
		}
		sent++
	}
	return sent
}

// ServeSession streams the session's events to one subscriber until the
// request context ends
func (b *Broker) ServeSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	b.Open(sessionID)

	q := r.URL.Query()
	q.Set("stream", sessionID)
	r = r.Clone(r.Context())
	r.URL.RawQuery = q.Encode()

	b.server.ServeHTTP(w, r)
}

// Shutdown closes every stream
func (b *Broker) Shutdown() {
	b.server.Close()
}
