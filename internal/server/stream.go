package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	// streamBacklog is how many recent events are kept for Last-Event-ID replay.
	streamBacklog = 256
	// streamKeepalive is the interval between comment lines on an idle stream.
	streamKeepalive = 15 * time.Second
	// streamClientBuffer bounds the events queued for one slow client.
	streamClientBuffer = 64
)

// streamEvent is one entry of the live event stream.
type streamEvent struct {
	ID    uint64
	Topic string
	Data  []byte
}

// eventHub fans published events out to connected /api/events clients and
// keeps a fixed-size backlog for reconnecting clients.
type eventHub struct {
	mu      sync.Mutex
	clients map[*streamClient]struct{}
	lastID  uint64
	backlog []streamEvent // oldest first, at most streamBacklog entries

	done      chan struct{}
	closeOnce sync.Once
}

type streamClient struct {
	patterns []string // empty = every topic
	ch       chan streamEvent
}

func newEventHub() *eventHub {
	return &eventHub{clients: make(map[*streamClient]struct{}), done: make(chan struct{})}
}

// close ends every open stream. Later subscribers return immediately.
func (h *eventHub) close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// broadcast assigns the next id to the event, records it in the backlog and
// offers it to every matching client. Full client buffers drop the event.
func (h *eventHub) broadcast(topic string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.lastID++
	ev := streamEvent{ID: h.lastID, Topic: topic, Data: data}
	if len(h.backlog) == streamBacklog {
		copy(h.backlog, h.backlog[1:])
		h.backlog = h.backlog[:streamBacklog-1]
	}
	h.backlog = append(h.backlog, ev)

	for c := range h.clients {
		if !c.wants(topic) {
			continue
		}
		select {
		case c.ch <- ev:
		default:
		}
	}
}

// subscribe registers a client and returns it with the backlog entries newer
// than after that match its patterns. Registration and the backlog snapshot
// happen under one lock, so no event falls between them.
func (h *eventHub) subscribe(patterns []string, after uint64) (*streamClient, []streamEvent) {
	c := &streamClient{patterns: patterns, ch: make(chan streamEvent, streamClientBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}

	var replay []streamEvent
	if after > 0 {
		for _, ev := range h.backlog {
			if ev.ID > after && c.wants(ev.Topic) {
				replay = append(replay, ev)
			}
		}
	}
	return c, replay
}

func (h *eventHub) unsubscribe(c *streamClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

func (h *eventHub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (c *streamClient) wants(topic string) bool {
	if len(c.patterns) == 0 {
		return true
	}
	for _, p := range c.patterns {
		if matchTopic(p, topic) {
			return true
		}
	}
	return false
}

// matchTopic matches a dot-separated topic against a NATS-style pattern:
// "*" matches exactly one segment and a trailing ">" matches one or more.
func matchTopic(pattern, topic string) bool {
	pp := strings.Split(pattern, ".")
	tp := strings.Split(topic, ".")
	for i, seg := range pp {
		if seg == ">" && i == len(pp)-1 {
			return len(tp) > i
		}
		if i >= len(tp) || (seg != "*" && seg != tp[i]) {
			return false
		}
	}
	return len(pp) == len(tp)
}

// broadcastEvent encodes event and hands it to the hub.
func (s *PottyServer) broadcastEvent(topic string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to encode event for stream", "topic", topic, "error", err)
		return
	}
	s.hub.broadcast(topic, data)
}

// CloseStreams ends all open /api/events responses. http.Server.Shutdown does
// not cancel long-lived requests, so register this with RegisterOnShutdown.
func (s *PottyServer) CloseStreams() {
	s.hub.close()
}

// handleEventStream handles GET /api/events as a server-sent event stream.
// The optional "topics" query parameter is a comma-separated pattern list.
func (s *PottyServer) handleEventStream(w http.ResponseWriter, r *http.Request) {
	var patterns []string
	for _, p := range strings.Split(r.URL.Query().Get("topics"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	after, _ := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)

	client, replay := s.hub.subscribe(patterns, after)
	defer s.hub.unsubscribe(client)

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	for _, ev := range replay {
		writeStreamEvent(w, ev)
	}
	if err := rc.Flush(); err != nil {
		return
	}

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-s.hub.done:
			return
		case ev := <-client.ch:
			writeStreamEvent(w, ev)
		case <-keepalive.C:
			fmt.Fprint(w, ":keepalive\n\n")
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func writeStreamEvent(w http.ResponseWriter, ev streamEvent) {
	fmt.Fprintf(w, "id:%d\nevent:%s\ndata:%s\n\n", ev.ID, ev.Topic, ev.Data)
}
