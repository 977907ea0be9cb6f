// Package livemetrics streams solver progress to connected browsers over
// a websocket, fanning each snapshot out to every connected client.
package livemetrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Snapshot is one point-in-time reading of the coordinator's progress,
// pushed to every connected client whenever Hub.Publish is called.
type Snapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	ExpandedByColor []int64   `json:"expanded_by_color"`
	TotalExpanded   int64     `json:"total_expanded"`
	Solved          bool      `json:"solved"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans a stream of Snapshots out to every connected websocket
// client, dropping slow readers rather than blocking the publisher.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan Snapshot

	log *logrus.Entry
}

// NewHub returns an empty Hub.
func NewHub(log *logrus.Entry) *Hub {
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	return &Hub{clients: make(map[*websocket.Conn]chan Snapshot), log: log}
}

// ServeHTTP upgrades the request to a websocket and registers the
// connection until it errors out or the client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	ch := make(chan Snapshot, 8)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
		close(ch)
		conn.Close()
	}()

	for snap := range ch {
		if err := conn.WriteJSON(snap); err != nil {
			h.log.WithError(err).Debug("dropping websocket client")
			return
		}
	}
}

// Publish fans snap out to every connected client, dropping it for any
// client whose buffer is already full instead of blocking the caller.
func (h *Hub) Publish(snap Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- snap:
		default:
		}
	}
}

// MarshalSnapshot is exposed for callers (such as tests) that want the
// wire form without going through a live connection.
func MarshalSnapshot(s Snapshot) ([]byte, error) { return json.Marshal(s) }
