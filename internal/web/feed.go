package web

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/ygriega/fernschreiber/internal/events"
	"github.com/ygriega/fernschreiber/internal/helpers"
)

const clientQueueSize = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// eventFeed streams every bus event to connected websocket clients. Delivery
// to the bus stays synchronous; fan-out to sockets goes through per-client
// buffered queues, a client that stops reading gets disconnected instead of
// stalling the update pipeline.
type eventFeed struct {
	mu      sync.Mutex
	clients map[*feedClient]struct{}
}

type feedClient struct {
	conn *websocket.Conn
	send chan events.Event
}

func newEventFeed(bus *events.Bus) *eventFeed {
	feed := &eventFeed{clients: make(map[*feedClient]struct{})}
	bus.Subscribe(feed.broadcast)

	return feed
}

func (f *eventFeed) broadcast(e events.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for client := range f.clients {
		select {
		case client.send <- e:
		default:
			log.Printf("dropping slow event feed client %s", client.conn.RemoteAddr())
			delete(f.clients, client)
			close(client.send)
		}
	}
}

func (f *eventFeed) processEvents(w http.ResponseWriter, req *http.Request) {
	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %s", err)

		return
	}
	client := &feedClient{conn: conn, send: make(chan events.Event, clientQueueSize)}

	f.mu.Lock()
	f.clients[client] = struct{}{}
	f.mu.Unlock()

	go client.writeLoop()
	client.readLoop(f)
}

func (c *feedClient) writeLoop() {
	defer c.conn.Close()
	for e := range c.send {
		if err := c.conn.WriteJSON(e); err != nil {
			log.Printf("event feed write to %s failed: %s (event %s)", c.conn.RemoteAddr(), err, helpers.JsonMarshalStr(e))

			return
		}
	}
}

// readLoop discards inbound frames; it exists to notice the peer going away.
func (c *feedClient) readLoop(f *eventFeed) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
	f.mu.Lock()
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
	f.mu.Unlock()
}
