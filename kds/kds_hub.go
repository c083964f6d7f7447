// Package kds is the realtime hub behind the kitchen display, the staff console
// and the customer tracking page.
package kds

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/events"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gorilla/websocket"
)

// TopicStaff receives every event. Tracking clients subscribe to DeliveryTopic.
const TopicStaff = "staff"

const writeWait = 5 * time.Second

func DeliveryTopic(token string) string {
	return "delivery:" + token
}

type Message struct {
	Event   string      `json:"event"`
	OrderID uint        `json:"order_id,omitempty"`
	Data    interface{} `json:"data"`
	At      time.Time   `json:"at"`
}

type client struct {
	conn  *websocket.Conn
	topic string
	label string
	// gorilla connections support one concurrent writer
	writeMu sync.Mutex
}

// Hub holds the connected websocket clients grouped by topic.
type Hub struct {
	mutex   sync.RWMutex
	clients map[*websocket.Conn]*client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// Register adds a connection to a topic. label identifies the client in logs
// (role or order id).
func (h *Hub) Register(conn *websocket.Conn, topic, label string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{conn: conn, topic: topic, label: label}
	utils.InfoLogger.Debugf("kds client %s joined %s", label, topic)
}

// Unregister removes and closes the connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	_, ok := h.clients[conn]
	delete(h.clients, conn)
	h.mutex.Unlock()
	if ok {
		conn.Close()
	}
}

func (h *Hub) Count(topic string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	n := 0
	for _, c := range h.clients {
		if c.topic == topic {
			n++
		}
	}
	return n
}

// Publish implements events.Publisher. Staff clients get every event; tracking
// clients only get the events of their delivery.
func (h *Hub) Publish(_ context.Context, e events.Event) error {
	msg := Message{Event: e.Type, OrderID: e.OrderID, Data: e.Data, At: e.At}
	h.Broadcast(TopicStaff, msg)
	if e.DeliveryToken != "" {
		h.Broadcast(DeliveryTopic(e.DeliveryToken), msg)
	}
	return nil
}

// Broadcast sends msg to every client of topic. Clients that fail to receive
// are dropped.
func (h *Hub) Broadcast(topic string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling message: %v", err)
		return
	}

	h.mutex.RLock()
	var targets []*client
	for _, c := range h.clients {
		if c.topic == topic {
			targets = append(targets, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range targets {
		if err := c.write(data); err != nil {
			utils.ErrorLogger.Warnf("Error sending %s to client %s: %v", msg.Event, c.label, err)
			h.Unregister(c.conn)
		}
	}
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Serve registers conn and blocks reading until the client disconnects.
// Incoming messages are ignored.
func (h *Hub) Serve(conn *websocket.Conn, topic, label string) {
	h.Register(conn, topic, label)
	defer h.Unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
