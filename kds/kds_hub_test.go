package kds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Garciabraganca/COSTABURGUER-sub001/events"
	"github.com/Garciabraganca/COSTABURGUER-sub001/utils"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	utils.SilenceLoggers()
}

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	hub := NewHub()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Serve(conn, r.URL.Query().Get("topic"), "test")
	}))
	t.Cleanup(srv.Close)
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, hub *Hub, url, topic string) *websocket.Conn {
	t.Helper()
	before := hub.Count(topic)
	conn, _, err := websocket.DefaultDialer.Dial(url+"?topic="+topic, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.Eventually(t, func() bool { return hub.Count(topic) == before+1 }, time.Second, 10*time.Millisecond)
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	var msg Message
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestPublishRoutesByTopic(t *testing.T) {
	hub, url := startHub(t)
	staff := dial(t, hub, url, TopicStaff)
	tracking := dial(t, hub, url, DeliveryTopic("abc"))
	other := dial(t, hub, url, DeliveryTopic("xyz"))

	e := events.New(events.DeliveryLocation, 7, map[string]float64{"latitude": -23.5}).ForDelivery("abc")
	require.NoError(t, hub.Publish(context.Background(), e))

	msg := readMessage(t, staff)
	assert.Equal(t, events.DeliveryLocation, msg.Event)
	assert.Equal(t, uint(7), msg.OrderID)

	msg = readMessage(t, tracking)
	assert.Equal(t, events.DeliveryLocation, msg.Event)

	// the other delivery's subscriber gets nothing
	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestOrderEventsOnlyReachStaff(t *testing.T) {
	hub, url := startHub(t)
	staff := dial(t, hub, url, TopicStaff)
	tracking := dial(t, hub, url, DeliveryTopic("abc"))

	require.NoError(t, hub.Publish(context.Background(), events.New(events.OrderCreated, 1, nil)))
	assert.Equal(t, events.OrderCreated, readMessage(t, staff).Event)

	tracking.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := tracking.ReadMessage()
	assert.Error(t, err)
}

func TestDisconnectedClientIsUnregistered(t *testing.T) {
	hub, url := startHub(t)
	conn := dial(t, hub, url, TopicStaff)
	conn.Close()

	assert.Eventually(t, func() bool { return hub.Count(TopicStaff) == 0 }, time.Second, 10*time.Millisecond)
}
