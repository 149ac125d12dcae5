package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/gorilla/websocket"
	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestDialPassesDeviceIDAndDecodesFrames(t *testing.T) {
	is := is.New(t)

	deviceIDs := make(chan string, 1)

	server := testServer(t, func(conn *websocket.Conn, r *http.Request) {
		deviceIDs <- r.URL.Query().Get("device_id")

		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"firmwareUpdate","data":{}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"sensorUpdate","data":{"motion":{"x":0.1,"y":0.2,"z":0.3},"light":300,"temperature":21.5}}`))
		conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"tamperAlert","data":{"id":"a1","device_id":"device1","timestamp":1714557600000}}`))

		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	})
	defer server.Close()

	dialer, err := NewWebsocketDialer(wsURL(server), zerolog.Nop())
	is.NoErr(err)

	conn, err := dialer.Dial(context.Background(), "device1")
	is.NoErr(err)
	defer conn.Close()

	is.Equal(<-deviceIDs, "device1")

	events := collect(t, conn)
	is.Equal(len(events), 4)

	is.Equal(events[0].Kind, Opened)

	is.Equal(events[1].Kind, Message)
	update, ok := events[1].Message.(types.SensorUpdate)
	is.True(ok)
	is.Equal(update.Reading.Light, 300)

	is.Equal(events[2].Kind, Message)
	tamper, ok := events[2].Message.(types.TamperAlert)
	is.True(ok)
	is.Equal(tamper.Alert.ID, "a1")
	is.Equal(tamper.Alert.Type, types.AlertTypeTamper)

	is.Equal(events[3].Kind, Closed)
}

func TestSendWritesSimulateTamper(t *testing.T) {
	is := is.New(t)

	received := make(chan string, 1)

	server := testServer(t, func(conn *websocket.Conn, r *http.Request) {
		_, b, err := conn.ReadMessage()
		if err == nil {
			received <- string(b)
		}
		conn.ReadMessage()
	})
	defer server.Close()

	dialer, err := NewWebsocketDialer(wsURL(server), zerolog.Nop())
	is.NoErr(err)

	conn, err := dialer.Dial(context.Background(), "device1")
	is.NoErr(err)

	err = conn.Send(context.Background(), types.SimulateTamper{DeviceID: "device1"})
	is.NoErr(err)

	select {
	case msg := <-received:
		is.Equal(msg, `{"type":"simulateTamper","data":{"device_id":"device1"}}`)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the control message")
	}

	is.NoErr(conn.Close())
	is.NoErr(conn.Close())

	err = conn.Send(context.Background(), types.SimulateTamper{DeviceID: "device1"})
	is.Equal(err, ErrConnectionClosed)

	events := collect(t, conn)
	is.Equal(events[len(events)-1].Kind, Closed)
	for _, e := range events {
		is.True(e.Kind != Error) // closing on our side is not an error
	}
}

func TestAbruptDisconnectIsReportedAsError(t *testing.T) {
	is := is.New(t)

	server := testServer(t, func(conn *websocket.Conn, r *http.Request) {
		conn.UnderlyingConn().Close()
	})
	defer server.Close()

	dialer, err := NewWebsocketDialer(wsURL(server), zerolog.Nop())
	is.NoErr(err)

	conn, err := dialer.Dial(context.Background(), "device1")
	is.NoErr(err)
	defer conn.Close()

	events := collect(t, conn)
	is.Equal(len(events), 3)
	is.Equal(events[1].Kind, Error)
	is.Equal(events[2].Kind, Closed)
}

func TestDialFailsForUnreachableServer(t *testing.T) {
	is := is.New(t)

	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	dialer, err := NewWebsocketDialer(wsURL(server), zerolog.Nop())
	is.NoErr(err)

	_, err = dialer.Dial(context.Background(), "device1")
	is.True(err != nil)
}

func TestDialerRequiresWebsocketScheme(t *testing.T) {
	is := is.New(t)

	_, err := NewWebsocketDialer("http://localhost:8000", zerolog.Nop())
	is.True(err != nil)
}

var upgrader = websocket.Upgrader{}

func testServer(t *testing.T, handle func(conn *websocket.Conn, r *http.Request)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %s", err.Error())
			return
		}
		defer conn.Close()

		handle(conn, r)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func collect(t *testing.T, conn Connection) []Event {
	t.Helper()

	events := []Event{}
	timeout := time.After(5 * time.Second)

	for {
		select {
		case e, ok := <-conn.Events():
			if !ok {
				return events
			}
			events = append(events, e)
		case <-timeout:
			t.Fatal("events channel was not closed")
			return events
		}
	}
}
