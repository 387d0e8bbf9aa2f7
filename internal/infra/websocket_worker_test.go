package infra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type stubHandler struct {
	url            string
	onConnectCalls int32
	onMessageCalls int32
}

func (s *stubHandler) GetURL() string { return s.url }
func (s *stubHandler) ID() string     { return "STUB" }
func (s *stubHandler) OnConnect(ctx context.Context, conn *websocket.Conn) error {
	atomic.AddInt32(&s.onConnectCalls, 1)
	return nil
}
func (s *stubHandler) OnMessage(ctx context.Context, msg []byte) {
	atomic.AddInt32(&s.onMessageCalls, 1)
}
func (s *stubHandler) OnPing(ctx context.Context, conn *websocket.Conn) error {
	return nil
}

func newWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(httpURL string) string {
	return strings.Replace(httpURL, "http://", "ws://", 1)
}

func TestBaseWSWorker_ConnectAndReceive(t *testing.T) {
	server := newWSServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"channel":"book"}`))
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	handler := &stubHandler{url: wsURL(server.URL)}
	worker := NewBaseWSWorker(handler)
	worker.ReadTimeout = 500 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	worker.Start(ctx)
	time.Sleep(200 * time.Millisecond)
	worker.Stop()

	if atomic.LoadInt32(&handler.onConnectCalls) == 0 {
		t.Error("OnConnect was not called")
	}
	if atomic.LoadInt32(&handler.onMessageCalls) == 0 {
		t.Error("OnMessage was not called")
	}
}

func TestBaseWSWorker_StopDoesNotHang(t *testing.T) {
	serverClosed := make(chan struct{})
	server := newWSServer(t, func(conn *websocket.Conn) {
		<-serverClosed
	})
	defer server.Close()
	defer close(serverClosed)

	handler := &stubHandler{url: wsURL(server.URL)}
	worker := NewBaseWSWorker(handler)

	worker.Start(context.Background())
	time.Sleep(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Error("Stop did not return within timeout")
	}
}

func TestBaseWSWorker_Write(t *testing.T) {
	received := make(chan []byte, 1)
	server := newWSServer(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err == nil {
			received <- msg
		}
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	handler := &stubHandler{url: wsURL(server.URL)}
	worker := NewBaseWSWorker(handler)

	worker.Start(context.Background())
	time.Sleep(100 * time.Millisecond)
	defer worker.Stop()

	msg := []byte(`{"method":"subscribe"}`)
	if err := worker.Write(websocket.TextMessage, msg); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	select {
	case got := <-received:
		if string(got) != string(msg) {
			t.Errorf("server received %s, want %s", got, msg)
		}
	case <-time.After(time.Second):
		t.Error("server did not receive message")
	}
}
