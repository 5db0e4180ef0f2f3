package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeGrace = time.Second

type wsStream struct {
	conn *websocket.Conn
	once sync.Once
	err  error
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (s *wsStream) ReadFrame() (Frame, error) {
	mt, data, err := s.conn.ReadMessage()
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %w", ErrStreamClosed, err)
	}
	return Frame{Payload: data, Encoded: mt == websocket.TextMessage}, nil
}

// Close sends a normal-closure frame and releases the connection. It
// unblocks a concurrent ReadFrame.
func (s *wsStream) Close() error {
	s.once.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		s.err = s.conn.Close()
	})
	return s.err
}
