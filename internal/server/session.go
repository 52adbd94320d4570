/*
 * MIT License
 *
 * Copyright (c) 2026 Nguyen Thanh Phuong
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write one reply to the peer.
	writeWait = 10 * time.Second

	// Maximum inbound message size. Larger frames close the session.
	maxMessageSize = 64 << 20
)

// session drives one upgraded connection until the peer leaves, a transport
// operation fails, or ctx is cancelled.
type session struct {
	conn       *websocket.Conn
	dispatcher *Dispatcher
	logger     *slog.Logger
}

func (s *session) run(ctx context.Context) {
	defer func() {
		_ = s.conn.Close()
	}()

	// Unblocks ReadMessage on shutdown.
	stop := context.AfterFunc(ctx, func() {
		_ = s.conn.Close()
	})
	defer stop()

	s.conn.SetReadLimit(maxMessageSize)
	s.logger.Info("Session opened")

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Info("Session closed")
			} else {
				s.logger.Warn("Session read failed", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			s.logger.Debug("Ignoring non-text message", "type", messageType)
			continue
		}

		reply := s.dispatcher.Handle(ctx, s.logger, string(data))
		if reply == nil {
			continue
		}

		if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			s.logger.Error("Failed to set write deadline", "error", err)
			return
		}
		if err := s.conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			s.logger.Error("Failed to send reply", "error", err)
			return
		}
	}
}
