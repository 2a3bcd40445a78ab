package server

import (
	"net/http"

	"apt/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// handleWebsockets is the main Hub loop
func (s *APIServer) handleWebsockets() {
	for {
		select {
		case client := <-s.register:
			s.stateMutex.Lock()
			s.clients[client] = struct{}{}
			last := s.lastBatch
			s.stateMutex.Unlock()

			// Replay the last alert batch on connect
			if last != nil {
				client.send <- last
			}

		case client := <-s.unregister:
			s.stateMutex.Lock()
			if _, ok := s.clients[client]; ok {
				delete(s.clients, client)
				close(client.send)
			}
			s.stateMutex.Unlock()

		case batch := <-s.broadcast:
			// Update state and broadcast
			s.stateMutex.Lock()
			s.lastBatch = batch

			for client := range s.clients {
				select {
				case client.send <- batch:
					// Message sent successfully
				default:
					// Client too slow, disconnect to prevent Hub blocking
					delete(s.clients, client)
					close(client.send)
				}
			}
			s.stateMutex.Unlock()
		}
	}
}

// -----------------------------------------------------------------------------
// Alert Notifier Implementation
// -----------------------------------------------------------------------------

// Notify queues one alert batch for broadcast to connected clients.
// Non-blocking: when the queue is full the batch is dropped, matching the
// at-most-once delivery contract.
func (s *APIServer) Notify(batch models.MAlertBatch) error {
	select {
	case s.broadcast <- &batch:
	default:
		s.Logger.Warning("Broadcast queue full, dropping alert batch")
	}
	return nil
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *APIServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		// Buffered channel to prevent blocking the Hub loop
		send: make(chan interface{}, 256),
	}

	s.register <- client

	// Start goroutines for reading/writing
	go client.writePump()
	go client.readPump()
}
