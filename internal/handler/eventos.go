package handler

import (
	"io"
	"net/http"
	"time"

	"restopos/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	keepAliveInterval = 25 * time.Second
	wsWriteTimeout    = 5 * time.Second
)

// EventosHandler streams ledger notifications to the waiter, kitchen and
// admin screens, over SSE or WebSocket.
type EventosHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

func NewEventosHandler(hub *notify.Hub) *EventosHandler {
	return &EventosHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			// LAN clients; CORS policy already applies to the HTTP side
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// SSE godoc
// @Summary Stream de eventos (Server-Sent Events)
// @Description Envia ": connected" al conectar y luego un frame event/data por cada cambio: order-updated, order-closed, order-cancelled, kitchen-ready.
// @Tags eventos
// @Produce text/event-stream
// @Router /api/events [get]
func (h *EventosHandler) SSE(c *gin.Context) {
	sub := h.hub.Suscribir()
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	_, _ = io.WriteString(c.Writer, ": connected\n\n")
	c.Writer.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case ev, ok := <-sub.C():
			if !ok {
				return false
			}
			c.SSEvent(ev.Tipo, ev.Datos)
			return true
		case <-ticker.C:
			_, err := io.WriteString(w, ": ping\n\n")
			return err == nil
		}
	})
}

// WS godoc
// @Summary Stream de eventos por WebSocket
// @Description Cada mensaje es un notify.Evento en JSON.
// @Tags eventos
// @Router /api/ws [get]
func (h *EventosHandler) WS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		log.Debug().Err(err).Msg("ws: upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.hub.Suscribir()
	defer sub.Close()

	// Reader: the client never sends anything useful, but reading is how
	// close frames and disconnects are noticed.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case ev, ok := <-sub.C():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(ev); err != nil {
				log.Debug().Err(err).Msg("ws: write failed, dropping subscriber")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteTimeout)); err != nil {
				return
			}
		}
	}
}
