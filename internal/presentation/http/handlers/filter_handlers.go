package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/FleetPulse/fleetpulse-go/internal/application/filters"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/messaging"
	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// FilterHandlers contains the shared filter-state endpoints: an HTTP update
// endpoint and a websocket stream pushing changes to connected dashboards.
type FilterHandlers struct {
	filterStore *filters.Store
	broadcaster *messaging.FilterBroadcaster
	logger      *logging.ChanneledLogger
}

// NewFilterHandlers creates filter handlers with injected dependencies
func NewFilterHandlers(filterStore *filters.Store, broadcaster *messaging.FilterBroadcaster, logger *logging.ChanneledLogger) *FilterHandlers {
	return &FilterHandlers{
		filterStore: filterStore,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// HandleGetFilters handles GET /api/v1/filters
func (h *FilterHandlers) HandleGetFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.filterStore.Get())
}

// HandlePutFilters handles PUT /api/v1/filters
func (h *FilterHandlers) HandlePutFilters(c *gin.Context) {
	var state filters.FilterState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed filter state"})
		return
	}

	changed := h.filterStore.Set(state)
	if changed {
		h.logger.System().Info("Filter state updated", "startDate", state.StartDate, "endDate", state.EndDate, "accountCode", state.AccountCode, "userId", state.UserID)
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "state": state})
}

// HandleFilterStream handles GET /api/v1/ws/filters
func (h *FilterHandlers) HandleFilterStream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.System().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.Client{Conn: conn, Send: make(chan []byte, 8)}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

// writePump forwards broadcast messages to the client and keeps the
// connection alive with pings.
func (h *FilterHandlers) writePump(client *messaging.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains inbound frames so pongs are processed, and unregisters the
// client when the connection drops.
func (h *FilterHandlers) readPump(client *messaging.Client) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
