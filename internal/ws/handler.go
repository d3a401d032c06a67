package ws

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"pokerclock/internal/service"
	"pokerclock/internal/syncx"
	pkgAuth "pokerclock/pkg/auth"
	"pokerclock/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler serves the viewer stream: one FULL_SYNC on connect, then every
// broadcast the hub fans out. Viewers never send state upstream over the
// socket; mutations go through the REST surface.
type Handler struct {
	container *service.Container
}

func NewHandler(container *service.Container) *Handler {
	return &Handler{container: container}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

func (h *Handler) HandleViewWS(c *gin.Context) {
	token, err := getTokenFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	claims, err := pkgAuth.ParseViewerToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	// Build the hydration snapshot before upgrading so a failure can still
	// surface as a plain HTTP error.
	snap, err := h.container.Snapshot(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load state"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("New viewer connection",
		zap.String("scope", claims.Scope),
		zap.String("display", claims.Display),
	)

	client := newClient(conn, claims.Display, h.container.Hub)
	client.run(syncx.NewFullSync(snap))
}

func getTokenFromRequest(c *gin.Context) (string, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token != "" {
		return token, nil
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
			if token != "" {
				return token, nil
			}
		}
	}
	return "", errors.New("missing token")
}

type client struct {
	conn      *websocket.Conn
	display   string
	hub       *syncx.Hub
	subID     int64
	outbound  <-chan syncx.Message
	done      chan struct{}
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, display string, hub *syncx.Hub) *client {
	conn.SetReadLimit(1 << 16)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	subID, outbound := hub.Subscribe()
	return &client{
		conn:      conn,
		display:   display,
		hub:       hub,
		subID:     subID,
		outbound:  outbound,
		done:      make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run(initial syncx.Message) {
	go c.writePump(initial)
	c.readPump()
}

// readPump drains the connection so pongs and close frames are processed.
// Any inbound payload is ignored.
func (c *client) readPump() {
	defer func() {
		close(c.done)
		c.hub.Unsubscribe(c.subID)
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			logger.Log.Info("WS read error", zap.Error(err), zap.String("display", c.display))
			return
		}
	}
}

func (c *client) writePump(initial syncx.Message) {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	if err := c.conn.WriteJSON(initial); err != nil {
		logger.Log.Info("WS write error", zap.Error(err), zap.String("display", c.display))
		return
	}

	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Log.Info("WS write error", zap.Error(err), zap.String("display", c.display))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}
