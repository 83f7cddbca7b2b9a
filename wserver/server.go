// Package wserver pushes mailbox events to subscribed websocket clients,
// typically relayer UIs watching dispatches and deliveries.
package wserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/relaymesh/mailbox/eventbus"
)

const serverDefaultWSPath = "/ws"

var defaultUpgrader = &websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Server defines parameters for running the websocket push server.
type Server struct {
	// Address for server to listen on
	Addr string

	// Path for websocket request, default "/ws".
	WSPath string

	upgrader *websocket.Upgrader
	engine   *gin.Engine
	server   *http.Server

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewServer creates a new Server.
func NewServer(addr string) *Server {
	s := &Server{
		Addr:     addr,
		WSPath:   serverDefaultWSPath,
		upgrader: defaultUpgrader,
		conns:    make(map[*websocket.Conn]bool),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET(s.WSPath, s.handleWebsocket)

	s.engine = engine
	s.server = &http.Server{Addr: addr, Handler: engine}
	return s
}

func (s *Server) handleWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	s.mu.Lock()
	s.conns[conn] = true
	s.mu.Unlock()
	logrus.WithField("remote", conn.RemoteAddr()).Info("websocket client connected")

	// drain control frames; drop the conn on any read error
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.drop(conn)
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

// Push broadcasts one event to all connected clients.
func (s *Server) Push(eventName string, ev eventbus.Event) {
	payload, err := json.Marshal(map[string]interface{}{
		"event": eventName,
		"data":  ev,
	})
	if err != nil {
		logrus.WithError(err).Warn("cannot marshal event")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logrus.WithError(err).Debug("push failed, dropping client")
			delete(s.conns, conn)
			_ = conn.Close()
		}
	}
}

func (s *Server) Start() {
	logrus.WithField("addr", s.Addr).Info("websocket server listening")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			// cannot panic, because this probably is an intentional close
			logrus.WithError(err).Info("websocket server")
		}
	}()
}

func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("error while shutting down websocket server")
	}
}

func (s *Server) Name() string {
	return "wserver at " + s.Addr
}
