// Package relay exposes the workflow's message traffic over WebSocket.
// Each connected client registers as one of the three parties and receives
// every message event addressed to its role, in display form.
package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/utkarsh-1912/TradeLab/pkg/logging"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 256
)

// Frame is the JSON payload delivered to relay clients.
type Frame struct {
	EventID   string    `json:"event_id"`
	ClOrdID   string    `json:"cl_ord_id"`
	MsgType   string    `json:"msg_type"`
	Party     string    `json:"party"`
	Message   string    `json:"message"`
	Valid     bool      `json:"valid"`
	Timestamp time.Time `json:"timestamp"`
	Errors    []string  `json:"errors,omitempty"`
}

type Config struct {
	Addr string `yaml:"addr"`
}

type Server struct {
	cfg      Config
	registry *registry
	upgrader websocket.Upgrader
	logger   *logging.Logger
	httpSrv  *http.Server
}

func NewServer(cfg Config) *Server {
	s := &Server{
		cfg:      cfg,
		registry: newRegistry(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logging.NewLogger(logging.INFO),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	s.httpSrv = &http.Server{Addr: cfg.Addr, Handler: mux}
	return s
}

func (s *Server) Start() error {
	s.logger.Info(context.Background(), "relay listening", zap.String("addr", s.cfg.Addr))
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	for _, sess := range s.registry.byParty("") {
		s.registry.remove(sess.id)
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) Sessions() int {
	return s.registry.len()
}

// OnMessage delivers a recorded message event to the party it belongs to.
// Custodian traffic also goes to the broker so the middle party sees the
// full post-trade conversation.
func (s *Server) OnMessage(ctx context.Context, ev *model.MessageEvent) {
	if ev == nil {
		return
	}
	frame := Frame{
		EventID:   ev.EventID,
		ClOrdID:   ev.ClOrdID,
		MsgType:   ev.MsgType,
		Party:     ev.Party,
		Message:   ev.Display,
		Valid:     ev.Valid,
		Timestamp: ev.Timestamp,
		Errors:    ev.Errors,
	}
	b, err := json.Marshal(frame)
	if err != nil {
		s.logger.Error(ctx, "marshal relay frame", zap.Error(err))
		return
	}

	targets := s.registry.byParty(ev.Party)
	if ev.Party == "custodian" {
		targets = append(targets, s.registry.byParty("broker")...)
	}
	for _, sess := range targets {
		select {
		case sess.send <- b:
		default:
			// slow consumer, drop it rather than block the workflow
			s.logger.Warn(ctx, "relay session backed up, dropping",
				zap.String("session_id", sess.id),
				zap.String("party", sess.party))
			s.registry.remove(sess.id)
		}
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	party := r.URL.Query().Get("party")
	switch party {
	case "trader", "broker", "custodian":
	default:
		http.Error(w, "party must be trader, broker or custodian", http.StatusBadRequest)
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		http.Error(w, "session_id is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(r.Context(), "websocket upgrade", zap.Error(err))
		return
	}

	sess := &session{
		id:    sessionID,
		party: party,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
	}
	s.registry.add(sess)
	s.logger.Info(r.Context(), "relay session connected",
		zap.String("session_id", sessionID),
		zap.String("party", party))

	go s.writePump(sess)
	go s.readPump(sess)
}

func (s *Server) writePump(sess *session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sess.send:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sess.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pings and close frames are processed.
// Relay clients are receive-only.
func (s *Server) readPump(sess *session) {
	defer s.registry.remove(sess.id)

	sess.conn.SetReadLimit(maxMessageSize)
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := sess.conn.ReadMessage(); err != nil {
			return
		}
	}
}
