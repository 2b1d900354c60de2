package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawnchairsociety/hexforge/internal/antispam"
	"github.com/lawnchairsociety/hexforge/internal/hexgrid"
	"github.com/lawnchairsociety/hexforge/internal/logger"
	"github.com/lawnchairsociety/hexforge/internal/overlay"
)

// Reply is one websocket response message.
type Reply struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Error   string `json:"error,omitempty"`
	// RetryAfter is set in seconds when a command was throttled.
	RetryAfter int `json:"retry_after,omitempty"`
	Data       any `json:"data,omitempty"`
}

// handleWebSocketUpgrade upgrades an HTTP connection to WebSocket.
func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	release, err := s.sessions.Acquire(ip)
	if err != nil {
		logger.Warning("WebSocket connection rejected",
			"remote_addr", r.RemoteAddr,
			"client_ip", ip,
			"error", err)
		http.Error(w, "Too many connections. Please try again later.", http.StatusTooManyRequests)
		return
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warning("WebSocket upgrade failed", "client_ip", ip, "error", err)
		release()
		return
	}

	// Server timeouts apply to HTTP requests, not to the session
	wsConn.SetReadDeadline(time.Time{})
	wsConn.SetWriteDeadline(time.Time{})

	go func() {
		defer release()
		s.handleSession(NewWebSocketClient(wsConn, s.cfg.WebSocket.MaxMessageSize))
	}()
}

// handleSession reads commands until the client quits or disconnects.
func (s *Server) handleSession(client Client) {
	s.mu.Lock()
	s.clients[client] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, client)
		s.mu.Unlock()
		client.Close()
		logger.Info("Client disconnected", "remote_addr", client.RemoteAddr())
	}()

	logger.Info("Client connected", "remote_addr", client.RemoteAddr())
	if err := client.WriteJSON(Reply{Type: "welcome", Data: s.help.General()}); err != nil {
		return
	}

	tracker := antispam.NewTracker(s.cfg.Throttle)

	for {
		line, err := client.ReadLine()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("Session read ended", "remote_addr", client.RemoteAddr(), "error", err)
			}
			return
		}

		reply, quit := s.throttled(tracker, line)
		if err := client.WriteJSON(reply); err != nil {
			logger.Debug("Session write failed", "remote_addr", client.RemoteAddr(), "error", err)
			return
		}
		if quit {
			return
		}
	}
}

// throttled runs a command line unless the session is over its command
// budget. quit always goes through.
func (s *Server) throttled(tracker *antispam.Tracker, line string) (Reply, bool) {
	fields := strings.Fields(line)
	if len(fields) > 0 {
		cmd := strings.ToLower(fields[0])
		if cmd != "quit" && cmd != "exit" {
			if res := tracker.Check(cmd == "map"); !res.Allowed {
				logger.Debug("Command throttled", "command", cmd, "wait_seconds", res.WaitSeconds)
				return Reply{Type: "error", Command: cmd, Error: res.Reason, RetryAfter: res.WaitSeconds}, false
			}
		}
	}
	return s.dispatch(line)
}

// dispatch runs one command line. quit is true when the session should end.
func (s *Server) dispatch(line string) (reply Reply, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Reply{Type: "error", Error: "empty command"}, false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	reply = Reply{Type: "result", Command: cmd}

	switch cmd {
	case "hex":
		if len(args) == 0 {
			return errorReply(cmd, "usage: hex <code> [terrain]"), false
		}
		resp, err := s.generateHex(args[0], strings.Join(args[1:], " "))
		if errors.Is(err, hexgrid.ErrInvalidHexCode) {
			return errorReply(cmd, err.Error()), false
		}
		if err != nil {
			logger.Error("Hex generation failed", "hex", args[0], "error", err)
			return errorReply(cmd, "hex generation failed"), false
		}
		reply.Data = resp

	case "city":
		if len(args) == 0 {
			return errorReply(cmd, "usage: city <name>"), false
		}
		name := strings.Join(args, " ")
		o, err := s.gen.GenerateCityOverlay(name)
		if errors.Is(err, overlay.ErrUnknownOverlay) {
			return errorReply(cmd, err.Error()), false
		}
		if err != nil {
			logger.Error("Overlay generation failed", "city", name, "error", err)
			return errorReply(cmd, "overlay generation failed"), false
		}
		reply.Data = o

	case "cities":
		reply.Data = s.gen.Cities()

	case "map":
		opts := overlay.MapOptions{Bounds: s.gen.Bounds()}
		if len(args) > 0 {
			if len(args) != 2 {
				return errorReply(cmd, "usage: map [cols rows]"), false
			}
			cols, errCols := strconv.Atoi(args[0])
			rows, errRows := strconv.Atoi(args[1])
			if errCols != nil || errRows != nil {
				return errorReply(cmd, "usage: map [cols rows]"), false
			}
			opts.Bounds = hexgrid.Bounds{Cols: cols, Rows: rows}
		}
		if err := opts.Bounds.Validate(); err != nil {
			return errorReply(cmd, err.Error()), false
		}
		reply.Data = s.generateMap(opts)

	case "help":
		reply.Data = s.help.Text(strings.Join(args, " "))

	case "quit", "exit":
		return Reply{Type: "goodbye", Command: cmd}, true

	default:
		return errorReply(cmd, "unknown command, try help"), false
	}
	return reply, false
}

func errorReply(cmd, msg string) Reply {
	return Reply{Type: "error", Command: cmd, Error: msg}
}
