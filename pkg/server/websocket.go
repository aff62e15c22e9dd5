package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/lfnd/pkg/dispatch"
	"github.com/vango-dev/lfnd/pkg/navigator"
	"github.com/vango-dev/lfnd/pkg/qntree"
)

// Command types accepted on the navigation channel.
const (
	CommandNavigate = "navigate"
	CommandDispatch = "dispatch"
	CommandBack     = "back"
	CommandForward  = "forward"
)

// Command is a client frame on the navigation channel.
type Command struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
}

// Reply is the server frame sent for each Command.
type Reply struct {
	Type        string        `json:"type"`
	Path        string        `json:"path,omitempty"`
	Outcome     string        `json:"outcome,omitempty"`
	Status      int           `json:"status,omitempty"`
	ContentType string        `json:"contentType,omitempty"`
	Body        string        `json:"body,omitempty"`
	Location    string        `json:"location,omitempty"`
	Params      qntree.Params `json:"params,omitempty"`
	Error       string        `json:"error,omitempty"`
}

func replyFor(typ string, out dispatch.Outcome) Reply {
	return Reply{
		Type:        typ,
		Path:        out.Path,
		Outcome:     out.Kind.String(),
		Status:      out.Response.Status,
		ContentType: out.Response.ContentType,
		Body:        out.Response.Body,
		Location:    out.Response.Location,
		Params:      out.Params,
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		s.recordError("upgrade")
		return
	}
	defer conn.Close()

	conn.SetReadLimit(s.config.MaxMessageSize)

	start := r.URL.Query().Get("start")
	if start == "" {
		start = "/"
	}
	nav := navigator.New(s.router, start)

	if s.config.Recorder != nil {
		s.config.Recorder.NavigatorOpened()
		defer s.config.Recorder.NavigatorClosed()
	}

	ctx := r.Context()
	log := s.logger.With("remote", r.RemoteAddr)
	log.Debug("navigator opened", "start", nav.Current())

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("navigation channel read failed", "error", err)
				s.recordError("read")
			}
			return
		}

		var cmd Command
		var reply Reply
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.recordError("decode")
			reply = Reply{Type: "error", Error: "invalid command: " + err.Error()}
		} else {
			reply = s.execute(ctx, nav, cmd)
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("navigation channel write failed", "error", err)
			s.recordError("write")
			return
		}
	}
}

func (s *Server) execute(ctx context.Context, nav *navigator.Navigator, cmd Command) Reply {
	var (
		out dispatch.Outcome
		ok  = true
	)

	switch cmd.Type {
	case CommandNavigate:
		out = nav.Location(ctx, cmd.Path)
	case CommandDispatch:
		out = nav.Dispatch(ctx, cmd.Path)
	case CommandBack:
		out, ok = nav.Back(ctx)
	case CommandForward:
		out, ok = nav.Forward(ctx)
	default:
		s.recordError("command")
		return Reply{Type: cmd.Type, Error: "unknown command type " + strconv.Quote(cmd.Type)}
	}

	if s.config.Recorder != nil {
		s.config.Recorder.Navigation(cmd.Type)
	}
	if !ok {
		return Reply{Type: cmd.Type, Path: nav.Current(), Error: "no " + cmd.Type + " entry"}
	}
	return replyFor(cmd.Type, out)
}

func (s *Server) recordError(kind string) {
	if s.config.Recorder != nil {
		s.config.Recorder.NavigatorError(kind)
	}
}
