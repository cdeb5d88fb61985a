package socket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/DedS3t/monopoly-engine/pkg"
	"github.com/DedS3t/monopoly-engine/platform/config"
	"github.com/DedS3t/monopoly-engine/platform/lobby"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

// Names resolves the display name of a user.
type Names func(userID string) string

// request is the payload every game event carries.
type request struct {
	GameID     string        `json:"game_id"`
	Token      string        `json:"token"`
	Name       string        `json:"name"`
	Args       []interface{} `json:"args"`
	Difficulty string        `json:"difficulty"`
}

type server struct {
	io     *socketio.Server
	lobby  *lobby.Lobby
	names  Names
	secret []byte
	log    *logrus.Entry
}

// CreateSocketIOServer serves the realtime API on cfg.SocketAddr until it fails.
func CreateSocketIOServer(cfg config.Config, l *lobby.Lobby, names Names) error {
	io, err := socketio.NewServer(nil)
	if err != nil {
		return err
	}
	srv := &server{io: io, lobby: l, names: names, secret: []byte(cfg.JWTSecret), log: logrus.WithField("component", "socket")}
	srv.register()
	l.OnState(srv.broadcast)

	go io.Serve()
	defer io.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", io)
	srv.log.WithField("addr", cfg.SocketAddr).Info("socket.io listening")
	return http.ListenAndServe(cfg.SocketAddr, c.Handler(mux))
}

func (srv *server) register() {
	srv.io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	srv.io.OnEvent("/", "join-game", srv.withUser(func(s socketio.Conn, userID string, req request) {
		seat, err := srv.lobby.Join(req.GameID, userID, srv.names(userID))
		if err != nil {
			srv.fail(s, err)
			return
		}
		srv.io.BroadcastToRoom("/", req.GameID, "player-join", seat.Username)
		s.Join(req.GameID)
		s.SetContext(userID)
		s.Emit("joined-game", strconv.Itoa(srv.io.RoomLen("/", req.GameID)))
		srv.log.WithFields(logrus.Fields{"game": req.GameID, "player": userID}).Info("joined room")
	}))

	srv.io.OnEvent("/", "add-bot", srv.withUser(func(s socketio.Conn, userID string, req request) {
		seat, err := srv.lobby.AddBot(req.GameID, models.Difficulty(req.Difficulty))
		if err != nil {
			srv.fail(s, err)
			return
		}
		srv.io.BroadcastToRoom("/", req.GameID, "player-join", seat.Username)
	}))

	srv.io.OnEvent("/", "leave-game", srv.withUser(func(s socketio.Conn, userID string, req request) {
		s.Leave(req.GameID)
		if err := srv.lobby.Leave(req.GameID, userID); err != nil {
			srv.log.WithError(err).WithField("game", req.GameID).Warn("leave failed")
		}
		srv.io.BroadcastToRoom("/", req.GameID, "player-left", userID)
	}))

	srv.io.OnEvent("/", "start-game", srv.withUser(func(s socketio.Conn, userID string, req request) {
		state, err := srv.lobby.Start(context.Background(), req.GameID, userID)
		if err != nil {
			s.Emit("error-message", "Unable to start game")
			srv.log.WithError(err).WithField("game", req.GameID).Warn("start failed")
			return
		}
		srv.emitTo(req.GameID, "game-start", state)
	}))

	srv.io.OnEvent("/", "command", srv.withUser(func(s socketio.Conn, userID string, req request) {
		if _, err := srv.lobby.Submit(req.GameID, userID, req.Name, req.Args...); err != nil {
			srv.fail(s, err)
		}
	}))

	srv.io.OnEvent("/", "resume", srv.withUser(func(s socketio.Conn, userID string, req request) {
		state, err := srv.lobby.Resume(userID)
		if err != nil {
			srv.fail(s, err)
			return
		}
		s.Join(state.ID)
		s.SetContext(userID)
		if data, err := json.Marshal(state); err == nil {
			s.Emit("game-state", string(data))
		}
	}))

	srv.io.OnError("/", func(s socketio.Conn, e error) {
		srv.log.WithError(e).Warn("socket error")
	})

	srv.io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		userID, _ := s.Context().(string)
		for _, room := range s.Rooms() {
			srv.io.BroadcastToRoom("/", room, "player-left", userID)
		}
		s.LeaveAll()
	})
}

// withUser decodes the payload and authenticates its token before calling fn.
func (srv *server) withUser(fn func(s socketio.Conn, userID string, req request)) func(socketio.Conn, string) {
	return func(s socketio.Conn, payload string) {
		var req request
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			s.Emit("error-message", "Malformed request")
			return
		}
		userID, err := pkg.ParseToken(req.Token, srv.secret)
		if err != nil {
			s.Emit("error-message", "User not authenticated")
			s.Emit("failed")
			return
		}
		fn(s, userID, req)
	}
}

func (srv *server) fail(s socketio.Conn, err error) {
	switch {
	case errors.Is(err, lobby.ErrInvalidGame):
		s.Emit("error-message", "Invalid game")
		s.Emit("failed")
	case errors.Is(err, lobby.ErrNoSession):
		s.Emit("error-message", "Game is not running")
	default:
		s.Emit("error-message", err.Error())
	}
}

func (srv *server) emitTo(room, event string, state *models.GameState) {
	data, err := json.Marshal(state)
	if err != nil {
		srv.log.WithError(err).Error("encoding state failed")
		return
	}
	srv.io.BroadcastToRoom("/", room, event, string(data))
}

// broadcast pushes every accepted state to the game's room.
func (srv *server) broadcast(state *models.GameState) {
	srv.emitTo(state.ID, "game-state", state)
	if state.Phase == models.PhaseGameOver {
		srv.io.BroadcastToRoom("/", state.ID, "game-over", state.WinnerID)
	}
}
