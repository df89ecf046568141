package ws

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"

	"github.com/antipattern-game/backend/internal/game"
)

// Server wires Socket.IO events to the room registry. It keeps its own
// members map (room code -> socket id -> conn) so it can emit to everyone in
// a room except the acting connection, which Socket.IO rooms alone don't do.
type Server struct {
	registry *game.RoomRegistry

	membersMu sync.RWMutex
	members   map[string]map[string]socketio.Conn
}

func New(registry *game.RoomRegistry) *Server {
	return &Server{
		registry: registry,
		members:  make(map[string]map[string]socketio.Conn),
	}
}

type movePayload struct {
	RoomCode string `json:"roomCode"`
	Move     string `json:"move"`
}

// Mount attaches the Socket.IO server with all game handlers to the given
// Gin engine and starts serving it.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "createRoom", func(s socketio.Conn) {
		code, sess := srv.registry.CreateRoom(s.ID())
		s.Join(code)
		srv.addMember(code, s)
		log.Info().Str("sid", s.ID()).Str("code", code).Str("sessionId", sess.ID).Msg("room created")

		s.Emit("roomCreated", map[string]any{
			"roomCode":     code,
			"playerNumber": 1,
			"gameState":    sess.Snapshot(),
		})
	})

	io.OnEvent("/", "joinRoom", func(s socketio.Conn, roomCode string) {
		seat, sess, err := srv.registry.JoinRoom(roomCode, s.ID())
		if err != nil {
			s.Emit("joinError", reason(err))
			return
		}
		s.Join(roomCode)
		srv.addMember(roomCode, s)
		log.Info().Str("sid", s.ID()).Str("code", roomCode).Int("seat", seat).Msg("player joined")

		s.Emit("roomJoined", map[string]any{
			"roomCode":     roomCode,
			"playerNumber": seat,
			"gameState":    sess.Snapshot(),
		})
		srv.emitToOthers(roomCode, s.ID(), "playerJoined", map[string]any{
			"gameState": sess.Snapshot(),
		})
	})

	io.OnEvent("/", "makeMove", func(s socketio.Conn, payload movePayload) {
		sess, err := srv.registry.ApplyMove(payload.RoomCode, game.Symbol(payload.Move))
		if err != nil {
			s.Emit("moveError", reason(err))
			return
		}
		log.Info().Str("code", payload.RoomCode).Str("move", payload.Move).Msg("move made")

		io.BroadcastToRoom("/", payload.RoomCode, "gameUpdate", map[string]any{
			"gameState": sess.Snapshot(),
			"lastMove":  payload.Move,
		})
	})

	io.OnEvent("/", "resetGame", func(s socketio.Conn, roomCode string) {
		sess, err := srv.registry.ResetRoom(roomCode)
		if err != nil {
			s.Emit("resetError", reason(err))
			return
		}
		log.Info().Str("code", roomCode).Msg("game reset")

		io.BroadcastToRoom("/", roomCode, "gameReset", map[string]any{
			"gameState": sess.Snapshot(),
		})
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})

	io.OnDisconnect("/", func(s socketio.Conn, why string) {
		for _, dep := range srv.registry.Disconnect(s.ID()) {
			srv.removeMember(dep.Code, s)
			if dep.Session == nil {
				srv.dropRoom(dep.Code)
				log.Info().Str("code", dep.Code).Msg("room deleted, no players remaining")
				continue
			}
			srv.emitToOthers(dep.Code, s.ID(), "playerDisconnected", map[string]any{
				"gameState": dep.Session.Snapshot(),
			})
		}
		log.Info().Str("sid", s.ID()).Str("reason", why).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.membersMu.Lock()
	defer srv.membersMu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.membersMu.Lock()
	defer srv.membersMu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
	}
}

func (srv *Server) dropRoom(code string) {
	srv.membersMu.Lock()
	defer srv.membersMu.Unlock()
	delete(srv.members, code)
}

func (srv *Server) emitToOthers(code, senderID, event string, payload map[string]any) {
	srv.membersMu.RLock()
	defer srv.membersMu.RUnlock()
	for id, c := range srv.members[code] {
		if id == senderID {
			continue
		}
		c.Emit(event, payload)
	}
}

// reason maps a registry/session error to the message shown to the client.
func reason(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		return "Room not found"
	case errors.Is(err, game.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, game.ErrWaitingForOpponent):
		return "Waiting for second player"
	case errors.Is(err, game.ErrInvalidSymbol):
		return "Invalid move"
	case errors.Is(err, game.ErrGameOver):
		return "Game is over"
	default:
		return err.Error()
	}
}
