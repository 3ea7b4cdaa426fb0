package transport

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"chatserver/contract"
	"chatserver/domain"
	"chatserver/runtime"
	"chatserver/services"
)

// Frame is the shape of every websocket message in either direction: an
// event name and its externalized payload.
type Frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// WebSocketSink adapts one websocket connection into an EventSink.
// gorilla/websocket allows a single concurrent writer, so writes are
// serialized by a mutex.
type WebSocketSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWebSocketSink(conn *websocket.Conn) *WebSocketSink {
	return &WebSocketSink{conn: conn}
}

func (s *WebSocketSink) Consume(e contract.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(Frame{Event: string(e.Kind), Payload: externalize(e.Payload)})
}

func externalize(payload any) any {
	switch p := payload.(type) {
	case *domain.MessageInfo:
		return p.ToExternal()
	default:
		return payload
	}
}

// Handler serves the websocket endpoint. Each accepted connection
// becomes one session in the presence directory with one SessionHandler
// driving the engine.
type Handler struct {
	log      *slog.Logger
	registry *runtime.Registry
	sessions *SessionDirectory
	upgrader websocket.Upgrader
}

func NewHandler(log *slog.Logger, registry *runtime.Registry, sessions *SessionDirectory, readBufferSize, writeBufferSize int) *Handler {
	return &Handler{
		log:      log,
		registry: registry,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
		},
	}
}

func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/ws/{user}", h.handleWebSocket).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{room}", h.handleRoomInfo).Methods(http.MethodGet)
	router.HandleFunc("/presence/{user}", h.handlePresence).Methods(http.MethodGet)
	router.HandleFunc("/transcripts/{user}", h.handleTranscriptSummaries).Methods(http.MethodGet)
	router.HandleFunc("/changes/{user}", h.handleChangeFeed).Methods(http.MethodGet)
	router.HandleFunc("/transcripts/{user}/{room}", h.handleTranscript).Methods(http.MethodGet)
	return router
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]
	if user == "" {
		http.Error(w, "missing user", http.StatusBadRequest)
		return
	}
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Info("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sess := h.sessions.Register(user, NewWebSocketSink(conn))
	handler := services.NewSessionHandler(h.registry, sess, h.log)
	defer func() {
		handler.Destroy()
		h.sessions.Unregister(sess.ID)
	}()

	h.log.Info("Session connected", "session", sess.ID, "owner", user)
	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			h.log.Info("Session disconnected", "session", sess.ID, "error", err)
			return
		}
		h.dispatch(handler, frame)
	}
}

type inboundFrame struct {
	Event    string              `json:"event"`
	Message  *inboundMessage     `json:"message,omitempty"`
	Room     *domain.RoomRequest `json:"room,omitempty"`
	RoomID   string              `json:"roomId,omitempty"`
	Flag     bool                `json:"flag,omitempty"`
	IDs      []string            `json:"ids,omitempty"`
	Users    []string            `json:"users,omitempty"`
}

type inboundMessage struct {
	ContainerID string   `json:"ContainerId"`
	Channel     string   `json:"Channel"`
	Body        any      `json:"Body"`
	Recipients  []string `json:"Recipients"`
	InReplyTo   string   `json:"inReplyTo"`
	References  []string `json:"references"`
}

func (h *Handler) dispatch(handler *services.SessionHandler, frame inboundFrame) {
	switch frame.Event {
	case "chat_postMessage":
		if frame.Message == nil {
			return
		}
		msg := domain.NewMessageInfo()
		msg.ContainerID = frame.Message.ContainerID
		msg.Channel = domain.Channel(frame.Message.Channel)
		msg.Body = frame.Message.Body
		msg.Recipients = frame.Message.Recipients
		msg.InReplyTo = frame.Message.InReplyTo
		msg.References = frame.Message.References
		handler.PostMessage(msg)
	case "chat_enterRoom":
		if frame.Room != nil {
			handler.EnterRoom(frame.Room)
		}
	case "chat_exitRoom":
		handler.ExitRoom(frame.RoomID)
	case "chat_makeModerated":
		handler.MakeModerated(frame.RoomID, frame.Flag)
	case "chat_approveMessages":
		handler.ApproveMessages(frame.IDs)
	case "chat_flagMessagesToUsers":
		handler.FlagMessagesToUsers(frame.IDs, frame.Users)
	case "chat_shadowUsers":
		handler.ShadowUsers(frame.RoomID, frame.Users)
	default:
		h.log.Debug("Ignoring unknown client event", "event", frame.Event)
	}
}
