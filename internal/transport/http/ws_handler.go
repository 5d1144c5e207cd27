package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kristenlee3553/my-trivia/internal/app"
	"github.com/kristenlee3553/my-trivia/internal/domain"
)

// WSHandler exposes the lobby use cases over a websocket. Hosts connect with
// a gameId to create a lobby; players connect with a lobbyCode to join one.
type WSHandler struct {
	service  *app.LobbyService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.LobbyService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer    json.RawMessage `json:"answer"`
	TimeTaken int64           `json:"timeTaken"`
}

type overridePayload struct {
	UID         string   `json:"uid"`
	Accuracy    *float64 `json:"accuracy,omitempty"`
	ManualScore *int     `json:"manualScore,omitempty"`
	BasePoints  int      `json:"basePoints,omitempty"`
}

type answerResult struct {
	Accuracy    float64 `json:"accuracy"`
	ScoreEarned int     `json:"scoreEarned"`
}

type createdPayload struct {
	LobbyCode string `json:"lobbyCode"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the lobby
// use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	lobbyCode := r.URL.Query().Get("lobbyCode")
	userID := r.URL.Query().Get("userId")
	nickname := r.URL.Query().Get("name")
	avatar := r.URL.Query().Get("avatar")

	isHost := gameID != ""
	if userID == "" || (!isHost && (lobbyCode == "" || nickname == "")) {
		http.Error(w, "missing gameId or lobbyCode, userId, name", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sendError := func(msg string) {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: msg}})
	}

	var welcome outboundMessage[any]
	if isHost {
		opts := domain.GameOptions{
			ShuffleQuestions: r.URL.Query().Get("shuffleQuestions") == "true",
			ShuffleAnswers:   r.URL.Query().Get("shuffleAnswers") == "true",
		}
		session, err := h.service.CreateLobby(r.Context(), userID, gameID, opts)
		if err != nil {
			sendError(err.Error())
			return
		}
		lobbyCode = session.Code()
		welcome = outboundMessage[any]{Type: "created", Payload: createdPayload{LobbyCode: lobbyCode}}
	} else {
		update, err := h.service.Join(r.Context(), lobbyCode, userID, nickname, avatar)
		if err != nil {
			sendError(err.Error())
			return
		}
		welcome = outboundMessage[any]{Type: "joined", Payload: update}
		defer h.service.Leave(r.Context(), lobbyCode, userID)
	}

	updates, cancel, err := h.service.Subscribe(r.Context(), lobbyCode)
	if err != nil {
		sendError(err.Error())
		return
	}
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine so lobby broadcasts and reply messages never
	// write to the connection concurrently.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "lobby", Payload: update}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- welcome

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			answerType, err := h.service.CurrentAnswerType(r.Context(), lobbyCode)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			answer, err := domain.DecodeAnswer(answerType, payload.Answer)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			recorded, err := h.service.SubmitAnswer(r.Context(), lobbyCode, userID, answer, payload.TimeTaken)
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
				Accuracy:    recorded.Accuracy,
				ScoreEarned: recorded.ScoreEarned,
			}}
		case "next":
			if _, err := h.service.Advance(r.Context(), lobbyCode, userID); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			}
		case "override":
			var payload overridePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid override payload"}}
				continue
			}
			updated, err := h.service.OverrideAnswer(r.Context(), lobbyCode, userID, payload.UID, app.AnswerOverride{
				Accuracy:    payload.Accuracy,
				ManualScore: payload.ManualScore,
				BasePoints:  payload.BasePoints,
			})
			if err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				continue
			}
			send <- outboundMessage[any]{Type: "answerResult", Payload: answerResult{
				Accuracy:    updated.Accuracy,
				ScoreEarned: updated.ScoreEarned,
			}}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
