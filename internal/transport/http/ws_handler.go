package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"archetype-quiz-service/internal/app"
	"archetype-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service     *app.QuizService
	defaultQuiz string
	upgrader    websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, defaultQuiz string) *WSHandler {
	return &WSHandler{
		service:     service,
		defaultQuiz: defaultQuiz,
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

type gotoPayload struct {
	Index      int    `json:"index"`
	QuestionID string `json:"questionId"`
}

type optionsRequest struct {
	QuestionID string `json:"questionId"`
}

type sessionPayload struct {
	SessionID  string            `json:"sessionId"`
	Definition domain.Definition `json:"definition"`
	State      app.State         `json:"state"`
}

type resultsPayload struct {
	Complete     bool             `json:"complete"`
	Undetermined bool             `json:"undetermined"`
	Results      []app.ResultView `json:"results"`
	ShareText    string           `json:"shareText"`
}

type optionsPayload struct {
	QuestionID string          `json:"questionId"`
	Options    []domain.Option `json:"options"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one answer sheet per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		quizID = h.defaultQuiz
	}
	if quizID == "" {
		http.Error(w, "missing quizId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	sessionID := uuid.NewString()
	state, err := h.service.Start(ctx, sessionID, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(ctx, sessionID)

	def, err := h.service.Definition(ctx, quizID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	// A single writer goroutine keeps writes to the connection serialized.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "session", Payload: sessionPayload{
		SessionID:  sessionID,
		Definition: def,
		State:      state,
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if !deliver(send, writerDone, h.handle(ctx, sessionID, def, inbound)) {
			break
		}
	}

	close(send)
	<-writerDone
}

// deliver queues msgs for the writer goroutine. It reports false once the
// writer has stopped, so the read loop does not block on a dead connection.
func deliver(send chan<- outboundMessage[any], writerDone <-chan struct{}, msgs []outboundMessage[any]) bool {
	for _, msg := range msgs {
		select {
		case send <- msg:
		case <-writerDone:
			return false
		}
	}
	return true
}

func (h *WSHandler) handle(ctx context.Context, sessionID string, def domain.Definition, inbound inboundMessage) []outboundMessage[any] {
	fail := func(msg string) []outboundMessage[any] {
		return []outboundMessage[any]{{Type: "error", Payload: errorPayload{Message: msg}}}
	}
	stateMsg := func(state app.State, err error) []outboundMessage[any] {
		if err != nil {
			return fail(err.Error())
		}
		out := []outboundMessage[any]{{Type: "state", Payload: state}}
		if state.Complete {
			out = append(out, resultsMessage(def, state.Results, true))
		}
		return out
	}

	switch inbound.Type {
	case "start":
		return stateMsg(h.service.Start(ctx, sessionID, def.ID))
	case "answer":
		var answer domain.Answer
		if err := json.Unmarshal(inbound.Payload, &answer); err != nil {
			return fail("invalid answer payload")
		}
		// The value is decoded by its type tag, so the tag is required on the wire.
		if answer.Type == "" {
			return fail("answer type required")
		}
		state, err := h.service.SetAnswer(ctx, sessionID, answer)
		if err != nil {
			return fail(err.Error())
		}
		return []outboundMessage[any]{{Type: "state", Payload: state}}
	case "next":
		return stateMsg(h.service.Next(ctx, sessionID))
	case "previous":
		return stateMsg(h.service.Previous(ctx, sessionID))
	case "goto":
		var payload gotoPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return fail("invalid goto payload")
		}
		if payload.QuestionID != "" {
			return stateMsg(h.service.GoToQuestion(ctx, sessionID, payload.QuestionID))
		}
		return stateMsg(h.service.GoTo(ctx, sessionID, payload.Index))
	case "preview":
		results, err := h.service.Preview(ctx, sessionID)
		if err != nil {
			return fail(err.Error())
		}
		return []outboundMessage[any]{resultsMessage(def, results, false)}
	case "complete":
		return stateMsg(h.service.Complete(ctx, sessionID))
	case "reset":
		return stateMsg(h.service.Reset(ctx, sessionID))
	case "options":
		var payload optionsRequest
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return fail("invalid options payload")
		}
		options, err := h.service.DisplayOptions(ctx, sessionID, payload.QuestionID)
		if err != nil {
			return fail(err.Error())
		}
		return []outboundMessage[any]{{Type: "options", Payload: optionsPayload{QuestionID: payload.QuestionID, Options: options}}}
	default:
		return fail("unsupported message type")
	}
}

func resultsMessage(def domain.Definition, results []domain.Result, complete bool) outboundMessage[any] {
	return outboundMessage[any]{Type: "results", Payload: resultsPayload{
		Complete:     complete,
		Undetermined: len(results) == 0,
		Results:      app.Views(def, results),
		ShareText:    app.ShareText(def, results),
	}}
}
