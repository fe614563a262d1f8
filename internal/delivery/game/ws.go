package game

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	gameuc "akinator/internal/usecase/game"
)

const (
	kindResult = "result"
	kindError  = "error"

	writeWait = 10 * time.Second
)

var errConnectionClosed = errors.New("player connection closed")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServerMessage is everything the server pushes during a round: a prompt,
// a rejected answer, or the final result.
type ServerMessage struct {
	gameuc.Prompt
	Error  string              `json:"error,omitempty"`
	Result *gameuc.RoundResult `json:"result,omitempty"`
}

type ClientMessage struct {
	Answer string `json:"answer"`
}

// wsAsker plays the player side of a round over a websocket.
type wsAsker struct {
	conn *websocket.Conn
	log  *zap.SugaredLogger
}

func (a *wsAsker) AskYesNo(ctx context.Context, p gameuc.Prompt) (bool, error) {
	for {
		answer, err := a.ask(ctx, p)
		if err != nil {
			return false, err
		}
		if yes, ok := gameuc.ParseYesNo(answer); ok {
			return yes, nil
		}
		if err := a.sendRejected("expected yes or no"); err != nil {
			return false, err
		}
	}
}

func (a *wsAsker) AskText(ctx context.Context, p gameuc.Prompt) (string, error) {
	return a.ask(ctx, p)
}

func (a *wsAsker) ask(ctx context.Context, p gameuc.Prompt) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if err := a.send(ServerMessage{Prompt: p}); err != nil {
			return "", err
		}

		_, data, err := a.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				websocket.IsUnexpectedCloseError(err) {
				return "", errConnectionClosed
			}
			return "", err
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			a.log.Debugw("malformed answer frame", "error", err)
			if err := a.sendRejected(`expected {"answer": "..."}`); err != nil {
				return "", err
			}
			continue
		}
		return strings.TrimSpace(msg.Answer), nil
	}
}

// sendRejected tells the player the last answer was unusable; the prompt
// is sent again right after.
func (a *wsAsker) sendRejected(reason string) error {
	return a.send(ServerMessage{Prompt: gameuc.Prompt{Kind: kindError}, Error: reason})
}

func (a *wsAsker) send(msg ServerMessage) error {
	_ = a.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := a.conn.WriteJSON(msg); err != nil {
		a.log.Warnw("websocket write failed", "error", err)
		return errConnectionClosed
	}
	return nil
}

func (a *wsAsker) sendError(err error) {
	_ = a.send(ServerMessage{Prompt: gameuc.Prompt{Kind: kindError}, Error: err.Error()})
	a.close()
}

func (a *wsAsker) sendResult(result gameuc.RoundResult) {
	_ = a.send(ServerMessage{Prompt: gameuc.Prompt{Kind: kindResult}, Result: &result})
	a.close()
}

func (a *wsAsker) close() {
	_ = a.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait))
}
