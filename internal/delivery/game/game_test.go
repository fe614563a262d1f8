package game

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"akinator/internal/domain/tree"
	"akinator/internal/httpresponse"
	"akinator/internal/repository"
	gameuc "akinator/internal/usecase/game"
)

const animalBase = `( "Animal" ( "Flies" nil nil ) ( "Swims" nil nil ) )`

type fixture struct {
	server *httptest.Server
	game   *gameuc.GameUseCase
	base   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "base.txt")
	require.NoError(t, os.WriteFile(path, []byte(animalBase), 0o644))

	log := zap.NewNop().Sugar()
	game := gameuc.NewGameUseCase(repository.NewFileKnowledgeStore(path, log), log, gameuc.Options{})
	_, err := game.Load(context.Background())
	require.NoError(t, err)

	r := chi.NewRouter()
	NewGameHandler(log, game).Router(r)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &fixture{server: server, game: game, base: path}
}

func getJSON[T any](t *testing.T, url string, wantStatus int) T {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)

	var body httpresponse.Response[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, wantStatus, body.Status)
	return body.Body
}

func TestHandleTree(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/tree")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	var b bytes.Buffer
	_, err = b.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, animalBase, b.String())
}

func TestHandleStats(t *testing.T) {
	f := newFixture(t)

	stats := getJSON[tree.Stats](t, f.server.URL+"/tree/stats", http.StatusOK)
	assert.Equal(t, tree.Stats{Nodes: 3, Leaves: 2, Questions: 1, Depth: 1}, stats)
}

func TestHandleDot(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/tree.dot")
	require.NoError(t, err)
	defer resp.Body.Close()

	var b bytes.Buffer
	_, err = b.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, b.String(), "digraph")
	assert.Contains(t, b.String(), "Animal?")
}

func TestHandleObjects(t *testing.T) {
	f := newFixture(t)

	objects := getJSON[[]string](t, f.server.URL+"/objects", http.StatusOK)
	assert.Equal(t, []string{"Flies", "Swims"}, objects)
}

func TestHandleTraits(t *testing.T) {
	f := newFixture(t)

	got := getJSON[TraitsResponse](t, f.server.URL+"/objects/swims/traits", http.StatusOK)
	assert.Equal(t, []tree.Trait{{Question: "Animal", Yes: false}}, got.Traits)

	missing := getJSON[httpresponse.ErrorResponse](t, f.server.URL+"/objects/Dragon/traits", http.StatusNotFound)
	assert.Contains(t, missing.ErrorDescription, "object not known")
}

func TestHandleCompare(t *testing.T) {
	f := newFixture(t)

	cmp := getJSON[tree.Comparison](t, f.server.URL+"/compare?a=Flies&b=Swims", http.StatusOK)
	assert.Empty(t, cmp.Shared)
	assert.Equal(t, []tree.Trait{{Question: "Animal", Yes: true}}, cmp.First)
	assert.Equal(t, []tree.Trait{{Question: "Animal", Yes: false}}, cmp.Second)

	getJSON[httpresponse.ErrorResponse](t, f.server.URL+"/compare?a=Flies", http.StatusBadRequest)
	getJSON[httpresponse.ErrorResponse](t, f.server.URL+"/compare?a=Flies&b="+url.QueryEscape("Drag on"), http.StatusNotFound)
}

func TestHandleSaveAndReload(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.base, []byte(`( "Rock" nil nil )`), 0o644))

	resp, err := http.Post(f.server.URL+"/reload", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Rock"}, f.game.Objects())

	resp, err = http.Post(f.server.URL+"/save", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body httpresponse.Response[SaveResponse]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotEmpty(t, body.Body.ID)
	assert.Equal(t, 1, body.Body.Stats.Leaves)
}

func TestHandleHistory_FileStorage(t *testing.T) {
	f := newFixture(t)

	getJSON[httpresponse.ErrorResponse](t, f.server.URL+"/history?limit=x", http.StatusBadRequest)
	resp := getJSON[httpresponse.ErrorResponse](t, f.server.URL+"/history", http.StatusNotImplemented)
	assert.Contains(t, resp.ErrorDescription, "not supported")
}

func dialPlay(t *testing.T, f *fixture) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/play"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	var msg ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func answer(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ClientMessage{Answer: text}))
}

func TestHandlePlay_Learns(t *testing.T) {
	f := newFixture(t)
	conn := dialPlay(t, f)

	msg := readMessage(t, conn)
	assert.Equal(t, gameuc.PromptQuestion, msg.Kind)
	assert.Equal(t, "Animal", msg.Text)
	answer(t, conn, "yes")

	msg = readMessage(t, conn)
	assert.Equal(t, gameuc.PromptGuess, msg.Kind)
	assert.Equal(t, "Flies", msg.Guess)
	answer(t, conn, "perhaps")
	msg = readMessage(t, conn)
	assert.Equal(t, gameuc.PromptKind(kindError), msg.Kind)
	msg = readMessage(t, conn)
	assert.Equal(t, gameuc.PromptGuess, msg.Kind)
	answer(t, conn, "no")

	assert.Equal(t, gameuc.PromptTeach, readMessage(t, conn).Kind)
	answer(t, conn, "да")
	assert.Equal(t, gameuc.PromptObject, readMessage(t, conn).Kind)
	answer(t, conn, "Bird")
	assert.Equal(t, gameuc.PromptDistinction, readMessage(t, conn).Kind)
	answer(t, conn, "Has feathers")
	assert.Equal(t, gameuc.PromptAnswerForNew, readMessage(t, conn).Kind)
	answer(t, conn, "y")

	msg = readMessage(t, conn)
	require.Equal(t, gameuc.PromptKind(kindResult), msg.Kind)
	require.NotNil(t, msg.Result)
	assert.Equal(t, gameuc.OutcomeLearned, msg.Result.Outcome)
	assert.Equal(t,
		`( "Animal" ( "Has feathers" ( "Bird" nil nil ) ( "Flies" nil nil ) ) ( "Swims" nil nil ) )`,
		f.game.Text())
}

func TestHandlePlay_MalformedFrameReprompts(t *testing.T) {
	f := newFixture(t)
	conn := dialPlay(t, f)

	assert.Equal(t, gameuc.PromptQuestion, readMessage(t, conn).Kind)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("yes")))

	msg := readMessage(t, conn)
	assert.Equal(t, gameuc.PromptKind(kindError), msg.Kind)
	assert.NotEmpty(t, msg.Error)

	msg = readMessage(t, conn)
	assert.Equal(t, gameuc.PromptQuestion, msg.Kind)
	assert.Equal(t, "Animal", msg.Text)
	answer(t, conn, "yes")

	assert.Equal(t, gameuc.PromptGuess, readMessage(t, conn).Kind)
	answer(t, conn, "yes")

	msg = readMessage(t, conn)
	require.NotNil(t, msg.Result)
	assert.Equal(t, gameuc.OutcomeGuessed, msg.Result.Outcome)
}

func TestHandlePlay_SecondRoundRefused(t *testing.T) {
	f := newFixture(t)

	first := dialPlay(t, f)
	assert.Equal(t, gameuc.PromptQuestion, readMessage(t, first).Kind)

	second := dialPlay(t, f)
	msg := readMessage(t, second)
	assert.Equal(t, gameuc.PromptKind(kindError), msg.Kind)
	assert.Contains(t, msg.Error, "another round is in progress")

	answer(t, first, "n")
	assert.Equal(t, gameuc.PromptGuess, readMessage(t, first).Kind)
	answer(t, first, "y")
	msg = readMessage(t, first)
	require.NotNil(t, msg.Result)
	assert.Equal(t, gameuc.OutcomeGuessed, msg.Result.Outcome)
}

func TestHandlePlay_DisconnectLeavesTreeIntact(t *testing.T) {
	f := newFixture(t)
	conn := dialPlay(t, f)

	readMessage(t, conn)
	answer(t, conn, "y")
	readMessage(t, conn)
	answer(t, conn, "n")
	readMessage(t, conn)
	require.NoError(t, conn.Close())

	// the next round can only start once the aborted one released the session
	require.Eventually(t, func() bool {
		c, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(f.server.URL, "http")+"/play", nil)
		if err != nil {
			return false
		}
		defer c.Close()
		var msg ServerMessage
		return c.ReadJSON(&msg) == nil && msg.Kind == gameuc.PromptQuestion
	}, 2*time.Second, 20*time.Millisecond)
	assert.Equal(t, animalBase, f.game.Text())
}
