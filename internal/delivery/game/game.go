package game

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"akinator/internal/domain/tree"
	appErrors "akinator/internal/errors"
	"akinator/internal/httpresponse"
	"akinator/internal/kbtext"
	"akinator/internal/render"
	gameuc "akinator/internal/usecase/game"
)

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

func NewGameHandler(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		log:    log,
		gameUC: gameUC,
	}
}

func (g *GameHandler) Router(r chi.Router) {
	r.Get("/tree", g.HandleTree)
	r.Get("/tree/stats", g.HandleStats)
	r.Get("/tree.dot", g.HandleDot)
	r.Get("/objects", g.HandleObjects)
	r.Get("/objects/{name}/traits", g.HandleTraits)
	r.Get("/compare", g.HandleCompare)
	r.Post("/save", g.HandleSave)
	r.Post("/reload", g.HandleReload)
	r.Get("/history", g.HandleHistory)
	r.Get("/play", g.HandlePlay)
}

type TraitsResponse struct {
	Name   string       `json:"name"`
	Traits []tree.Trait `json:"traits"`
}

type SaveResponse struct {
	ID      string     `json:"id"`
	Stats   tree.Stats `json:"stats"`
	SavedAt time.Time  `json:"saved_at"`
}

type ReloadResponse struct {
	Source string     `json:"source"`
	Status string     `json:"status"`
	Stats  tree.Stats `json:"stats"`
	Cause  string     `json:"cause,omitempty"`
}

func (g *GameHandler) HandleTree(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	err := g.gameUC.View(func(t *tree.Tree) error { return kbtext.Encode(w, t) })
	if err != nil {
		g.log.Warnw("tree export interrupted", "error", err)
	}
}

func (g *GameHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, g.gameUC.Stats())
}

func (g *GameHandler) HandleDot(w http.ResponseWriter, r *http.Request) {
	var b strings.Builder
	if err := g.gameUC.View(func(t *tree.Tree) error { return render.WriteDot(&b, t) }); err != nil {
		g.log.Errorw("dot export failed", "error", err)
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteText(w, "text/vnd.graphviz; charset=utf-8", b.String())
}

func (g *GameHandler) HandleObjects(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, g.gameUC.Objects())
}

func (g *GameHandler) HandleTraits(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	traits, err := g.gameUC.Traits(name)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	if traits == nil {
		traits = []tree.Trait{}
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, TraitsResponse{Name: name, Traits: traits})
}

func (g *GameHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
			httpresponse.ErrorResponse{ErrorDescription: "query parameters a and b are required"})
		return
	}

	cmp, err := g.gameUC.Compare(a, b)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, cmp)
}

func (g *GameHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	snapshot, err := g.gameUC.Save(r.Context())
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, SaveResponse{
		ID:      snapshot.ID,
		Stats:   snapshot.Stats,
		SavedAt: snapshot.SavedAt,
	})
}

func (g *GameHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	report, err := g.gameUC.Load(r.Context())
	if err != nil {
		g.log.Errorw("reload failed", "error", err)
		httpresponse.WriteError(w, err)
		return
	}
	resp := ReloadResponse{
		Source: report.Source,
		Status: string(report.Status),
		Stats:  report.Stats,
	}
	if report.Cause != nil {
		resp.Cause = report.Cause.Error()
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, resp)
}

const defaultHistoryLimit = 20

func (g *GameHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	limit := int64(defaultHistoryLimit)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest,
				httpresponse.ErrorResponse{ErrorDescription: "limit must be a positive number"})
			return
		}
		limit = n
	}

	infos, err := g.gameUC.History(r.Context(), limit)
	if err != nil {
		httpresponse.WriteError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, infos)
}

func (g *GameHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	asker := &wsAsker{conn: conn, log: g.log}
	result, err := g.gameUC.PlayRound(r.Context(), asker)
	switch {
	case errors.Is(err, appErrors.ErrSessionBusy):
		asker.sendError(err)
		return
	case errors.Is(err, errConnectionClosed):
		g.log.Infow("player left mid-round")
		return
	case err != nil:
		g.log.Errorw("round failed", "error", err)
		asker.sendError(err)
		return
	}
	asker.sendResult(result)
}
