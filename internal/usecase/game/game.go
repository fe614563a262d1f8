package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"akinator/internal/domain/kb"
	"akinator/internal/domain/tree"
	appErrors "akinator/internal/errors"
	"akinator/internal/kbtext"
)

type KnowledgeStore interface {
	Load(ctx context.Context) (kb.Snapshot, error)
	Save(ctx context.Context, snapshot kb.Snapshot) error
	Describe() string
}

// SnapshotHistory is implemented by stores that keep every save.
type SnapshotHistory interface {
	History(ctx context.Context, limit int64) ([]kb.SnapshotInfo, error)
}

type LoadStatus string

const (
	LoadStatusLoaded    LoadStatus = "loaded"
	LoadStatusSeeded    LoadStatus = "seeded"
	LoadStatusRecovered LoadStatus = "recovered"
)

// LoadReport says where the current tree came from. Cause is set when a
// corrupt base was replaced by a fresh tree.
type LoadReport struct {
	Source string
	Status LoadStatus
	Stats  tree.Stats
	Cause  error
}

type Options struct {
	// RecoverCorrupt replaces an unreadable base with a fresh tree instead
	// of failing the load.
	RecoverCorrupt bool
	// Seed makes a missing base start from a small seed tree rather than
	// a single leaf.
	Seed bool
}

type GameUseCase struct {
	store KnowledgeStore
	log   *zap.SugaredLogger
	opts  Options

	// session is held for a whole round or reload
	session sync.Mutex

	mu    sync.RWMutex
	tree  *tree.Tree
	dirty bool
}

func NewGameUseCase(store KnowledgeStore, log *zap.SugaredLogger, opts Options) *GameUseCase {
	return &GameUseCase{
		store: store,
		log:   log,
		opts:  opts,
		tree:  tree.New(tree.DefaultRootLabel),
	}
}

// SeedTree is the tree a first run starts with.
func SeedTree() *tree.Tree {
	root := tree.NewQuestion("Это животное",
		tree.NewQuestion("Оно мяукает", tree.NewLeaf("Кошка"), tree.NewLeaf("Собака")),
		tree.NewLeaf("Компьютер"),
	)
	t, err := tree.FromRoot(root)
	if err != nil {
		panic(err)
	}
	return t
}

// Load replaces the in-memory tree with the stored one.
func (g *GameUseCase) Load(ctx context.Context) (LoadReport, error) {
	if !g.session.TryLock() {
		return LoadReport{}, appErrors.ErrSessionBusy
	}
	defer g.session.Unlock()

	report := LoadReport{Source: g.store.Describe()}

	snapshot, err := g.store.Load(ctx)
	switch {
	case errors.Is(err, appErrors.ErrBaseNotFound):
		report.Status = LoadStatusSeeded
		g.replace(g.freshTree(), true)
		g.log.Infow("knowledge base not found, starting fresh", "source", report.Source, "seed", g.opts.Seed)

	case err != nil && !errors.Is(err, appErrors.ErrCorruptKnowledgeBase):
		return LoadReport{}, fmt.Errorf("load knowledge base from %s: %w", report.Source, err)

	default:
		var loaded *tree.Tree
		if err == nil {
			loaded, err = kbtext.Unmarshal(snapshot.Text)
		}
		if err != nil {
			if !g.opts.RecoverCorrupt {
				g.log.Errorw("knowledge base is corrupt", "source", report.Source, "error", err)
				return LoadReport{}, fmt.Errorf("load knowledge base from %s: %w", report.Source, err)
			}
			g.log.Warnw("knowledge base is corrupt, replaced with a fresh tree", "source", report.Source, "error", err)
			report.Status = LoadStatusRecovered
			report.Cause = err
			g.replace(tree.New(tree.DefaultRootLabel), true)
			break
		}
		report.Status = LoadStatusLoaded
		g.replace(loaded, false)
	}

	report.Stats = g.Stats()
	g.log.Infow("knowledge base ready",
		"source", report.Source,
		"status", report.Status,
		"nodes", report.Stats.Nodes,
		"objects", report.Stats.Leaves,
	)
	return report, nil
}

func (g *GameUseCase) freshTree() *tree.Tree {
	if g.opts.Seed {
		return SeedTree()
	}
	return tree.New(tree.DefaultRootLabel)
}

func (g *GameUseCase) replace(t *tree.Tree, dirty bool) {
	g.mu.Lock()
	old := g.tree
	g.tree = t
	g.dirty = dirty
	g.mu.Unlock()

	if old != nil {
		old.Release(nil)
	}
}

// Save persists the current tree. On failure the in-memory tree is left
// as it was and stays playable.
func (g *GameUseCase) Save(ctx context.Context) (kb.Snapshot, error) {
	g.mu.RLock()
	snapshot := kb.Snapshot{
		ID:      uuid.NewString(),
		Text:    kbtext.Marshal(g.tree),
		Stats:   g.tree.Stats(),
		SavedAt: time.Now().UTC(),
	}
	g.mu.RUnlock()

	if err := g.store.Save(ctx, snapshot); err != nil {
		g.log.Errorw("failed to save knowledge base", "target", g.store.Describe(), "error", err)
		return kb.Snapshot{}, fmt.Errorf("save knowledge base to %s: %w", g.store.Describe(), err)
	}

	g.mu.Lock()
	g.dirty = false
	g.mu.Unlock()
	return snapshot, nil
}

// Dirty reports unsaved changes.
func (g *GameUseCase) Dirty() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dirty
}

func (g *GameUseCase) Stats() tree.Stats {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tree.Stats()
}

// Text is the serialized knowledge base.
func (g *GameUseCase) Text() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return kbtext.Marshal(g.tree)
}

// View runs fn with read access to the tree. fn must not keep references.
func (g *GameUseCase) View(fn func(t *tree.Tree) error) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return fn(g.tree)
}

func (g *GameUseCase) Traits(name string) ([]tree.Trait, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	leaf, ok := g.tree.FindLeaf(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", appErrors.ErrObjectNotFound, strings.TrimSpace(name))
	}
	return tree.Traits(leaf), nil
}

func (g *GameUseCase) Compare(first, second string) (tree.Comparison, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	a, ok := g.tree.FindLeaf(first)
	if !ok {
		return tree.Comparison{}, fmt.Errorf("%w: %q", appErrors.ErrObjectNotFound, strings.TrimSpace(first))
	}
	b, ok := g.tree.FindLeaf(second)
	if !ok {
		return tree.Comparison{}, fmt.Errorf("%w: %q", appErrors.ErrObjectNotFound, strings.TrimSpace(second))
	}
	return tree.Compare(a, b), nil
}

// Objects lists every object name in pre-order.
func (g *GameUseCase) Objects() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	leaves := g.tree.Leaves()
	names := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		names = append(names, leaf.Label())
	}
	return names
}

// History lists earlier saves, newest first.
func (g *GameUseCase) History(ctx context.Context, limit int64) ([]kb.SnapshotInfo, error) {
	h, ok := g.store.(SnapshotHistory)
	if !ok {
		return nil, fmt.Errorf("history of %s: %w", g.store.Describe(), appErrors.ErrNotSupported)
	}
	return h.History(ctx, limit)
}

// Close tears the tree down. The use case must not be used afterwards.
func (g *GameUseCase) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.tree != nil {
		g.tree.Release(nil)
	}
}
