package render

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"akinator/internal/domain/tree"
)

// ErrRendererUnavailable means the dot file was written but the external
// renderer could not be run.
var ErrRendererUnavailable = errors.New("graph renderer unavailable")

type DumpResult struct {
	DotPath  string `json:"dot_path"`
	SVGPath  string `json:"svg_path,omitempty"`
	Rendered bool   `json:"rendered"`
}

// Dumper writes numbered tree images into dir/images and links each one
// from dir/index.html.
type Dumper struct {
	dir       string
	dotBinary string
	log       *zap.SugaredLogger

	mu   sync.Mutex
	next int
	// run is swapped in tests
	run func(ctx context.Context, name string, args ...string) error
}

func NewDumper(dir, dotBinary string, log *zap.SugaredLogger) *Dumper {
	return &Dumper{
		dir:       dir,
		dotBinary: dotBinary,
		log:       log,
		next:      -1,
		run:       runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

func (d *Dumper) Dump(ctx context.Context, t *tree.Tree, title string) (DumpResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	imagesDir := filepath.Join(d.dir, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return DumpResult{}, err
	}
	if d.next < 0 {
		d.next = nextImageNumber(imagesDir)
	}

	result := DumpResult{DotPath: filepath.Join(imagesDir, fmt.Sprintf("image%d.dot", d.next))}
	d.next++

	if err := writeDotFile(result.DotPath, t); err != nil {
		return DumpResult{}, err
	}

	svgPath := result.DotPath + ".svg"
	if err := d.run(ctx, d.dotBinary, "-Tsvg", result.DotPath, "-o", svgPath); err != nil {
		d.log.Warnw("graph render failed", "dot", result.DotPath, "error", err)
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return result, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
		}
		return result, fmt.Errorf("render %s: %w", result.DotPath, err)
	}
	result.SVGPath = svgPath
	result.Rendered = true

	if err := d.appendIndex(title, svgPath); err != nil {
		return result, err
	}
	d.log.Infow("tree dumped", "svg", svgPath)
	return result, nil
}

func writeDotFile(path string, t *tree.Tree) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteDot(f, t)
}

func (d *Dumper) appendIndex(title, svgPath string) error {
	f, err := os.OpenFile(filepath.Join(d.dir, "index.html"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	rel, err := filepath.Rel(d.dir, svgPath)
	if err != nil {
		rel = svgPath
	}
	_, err = fmt.Fprintf(f, "<h3>DUMP %s</h3>\n<img src=\"%s\" height=\"200px\">\n",
		html.EscapeString(title), html.EscapeString(filepath.ToSlash(rel)))
	return err
}

var imageName = regexp.MustCompile(`^image(\d+)\.dot$`)

// nextImageNumber continues numbering after images from earlier runs.
func nextImageNumber(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	next := 0
	for _, e := range entries {
		m := imageName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}
