package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"akinator/internal/render"
	"akinator/internal/repository"
	gameuc "akinator/internal/usecase/game"
)

const animalBase = `( "Animal" ( "Flies" nil nil ) ( "Swims" nil nil ) )`

type scriptReader struct {
	lines   []string
	prompts []string
}

func (s *scriptReader) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type fixture struct {
	console *Console
	out     *bytes.Buffer
	in      *scriptReader
	base    string
	dir     string
}

func newFixture(t *testing.T, base string, lines ...string) *fixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "base.txt")
	if base != "" {
		require.NoError(t, os.WriteFile(path, []byte(base), 0o644))
	}

	log := zap.NewNop().Sugar()
	game := gameuc.NewGameUseCase(repository.NewFileKnowledgeStore(path, log), log, gameuc.Options{})
	_, err := game.Load(context.Background())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	in := &scriptReader{lines: lines}
	dumper := render.NewDumper(filepath.Join(dir, "dump"), filepath.Join(dir, "no-such-dot"), log)
	c := NewConsole(in, out, game, dumper, Options{AtlasPath: filepath.Join(dir, "atlas.pdf")}, log)
	return &fixture{console: c, out: out, in: in, base: path, dir: dir}
}

func (f *fixture) saved(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(f.base)
	require.NoError(t, err)
	return string(data)
}

func TestRun_LearnDefineCompareSave(t *testing.T) {
	f := newFixture(t, animalBase,
		"1", "y", "n", "y", "Bird", "Has feathers?", "да",
		"2", "bird",
		"3", "Bird", "Swims",
		"4",
	)

	require.NoError(t, f.console.Run(context.Background()))

	assert.Equal(t,
		`( "Animal" ( "Has feathers" ( "Bird" nil nil ) ( "Flies" nil nil ) ) ( "Swims" nil nil ) )`,
		f.saved(t))

	out := f.out.String()
	assert.Contains(t, out, "Запомнил: Bird.")
	assert.Contains(t, out, "✔ Animal")
	assert.Contains(t, out, "✔ Has feathers")
	assert.Contains(t, out, "✖ не Animal")
	assert.Contains(t, out, "Общих признаков нет.")
	assert.Contains(t, out, "База сохранена (3 объектов).")
	assert.Empty(t, f.in.lines)
	assert.Contains(t, f.in.prompts, `Для "Bird" ответ на вопрос "Has feathers?" будет 'Да' или 'Нет'? [Y/N]: `)
}

func TestRun_CorrectGuess(t *testing.T) {
	f := newFixture(t, animalBase, "1", "y", "y", "5")

	require.NoError(t, f.console.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Ура, я снова угадал!")
	assert.Equal(t, animalBase, f.saved(t))
}

func TestRun_QuitWithoutSaveKeepsFile(t *testing.T) {
	f := newFixture(t, animalBase, "1", "n", "Н", "д", "Rock", "Is heavy", "y", "5")

	require.NoError(t, f.console.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Изменения не сохранены.")
	assert.Equal(t, animalBase, f.saved(t))
}

func TestRun_EndOfInputQuits(t *testing.T) {
	f := newFixture(t, animalBase, "1", "y")

	require.NoError(t, f.console.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Выход.")
	assert.Equal(t, animalBase, f.saved(t))
}

func TestRun_RepromptsOnBadInput(t *testing.T) {
	f := newFixture(t, animalBase,
		"play", "9", "",
		"1", "maybe", "y", "y",
		"5",
	)

	require.NoError(t, f.console.Run(context.Background()))

	out := f.out.String()
	assert.Equal(t, 3, bytes.Count([]byte(out), []byte("Неправильный ввод. Повторите еще раз.")))
	assert.Contains(t, out, "Некорректный ответ, попробуйте ещё раз.")
	assert.Contains(t, out, "Ура, я снова угадал!")
}

func TestRun_UnknownObject(t *testing.T) {
	f := newFixture(t, animalBase, "2", "Dragon", "3", "Flies", "Dragon", "5")

	require.NoError(t, f.console.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, `Объекта с именем "Dragon" не существует.`)
	assert.Contains(t, out, "Не знаю такого объекта")
}

func TestRun_ReloadDiscardsChanges(t *testing.T) {
	f := newFixture(t, animalBase,
		"1", "y", "n", "y", "Bird", "Has feathers", "y",
		"0",
		"2", "Bird",
		"5",
	)

	require.NoError(t, f.console.Run(context.Background()))

	out := f.out.String()
	assert.Contains(t, out, "База загружена из")
	assert.Contains(t, out, `Объекта с именем "Bird" не существует.`)
}

func TestRun_RenderWithoutGraphviz(t *testing.T) {
	f := newFixture(t, animalBase, "6", "5")

	require.NoError(t, f.console.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Graphviz недоступен")
	assert.FileExists(t, filepath.Join(f.dir, "dump", "images", "image0.dot"))
}

func TestRun_AtlasExport(t *testing.T) {
	f := newFixture(t, animalBase, "7", "5")

	require.NoError(t, f.console.Run(context.Background()))

	assert.Contains(t, f.out.String(), "Атлас сохранён в")
	assert.FileExists(t, filepath.Join(f.dir, "atlas.pdf"))
}

func TestRun_SeededWhenBaseMissing(t *testing.T) {
	f := newFixture(t, "", "4")

	require.NoError(t, f.console.Run(context.Background()))

	assert.Equal(t, `( "неизвестно что" nil nil )`, f.saved(t))
}
