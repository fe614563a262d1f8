package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"akinator/internal/domain/tree"
	appErrors "akinator/internal/errors"
	"akinator/internal/render"
	gameuc "akinator/internal/usecase/game"
)

type menuChoice int

const (
	choiceReload      menuChoice = 0
	choicePlay        menuChoice = 1
	choiceDefine      menuChoice = 2
	choiceCompare     menuChoice = 3
	choiceSaveQuit    menuChoice = 4
	choiceQuit        menuChoice = 5
	choiceRenderGraph menuChoice = 6
	choiceAtlas       menuChoice = 7
)

const menuText = `ГЛАВНОЕ МЕНЮ

1. Начать игру
2. Дать определение объекту
3. Сравнить два объекта
4. Выход с сохранением базы данных
5. Выход без сохранения базы данных
6. Нарисовать дерево
7. Выгрузить атлас объектов в PDF

0. Загрузить базу данных заново`

type Options struct {
	AtlasPath string
	AtlasFont string
}

type Console struct {
	in     LineReader
	out    io.Writer
	st     styles
	game   *gameuc.GameUseCase
	dumper *render.Dumper
	opts   Options
	log    *zap.SugaredLogger
}

func NewConsole(in LineReader, out io.Writer, game *gameuc.GameUseCase, dumper *render.Dumper, opts Options, log *zap.SugaredLogger) *Console {
	return &Console{
		in:     in,
		out:    out,
		st:     newStyles(out),
		game:   game,
		dumper: dumper,
		opts:   opts,
		log:    log,
	}
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// Run shows the menu until the player quits. Closed input quits without
// saving.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.println("")
		c.println(c.st.Menu.Render(menuText))

		choice, err := c.readChoice(ctx)
		if errors.Is(err, ErrQuit) {
			c.println("Выход.")
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := c.handle(ctx, choice)
		if errors.Is(err, ErrQuit) {
			c.println("Выход.")
			return nil
		}
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (c *Console) readChoice(ctx context.Context) (menuChoice, error) {
	for {
		line, err := c.readLine(ctx, "Выберите вариант [1-7, 0]: ")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= int(choiceReload) && n <= int(choiceAtlas) {
			return menuChoice(n), nil
		}
		c.println(c.st.Error.Render("Неправильный ввод. Повторите еще раз."))
	}
}

func (c *Console) handle(ctx context.Context, choice menuChoice) (quit bool, err error) {
	switch choice {
	case choicePlay:
		return false, c.play(ctx)
	case choiceDefine:
		return false, c.define(ctx)
	case choiceCompare:
		return false, c.compare(ctx)
	case choiceSaveQuit:
		if err := c.save(ctx); err != nil {
			// the tree is still intact, let the player decide what next
			return false, nil
		}
		return true, nil
	case choiceQuit:
		if c.game.Dirty() {
			c.println(c.st.Warning.Render("Изменения не сохранены."))
		}
		c.println("Выход.")
		return true, nil
	case choiceRenderGraph:
		c.renderGraph(ctx)
		return false, nil
	case choiceAtlas:
		c.exportAtlas()
		return false, nil
	case choiceReload:
		c.reload(ctx)
		return false, nil
	}
	return false, nil
}

func (c *Console) play(ctx context.Context) error {
	result, err := c.game.PlayRound(ctx, c)
	switch {
	case errors.Is(err, ErrQuit), errors.Is(err, context.Canceled):
		return err
	case errors.Is(err, appErrors.ErrRoundAborted):
		c.println(c.st.Error.Render("Ошибка: раунд прерван, база повреждена."))
		return nil
	case err != nil:
		c.println(c.st.Error.Render("Ошибка: " + err.Error()))
		return nil
	}

	switch result.Outcome {
	case gameuc.OutcomeGuessed:
		c.println(c.st.Success.Render("Ура, я снова угадал!"))
	case gameuc.OutcomeLearned:
		c.println(c.st.Success.Render(fmt.Sprintf("Запомнил: %s.", result.Object)))
	case gameuc.OutcomeMissed:
		c.println("Ну ладно.")
	}
	return nil
}

func (c *Console) define(ctx context.Context) error {
	name, err := c.askName(ctx, "Введите имя искомого объекта: ")
	if err != nil {
		return err
	}

	traits, err := c.game.Traits(name)
	if errors.Is(err, appErrors.ErrObjectNotFound) {
		c.println(c.st.Error.Render(fmt.Sprintf("Объекта с именем %q не существует.", name)))
		return nil
	}
	if err != nil {
		return err
	}

	c.println("")
	c.println(c.st.Title.Render(fmt.Sprintf("Объект %q имеет следующие признаки:", name)))
	c.printTraits(traits)
	return nil
}

func (c *Console) compare(ctx context.Context) error {
	first, err := c.askName(ctx, "Первый объект: ")
	if err != nil {
		return err
	}
	second, err := c.askName(ctx, "Второй объект: ")
	if err != nil {
		return err
	}

	cmp, err := c.game.Compare(first, second)
	if errors.Is(err, appErrors.ErrObjectNotFound) {
		c.println(c.st.Error.Render(fmt.Sprintf("Не знаю такого объекта: %v", err)))
		return nil
	}
	if err != nil {
		return err
	}

	c.println("")
	if len(cmp.Shared) > 0 {
		c.println(c.st.Title.Render(fmt.Sprintf("И %q, и %q:", first, second)))
		c.printTraits(cmp.Shared)
	} else {
		c.println(c.st.Muted.Render("Общих признаков нет."))
	}
	if len(cmp.First) == 0 && len(cmp.Second) == 0 {
		c.println(c.st.Muted.Render("Это один и тот же объект."))
		return nil
	}
	c.println(c.st.Title.Render(fmt.Sprintf("Но %q:", first)))
	c.printTraits(cmp.First)
	c.println(c.st.Title.Render(fmt.Sprintf("А %q:", second)))
	c.printTraits(cmp.Second)
	return nil
}

func (c *Console) askName(ctx context.Context, prompt string) (string, error) {
	for {
		name, err := c.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if name != "" {
			return name, nil
		}
		c.println(c.st.Error.Render("Неправильный ввод. Повторите еще раз."))
	}
}

func (c *Console) printTraits(traits []tree.Trait) {
	line := strings.Repeat("─", 38)
	c.println(line)
	if len(traits) == 0 {
		c.println(c.st.Muted.Render("(без признаков)"))
	}
	for _, t := range traits {
		if t.Yes {
			c.println(c.st.Yes.String() + " " + t.Question)
		} else {
			c.println(c.st.No.String() + " не " + t.Question)
		}
	}
	c.println(line)
}

func (c *Console) save(ctx context.Context) error {
	snapshot, err := c.game.Save(ctx)
	if err != nil {
		c.println(c.st.Error.Render("Не удалось сохранить базу: " + err.Error()))
		return err
	}
	c.println(c.st.Success.Render(fmt.Sprintf("База сохранена (%d объектов).", snapshot.Stats.Leaves)))
	return nil
}

func (c *Console) reload(ctx context.Context) {
	report, err := c.game.Load(ctx)
	if err != nil {
		c.println(c.st.Error.Render("Не удалось загрузить базу: " + err.Error()))
		return
	}
	c.PrintLoadReport(report)
}

// PrintLoadReport tells the player where the knowledge base came from.
func (c *Console) PrintLoadReport(report gameuc.LoadReport) {
	switch report.Status {
	case gameuc.LoadStatusLoaded:
		c.println(c.st.Success.Render(fmt.Sprintf("База загружена из %s: %d объектов, %d вопросов.",
			report.Source, report.Stats.Leaves, report.Stats.Questions)))
	case gameuc.LoadStatusSeeded:
		c.println(c.st.Warning.Render(fmt.Sprintf("База %s не найдена, начинаем с чистого листа.", report.Source)))
	case gameuc.LoadStatusRecovered:
		c.println(c.st.Error.Render(fmt.Sprintf("База %s повреждена (%v), начинаем с чистого листа.", report.Source, report.Cause)))
	}
}

func (c *Console) renderGraph(ctx context.Context) {
	var result render.DumpResult
	err := c.game.View(func(t *tree.Tree) error {
		var err error
		result, err = c.dumper.Dump(ctx, t, "по запросу")
		return err
	})
	switch {
	case errors.Is(err, render.ErrRendererUnavailable):
		c.println(c.st.Warning.Render(fmt.Sprintf("Graphviz недоступен, описание графа сохранено в %s.", result.DotPath)))
	case err != nil:
		c.println(c.st.Error.Render("Не удалось нарисовать дерево: " + err.Error()))
	default:
		c.println(c.st.Success.Render("Картинка: " + result.SVGPath))
	}
}

func (c *Console) exportAtlas() {
	err := c.game.View(func(t *tree.Tree) error {
		return render.WriteAtlas(t, c.opts.AtlasPath, c.opts.AtlasFont)
	})
	if err != nil {
		c.log.Errorw("atlas export failed", "path", c.opts.AtlasPath, "error", err)
		c.println(c.st.Error.Render("Не удалось выгрузить атлас: " + err.Error()))
		return
	}
	c.println(c.st.Success.Render("Атлас сохранён в " + c.opts.AtlasPath))
}
