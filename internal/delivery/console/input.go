package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	gameuc "akinator/internal/usecase/game"
)

// ErrQuit is returned when input ends (EOF or Ctrl-C) at a prompt.
var ErrQuit = errors.New("input closed")

// LineReader is the line editor; *liner.State satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := c.in.Prompt(prompt)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrQuit
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) askYesNo(ctx context.Context, prompt string) (bool, error) {
	for {
		line, err := c.readLine(ctx, prompt+" [Y/N]: ")
		if err != nil {
			return false, err
		}
		if yes, ok := gameuc.ParseYesNo(line); ok {
			return yes, nil
		}
		c.println(c.st.Error.Render("Некорректный ответ, попробуйте ещё раз."))
	}
}

// AskYesNo implements gameuc.Asker.
func (c *Console) AskYesNo(ctx context.Context, p gameuc.Prompt) (bool, error) {
	switch p.Kind {
	case gameuc.PromptQuestion:
		c.println("")
		c.println(c.st.Question.Render(p.Text + "?"))
		return c.askYesNo(ctx, "Ответ")
	case gameuc.PromptGuess:
		c.println(c.st.Guess.Render(fmt.Sprintf("Я думаю, это %s", p.Guess)))
		return c.askYesNo(ctx, "Я угадал?")
	case gameuc.PromptTeach:
		return c.askYesNo(ctx, "Хотите добавить новый объект?")
	case gameuc.PromptAnswerForNew:
		return c.askYesNo(ctx, fmt.Sprintf("Для %q ответ на вопрос %q будет 'Да' или 'Нет'?", p.Object, p.Question+"?"))
	default:
		return c.askYesNo(ctx, p.Text)
	}
}

// AskText implements gameuc.Asker.
func (c *Console) AskText(ctx context.Context, p gameuc.Prompt) (string, error) {
	if p.Retry {
		c.println(c.st.Error.Render("Пустой или неподходящий ответ, попробуйте ещё раз."))
	}
	switch p.Kind {
	case gameuc.PromptObject:
		return c.readLine(ctx, "Кто это был? ")
	case gameuc.PromptDistinction:
		return c.readLine(ctx, fmt.Sprintf("Чем %q отличается от %q? Он(а) ", p.Object, p.Guess))
	default:
		return c.readLine(ctx, p.Text+" ")
	}
}
