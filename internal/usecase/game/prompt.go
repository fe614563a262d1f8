package game

import (
	"context"
	"strings"
)

type PromptKind string

const (
	// PromptQuestion asks the current node's yes/no question.
	PromptQuestion PromptKind = "question"
	// PromptGuess asks whether the guessed object is right.
	PromptGuess PromptKind = "guess"
	// PromptTeach asks whether the user wants to add the missed object.
	PromptTeach PromptKind = "teach"
	// PromptObject asks for the name of the object the user had in mind.
	PromptObject PromptKind = "object"
	// PromptDistinction asks for a question telling the two objects apart.
	PromptDistinction PromptKind = "distinction"
	// PromptAnswerForNew asks what the new object answers to that question.
	PromptAnswerForNew PromptKind = "answer_for_new"
)

// Prompt is what the engine needs from the player at a suspension point.
// Guess is the guessed object, Object the one being taught.
type Prompt struct {
	Kind     PromptKind `json:"kind"`
	Text     string     `json:"text,omitempty"`
	Guess    string     `json:"guess,omitempty"`
	Object   string     `json:"object,omitempty"`
	Question string     `json:"question,omitempty"`
	Retry    bool       `json:"retry,omitempty"`
}

// Asker is the player side of a round. AskYesNo must only return once it
// has a definite answer; re-prompting on junk input is its job.
type Asker interface {
	AskYesNo(ctx context.Context, p Prompt) (bool, error)
	AskText(ctx context.Context, p Prompt) (string, error)
}

// ParseYesNo accepts Y/N, Yes/No and the Russian Да/Нет, in any case.
func ParseYesNo(s string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "д", "да":
		return true, true
	case "n", "no", "н", "нет":
		return false, true
	}
	return false, false
}
