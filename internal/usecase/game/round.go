package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"akinator/internal/domain/tree"
	appErrors "akinator/internal/errors"
)

type Outcome string

const (
	// OutcomeGuessed: the engine named the right object.
	OutcomeGuessed Outcome = "guessed"
	// OutcomeLearned: the guess was wrong and a new object was added.
	OutcomeLearned Outcome = "learned"
	// OutcomeMissed: the guess was wrong and the player declined to teach.
	OutcomeMissed Outcome = "missed"
)

type RoundResult struct {
	ID       string       `json:"id"`
	Outcome  Outcome      `json:"outcome"`
	Guess    string       `json:"guess"`
	Object   string       `json:"object,omitempty"`
	Question string       `json:"question,omitempty"`
	Answers  []tree.Trait `json:"answers"`
}

type roundState int

const (
	stateDescending roundState = iota
	stateLeafReached
	stateDone
)

// PlayRound runs one game against asker. Only one round may run at a time.
func (g *GameUseCase) PlayRound(ctx context.Context, asker Asker) (RoundResult, error) {
	if !g.session.TryLock() {
		return RoundResult{}, appErrors.ErrSessionBusy
	}
	defer g.session.Unlock()

	result := RoundResult{ID: uuid.NewString()}
	log := g.log.With("round", result.ID)
	log.Infow("round started")

	g.mu.RLock()
	current := g.tree.Root()
	g.mu.RUnlock()

	state := stateDescending
	for state != stateDone {
		if current == nil {
			log.Errorw("descent reached a missing node")
			return result, fmt.Errorf("%w: descent reached a missing node", appErrors.ErrRoundAborted)
		}

		switch state {
		case stateDescending:
			if current.IsLeaf() {
				state = stateLeafReached
				continue
			}
			yes, err := asker.AskYesNo(ctx, Prompt{Kind: PromptQuestion, Text: current.Label()})
			if err != nil {
				return result, err
			}
			result.Answers = append(result.Answers, tree.Trait{Question: current.Label(), Yes: yes})
			current = current.Next(yes)

		case stateLeafReached:
			result.Guess = current.Label()
			right, err := asker.AskYesNo(ctx, Prompt{Kind: PromptGuess, Text: current.Label(), Guess: current.Label()})
			if err != nil {
				return result, err
			}
			if right {
				result.Outcome = OutcomeGuessed
			} else if err := g.correct(ctx, asker, current, &result); err != nil {
				return result, err
			}
			state = stateDone
		}
	}

	log.Infow("round finished", "outcome", result.Outcome, "guess", result.Guess, "object", result.Object, "questions", len(result.Answers))
	return result, nil
}

// correct asks the player what the object was and grafts it into the tree
// in place of leaf.
func (g *GameUseCase) correct(ctx context.Context, asker Asker, leaf *tree.Node, result *RoundResult) error {
	teach, err := asker.AskYesNo(ctx, Prompt{Kind: PromptTeach, Guess: leaf.Label()})
	if err != nil {
		return err
	}
	if !teach {
		result.Outcome = OutcomeMissed
		return nil
	}

	object, err := g.askLabel(ctx, asker, Prompt{Kind: PromptObject, Guess: leaf.Label()}, func(s string) bool {
		return !strings.EqualFold(s, leaf.Label())
	})
	if err != nil {
		return err
	}

	question, err := g.askLabel(ctx, asker, Prompt{Kind: PromptDistinction, Guess: leaf.Label(), Object: object}, nil)
	if err != nil {
		return err
	}
	question = strings.TrimRight(question, "?")

	yes, err := asker.AskYesNo(ctx, Prompt{Kind: PromptAnswerForNew, Guess: leaf.Label(), Object: object, Question: question})
	if err != nil {
		return err
	}

	g.mu.Lock()
	_, err = g.tree.SplitLeaf(leaf, question, object, yes)
	if err == nil {
		g.dirty = true
	}
	g.mu.Unlock()
	if err != nil {
		return err
	}

	g.log.Infow("object learned", "round", result.ID, "object", object, "question", question, "instead_of", leaf.Label(), "yes_for_object", yes)
	result.Outcome = OutcomeLearned
	result.Object = object
	result.Question = question
	return nil
}

// askLabel asks until the answer is non-empty and accepted by ok.
func (g *GameUseCase) askLabel(ctx context.Context, asker Asker, p Prompt, ok func(string) bool) (string, error) {
	for {
		text, err := asker.AskText(ctx, p)
		if err != nil {
			return "", err
		}
		text = strings.TrimSpace(text)
		if text != "" && strings.TrimRight(text, "?") != "" && (ok == nil || ok(text)) {
			return text, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p.Retry = true
	}
}
