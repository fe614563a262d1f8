package errors

import "errors"

var (
	ErrCorruptKnowledgeBase = errors.New("corrupt knowledge base")
	ErrBaseNotFound         = errors.New("knowledge base not found")
	ErrObjectNotFound       = errors.New("object not known")
	ErrBrokenTree           = errors.New("tree invariant violated")
	ErrInvalidLabel         = errors.New("invalid label")
	ErrRoundAborted         = errors.New("round aborted")
	ErrSessionBusy          = errors.New("another round is in progress")
	ErrNotSupported         = errors.New("not supported by this storage")
)
