package crocodile

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrSessionAlreadyActive = errors.New("session already active")
	ErrChannelRestricted    = errors.New("channel restricted")
	ErrNotExplainer         = errors.New("not the explainer")
	ErrExplainerGuess       = errors.New("explainer cannot guess")

	ErrInvalidAmount     = errors.New("invalid amount")
	ErrUnknownRecipient  = errors.New("unknown recipient")
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrSelfVote = errors.New("cannot vote for own explanation")

	ErrEmptyVocabulary = errors.New("empty vocabulary")
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrStoreCorrupted marks a state document that could not be parsed.
	// Stores recover from it by archiving the document and starting empty.
	ErrStoreCorrupted = errors.New("store corrupted")
)
