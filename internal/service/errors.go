package service

import "errors"

var (
	ErrInvalidMove     = errors.New("invalid move")
	ErrGameNotFound    = errors.New("game not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrNotAParticipant = errors.New("not a participant of this game")
	ErrAlreadyInGame   = errors.New("player already in a game")
)
