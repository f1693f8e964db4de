package domain

import "errors"

var (
	ErrServerAtCapacity = errors.New("Server at capacity")
	ErrInvalidJoin      = errors.New("Invalid room or user name")
	ErrRoomFull         = errors.New("Room is full")
	ErrNotInRoom        = errors.New("participant not in room")
	ErrUnknownTarget    = errors.New("unknown target connection")
	ErrNotAuthorized    = errors.New("not authorized")
)
