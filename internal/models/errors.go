package models

import "net/http"

// APIError is an error with a stable numeric code surfaced to HTTP clients.
// Codes are part of the public contract; clients key their error strings off
// them, so they must never be renumbered.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	ErrRoomNotFound       = &APIError{Status: http.StatusNotFound, Code: 1000, Message: "Room not found."}
	ErrRoomFull           = &APIError{Status: http.StatusBadRequest, Code: 1001, Message: "Room is full."}
	ErrNicknameInUse      = &APIError{Status: http.StatusBadRequest, Code: 1002, Message: "Nickname is already in use."}
	ErrGameRunning        = &APIError{Status: http.StatusBadRequest, Code: 1003, Message: "Game is already running."}
	ErrUnknownPlayer      = &APIError{Status: http.StatusNotFound, Code: 1004, Message: "Unknown player."}
	ErrNoPermission       = &APIError{Status: http.StatusForbidden, Code: 1005, Message: "You do not have permission to do that."}
	ErrCantKick           = &APIError{Status: http.StatusBadRequest, Code: 1006, Message: "This player cannot be kicked."}
	ErrPlayerBanned       = &APIError{Status: http.StatusForbidden, Code: 1007, Message: "You have been banned from this room."}
	ErrInvalidRoomOptions = &APIError{Status: http.StatusBadRequest, Code: 1008, Message: "Invalid room options."}
	ErrAlreadyInRoom      = &APIError{Status: http.StatusBadRequest, Code: 1009, Message: "You are already in a room."}
	ErrInvalidAuth        = &APIError{Status: http.StatusUnauthorized, Code: 1012, Message: "Invalid authentication."}
	ErrUnexpected         = &APIError{Status: http.StatusInternalServerError, Code: 1999, Message: "An unexpected error occurred."}
)
