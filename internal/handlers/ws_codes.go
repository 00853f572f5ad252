// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the room gateway. These give clients
// a more specific reason for closure than the standard codes.
const (
	BadSubprotocolError   = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError = 3001 // Room auth token in the authenticate frame was missing or wrong.
	KickedFromRoomError   = 3002 // Player was kicked from the room.
	InvalidRoomIDError    = 3003 // Target room ID in the WS URL does not exist.
)
