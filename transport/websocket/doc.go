// Package websocket pushes session snapshots to watchers over WebSocket.
//
// A Hub keeps the connected clients grouped by session ID. After every
// change the API calls BroadcastToSession, and each watcher of that session
// receives one JSON message per frame:
//
//	{"session_id": "ab12", "event": "state_update", "game_state": {...}, "board": "..@.."}
//
// Watchers only observe. Anything a client sends is read and discarded;
// moves go through the REST API or the MCP tools.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//
//	// in an HTTP handler, after checking the session exists
//	hub.ServeWS(w, r, sessionID, state)
//
// Concurrency:
//
// Registration goes through the hub loop. Broadcasts may come from any
// goroutine; a client whose send buffer is full is dropped rather than
// blocking the game.
package websocket
