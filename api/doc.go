// Package api provides HTTP REST API handlers for the rail network
// simulation.
//
// The api package implements:
//   - Session management endpoints
//   - Player actions (move, switch) and clock advance
//   - Paginated event history and cell inspection
//   - Configuration listing, lookup and creation
//   - Live updates over WebSocket and server-sent events
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session ({config_id, seed})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Summaries for a multi-session view
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current state as JSON
//   - GET /api/sessions/{id}/board - Current state as a text board
//   - POST /api/sessions/{id}/move - {"direction": "ne"}
//   - POST /api/sessions/{id}/switch - Throw the switch under the player
//   - POST /api/sessions/{id}/advance - {"cycles": N} or ?cycles=N
//   - POST /api/sessions/{id}/reset - Rebuild the network from the seed
//   - GET /api/sessions/{id}/history - ?page=&limit=&order=
//   - GET /api/sessions/{id}/cells/{x}/{y} - Tracks and occupants of a cell
//   - GET /api/sessions/{id}/events - Server-sent event stream
//
// Configuration:
//   - GET /api/configs
//   - GET /api/configs/{name}
//   - POST /api/configs
//
// Board legend (GET .../board):
//
//	@ player   T trolley   n wanderer   * splat   s switch   . empty
//	- | / \ track     + junction
//
// Error Handling:
//
// Errors are returned as JSON with an HTTP status derived from the
// underlying error: unknown sessions and configs are 404, actions on a
// finished game are 409, bad directions, coordinates and configs are 400.
//
//	{"error": "session not found: a1b2"}
package api
