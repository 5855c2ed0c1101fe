// Package mcp exposes the rail network simulation to AI agents over the
// Model Context Protocol.
//
// The Client is a thin proxy: every tool call becomes a request against
// the REST API, and the JSON answer is rendered as plain text with the
// board, a 3x3 local view and a danger rating.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state, move, toggle_switch, advance, reset_game
//   - event_history, describe_cell
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	if err := server.ServeStdio(client.GetMCPServer()); err != nil {
//		log.Fatal(err)
//	}
package mcp
