// Package service provides the business logic layer for the rail network
// simulation.
//
// The service package implements:
//   - Multi-session management
//   - Configuration loading and saving
//   - Player actions and the cycle that follows each one
//   - Bulk advance with a hard cycle cap
//   - Paginated event history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads and stores network configurations.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, SSE, WebSocket, MCP)
// and the engine. Each session owns its own engine and random stream, so the
// same seed always lays the same network.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic", 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "ne")
//	adv, err := gameService.Advance(ctx, info.ID, 10)
//
// Errors:
//
// ErrSessionNotFound, ErrConfigNotFound and ErrInvalidConfig are wrapped with
// context and can be matched with errors.Is. Actions on a finished game wrap
// engine.ErrGameOver.
package service
