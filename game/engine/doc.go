// Package engine provides the core game logic for the Trolly rail game.
//
// The engine package implements the game mechanics including:
//   - Procedural rail-network generation on an 8-direction grid
//   - Junction switches the player can throw
//   - Trains that follow the track, crash and run over NPCs
//   - NPCs and the player, who push NPCs around
//   - Configuration loading and validation
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState holds the grid, the rail lines,
// switches and every token; GameConfig defines the rules, loaded from JSON
// or YAML files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Move the player, which also runs one cycle
//	moved := gameEngine.Move(engine.East)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// Trains run along the rail lines, taking the direction a switch selects,
// else straight on, else any gentle branch. A train that runs out of track
// or off the grid is removed, and two trains meeting head on both crash.
// NPCs wander in straight lines. Every NPC a train runs over scores a point
// and is replaced. The game ends when a train reaches the player.
//
// All randomness comes from a *rand.Rand seeded per game, so a seed
// reproduces the same network.
package engine
