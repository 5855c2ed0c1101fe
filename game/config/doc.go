// Package config provides configuration management for the rail network
// simulation.
//
// The config package handles:
//   - Loading game configurations from JSON and YAML files
//   - Validation through engine.ValidateGameConfig
//   - Default configuration selection
//   - Configuration discovery, listing and saving
//
// Configuration Format:
//
// Each file in the config directory describes one network: grid width and
// height, number of rail lines, NPC population, train cap and speeds, splat
// lifetime, an optional fixed seed, and the player-facing messages. Files
// ending in .json are JSON; .yaml and .yml are YAML. When two files share a
// name the JSON one wins.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("rush_hour")
//	defaultConfig := manager.GetDefault()
//	configs, err := manager.ListConfigs()
//
// The default is classic when present, otherwise the first valid file, and
// engine.DefaultGameConfig when the directory holds none.
package config
