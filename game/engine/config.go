package engine

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return ErrNilConfig
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if config.Description == "" {
		return fmt.Errorf("%w: description is required", ErrInvalidConfig)
	}

	// Validate grid size
	if config.Width < MinGridSize || config.Width > MaxGridSize {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, config.Width)
	}
	if config.Height < MinGridSize || config.Height > MaxGridSize {
		return fmt.Errorf("%w: height must be between %d and %d, got %d", ErrInvalidConfig, MinGridSize, MaxGridSize, config.Height)
	}

	// Validate population
	if config.Lines < MinLines || config.Lines > MaxLines {
		return fmt.Errorf("%w: lines must be between %d and %d, got %d", ErrInvalidConfig, MinLines, MaxLines, config.Lines)
	}
	maxNPCs := config.Width * config.Height / 4
	if config.NPCs < 0 || config.NPCs > maxNPCs {
		return fmt.Errorf("%w: npcs must be between 0 and %d for a %dx%d grid, got %d",
			ErrInvalidConfig, maxNPCs, config.Width, config.Height, config.NPCs)
	}
	if config.MaxTrains < 0 || config.MaxTrains > MaxTrainsLimit {
		return fmt.Errorf("%w: max_trains must be between 0 and %d, got %d", ErrInvalidConfig, MaxTrainsLimit, config.MaxTrains)
	}

	// Validate speeds
	if config.TrainSpeed < 0 || config.TrainSpeed > MaxTrainSpeed {
		return fmt.Errorf("%w: train_speed must be between 0 and %d, got %d", ErrInvalidConfig, MaxTrainSpeed, config.TrainSpeed)
	}
	if config.NPCSpeed < 0 || config.NPCSpeed > MaxNPCSpeed {
		return fmt.Errorf("%w: npc_speed must be between 0 and %d, got %d", ErrInvalidConfig, MaxNPCSpeed, config.NPCSpeed)
	}
	if config.SplatLifetime < 1 || config.SplatLifetime > MaxSplatLifetime {
		return fmt.Errorf("%w: splat_lifetime must be between 1 and %d, got %d", ErrInvalidConfig, MaxSplatLifetime, config.SplatLifetime)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("%w: messages.welcome is required", ErrInvalidConfig)
	}
	if config.Messages.GameOver == "" {
		return fmt.Errorf("%w: messages.game_over is required", ErrInvalidConfig)
	}

	// Validate format strings
	if config.Messages.NPCEliminated != "" && !strings.Contains(config.Messages.NPCEliminated, "%d") {
		return fmt.Errorf("%w: messages.npc_eliminated must contain %%d for score", ErrInvalidConfig)
	}
	if strings.Contains(config.Messages.GameOver, "%") && !strings.Contains(config.Messages.GameOver, "%d") {
		return fmt.Errorf("%w: messages.game_over may only format %%d for score", ErrInvalidConfig)
	}

	return nil
}

// LoadGameConfig loads a game configuration from a JSON or YAML file,
// chosen by extension.
func LoadGameConfig(filename string) (*GameConfig, error) {
	// Support CONFIG_DIR environment variable for alternative config directory
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	config, err := ParseGameConfig(data, filepath.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", configPath, err)
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// ParseGameConfig decodes data as YAML when ext is ".yaml" or ".yml" and as
// JSON otherwise. Missing optional messages are filled with defaults.
func ParseGameConfig(data []byte, ext string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, err
		}
	}
	config.Messages = config.Messages.withDefaults()
	return &config, nil
}

// DefaultGameConfig returns the built-in configuration.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:          "classic",
		Description:   "Ten rail lines, ten wanderers and four trolleys on a 40x24 grid",
		Width:         40,
		Height:        24,
		Lines:         10,
		NPCs:          10,
		MaxTrains:     4,
		TrainSpeed:    1,
		NPCSpeed:      10,
		SplatLifetime: 8,
		Messages:      ConfigMessages{}.withDefaults(),
	}
}

func (m ConfigMessages) withDefaults() ConfigMessages {
	def := func(s *string, v string) {
		if *s == "" {
			*s = v
		}
	}
	def(&m.Welcome, "Welcome to the rail yard. Throw switches, mind the trolleys.")
	def(&m.GameOver, "You were hit by a trolley! Game Over! Final score: %d")
	def(&m.Crash, "Two trolleys collided!")
	def(&m.NPCEliminated, "Splat! Score: %d")
	def(&m.Blocked, "Can't move there!")
	def(&m.SwitchToggled, "Switch thrown.")
	def(&m.NoSwitch, "There is no switch here.")
	return m
}

// InitGameStateFromConfig creates a new game state using the provided
// configuration: the rail network, its switches and the NPC population,
// all drawn from rng.
func InitGameStateFromConfig(config *GameConfig, rng *rand.Rand) (*GameState, error) {
	if config == nil {
		config = DefaultGameConfig()
	}

	state := NewGameState(config.Width, config.Height, Rules{
		NPCSpeed:      config.NPCSpeed,
		SplatLifetime: config.SplatLifetime,
	})
	state.ConfigName = config.Name
	state.Message = config.Messages.Welcome

	if err := state.BuildNetwork(config.Lines, rng); err != nil {
		return nil, err
	}
	for i := 0; i < config.NPCs; i++ {
		state.SpawnNPC(rng)
	}

	return state, nil
}
