package service

import (
	"time"

	"github.com/wricardo/trolly/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// ActionResult contains the result of a player action (a move or a switch
// toggle) and the cycle that followed it
type ActionResult struct {
	Success   bool               `json:"success"`
	GameState *engine.GameState  `json:"game_state"`
	Message   string             `json:"message"`
	Events    []engine.GameEvent `json:"events"`
	Cycle     *CycleSummary      `json:"cycle,omitempty"`

	// Decision aids
	PossibleMoves []string `json:"possible_moves,omitempty"`
	LocalView     []string `json:"local_view,omitempty"`
	Danger        string   `json:"danger,omitempty"`
}

// CycleSummary is the compact outcome of one or more simulation cycles
type CycleSummary struct {
	TrainsDestroyed int               `json:"trains_destroyed"`
	Crashes         []engine.Position `json:"crashes,omitempty"`
	NPCsEliminated  int               `json:"npcs_eliminated"`
	NPCsRespawned   int               `json:"npcs_respawned"`
	ScoreDelta      int               `json:"score_delta"`
	GameOver        bool              `json:"game_over"`
}

// AdvanceResponse contains the result of running simulation cycles
type AdvanceResponse struct {
	// Summary
	CyclesRun       int    `json:"cycles_run"`
	RequestedCycles int    `json:"requested_cycles"`
	Truncated       bool   `json:"truncated,omitempty"`
	Limit           int    `json:"limit,omitempty"`
	StoppedReason   string `json:"stopped_reason,omitempty"`

	GameState *engine.GameState  `json:"game_state"`
	Events    []engine.GameEvent `json:"events"`
	CycleSummary

	// Final status aids
	Message   string   `json:"message,omitempty"`
	LocalView []string `json:"local_view,omitempty"`
	Danger    string   `json:"danger,omitempty"`
}

// HistoryOptions configures event history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated event history
type HistoryResponse struct {
	Events      []engine.GameEvent `json:"events"`
	TotalEvents int                `json:"total_events"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	HasNext     bool               `json:"has_next"`
	HasPrevious bool               `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Lines       int    `json:"lines"`
	NPCs        int    `json:"npcs"`
	MaxTrains   int    `json:"max_trains"`
}
