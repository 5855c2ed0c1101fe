package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/wricardo/trolly/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	// Fallback: return as-is or "default"
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session, configID string) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     configID,
		Seed:           sess.Engine.GetSeed(),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		GameState:      sess.Engine.Snapshot(),
		GameConfig:     sess.Config,
	}
}

// CreateSession creates a new game session. A zero seed lets the config
// or the engine choose one.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Load configuration
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found, use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	log.Printf("Created session %s (config %s, seed %d)", session.ID, configID, session.Engine.GetSeed())
	return s.sessionInfo(session, configID), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	return s.sessionInfo(session, s.getConfigID(session.Config.Name)), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess, s.getConfigID(sess.Config.Name)))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	return nil
}

// getSession looks a session up and marks it accessed. Marking writes the
// session, so callers hold s.mu exclusively.
func (s *gameServiceImpl) getSession(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// Move steps the player one cell and runs the cycle that follows
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*ActionResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Engine.IsGameOver() {
		return nil, fmt.Errorf("move in session %s: %w", sessionID, engine.ErrGameOver)
	}

	return s.act(sess, func() bool { return sess.Engine.Move(dir) }), nil
}

// ToggleSwitch throws the switch under the player and runs one cycle
func (s *gameServiceImpl) ToggleSwitch(ctx context.Context, sessionID string) (*ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Engine.IsGameOver() {
		return nil, fmt.Errorf("toggle in session %s: %w", sessionID, engine.ErrGameOver)
	}

	return s.act(sess, sess.Engine.ToggleSwitch), nil
}

// act runs a player action and gathers what it caused
func (s *gameServiceImpl) act(sess *Session, action func() bool) *ActionResult {
	eng := sess.Engine
	seen := len(eng.GetEventHistory())
	startScore := eng.GetScore()

	success := action()
	state := eng.Snapshot()
	events := eventsSince(eng, seen)

	return &ActionResult{
		Success:       success,
		GameState:     state,
		Message:       state.Message,
		Events:        events,
		Cycle:         summarize(events, state.Score-startScore, state.GameOver),
		PossibleMoves: directionNames(eng.GetPossibleMoves()),
		LocalView:     LocalView(state),
		Danger:        riskCode(engine.AnalyzeDanger(state)),
	}
}

// Advance runs up to cycles simulation cycles, stopping at game over
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string, cycles int) (*AdvanceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	if cycles <= 0 {
		cycles = 1
	}
	result := &AdvanceResponse{RequestedCycles: cycles}

	// Limit cycles to prevent abuse
	if cycles > engine.MaxBulkCycles {
		result.Truncated = true
		result.Limit = engine.MaxBulkCycles
		cycles = engine.MaxBulkCycles
	}

	eng := sess.Engine
	seen := len(eng.GetEventHistory())
	startScore := eng.GetScore()
	startedOver := eng.IsGameOver()

	ran := eng.BulkAdvance(cycles)
	result.CyclesRun = len(ran)

	state := eng.Snapshot()
	result.GameState = state
	result.Events = eventsSince(eng, seen)
	result.CycleSummary = *summarize(result.Events, state.Score-startScore, state.GameOver)
	result.Message = state.Message
	result.LocalView = LocalView(state)
	result.Danger = riskCode(engine.AnalyzeDanger(state))

	switch {
	case startedOver:
		result.StoppedReason = "game already over"
	case state.GameOver && result.CyclesRun < cycles:
		result.StoppedReason = fmt.Sprintf("game over on cycle %d", result.CyclesRun)
	}

	return result, nil
}

// Reset resets a game session to initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Engine.Reset()
	return sess.Engine.Snapshot(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Snapshot(), nil
}

// GetEventHistory returns paginated event history
func (s *gameServiceImpl) GetEventHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetEventHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	events := []engine.GameEvent{}
	if opts.Order == "desc" {
		// Reverse order (most recent first)
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			events = append(events, history[i])
		}
	} else if start < total {
		events = append(events, history[start:end]...)
	}

	return &HistoryResponse{
		Events:      events,
		TotalEvents: total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// DescribeCell reports the track and occupants of one cell
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, x, y int) (*engine.CellInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.getSession(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.DescribeCell(x, y)
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// eventsSince copies the events recorded after the first seen entries
func eventsSince(eng *engine.GameEngine, seen int) []engine.GameEvent {
	history := eng.GetEventHistory()
	if seen > len(history) {
		seen = len(history)
	}
	return append([]engine.GameEvent{}, history[seen:]...)
}

func summarize(events []engine.GameEvent, scoreDelta int, gameOver bool) *CycleSummary {
	sum := &CycleSummary{ScoreDelta: scoreDelta, GameOver: gameOver}
	for _, ev := range events {
		switch ev.Type {
		case engine.EventTrainDestroyed:
			sum.TrainsDestroyed++
		case engine.EventTrainCrash:
			sum.Crashes = append(sum.Crashes, ev.Position)
		case engine.EventNPCEliminated:
			sum.NPCsEliminated++
		case engine.EventNPCRespawned:
			sum.NPCsRespawned++
		}
	}
	return sum
}

func directionNames(dirs []engine.Direction) []string {
	names := make([]string, 0, len(dirs))
	for _, d := range dirs {
		names = append(names, d.String())
	}
	return names
}

// LocalView renders the 3x3 board around the player, the player in the
// middle. Cells off the grid show as '#'.
func LocalView(state *engine.GameState) []string {
	if state == nil || state.PC == nil {
		return nil
	}
	board := strings.Split(state.Board(), "\n")
	px, py := state.PC.X, state.PC.Y
	lines := make([]string, 0, 3)
	for dy := -1; dy <= 1; dy++ {
		var row strings.Builder
		for dx := -1; dx <= 1; dx++ {
			x, y := px+dx, py+dy
			if !state.Grid.InBounds(x, y) {
				row.WriteByte('#')
				continue
			}
			row.WriteByte(board[y][x])
		}
		lines = append(lines, row.String())
	}
	return lines
}

func riskCode(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "game over"):
		return "GAME_OVER"
	case strings.Contains(t, "danger"):
		return "DANGER"
	case strings.Contains(t, "caution"):
		return "CAUTION"
	case strings.Contains(t, "safe"):
		return "SAFE"
	default:
		return "UNKNOWN"
	}
}
