package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/trolly/game/engine"
	"github.com/wricardo/trolly/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

var directionEnum = []string{"nw", "n", "ne", "e", "se", "s", "sw", "w", "up", "down", "left", "right"}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Trolly Rail Network",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Trolly Rail Network - MCP Interface

This is a thin client that proxies all requests to the REST API server.

OBJECTIVE:
Trolleys run on a procedurally generated rail network. Wanderers (n) stroll
about and are flattened by any trolley that reaches them. You (@) walk the
grid, push wanderers around and throw switches (s) to steer trolleys.
Every action is followed by one simulation cycle. Touching a trolley ends
the game.

AVAILABLE TOOLS:
- create_session: Create new game session (optional config_id and seed)
- list_sessions / get_session: Inspect sessions
- game_state: Board, score and danger rating
- move: Step one cell in any of 8 directions - requires intent explanation
- toggle_switch: Throw the switch you are standing on
- advance: Let the clock run for N cycles without acting
- reset_game: Rebuild the same network from the session seed
- event_history: Paginated event log
- list_configs: Available network configurations
- describe_cell: Tracks, switch and occupants of one cell
- game_instructions: Full rules

NOTE: The 'intent' parameter on move serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection and seed",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional, see list_configs)",
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Seed for the network layout (optional, the same seed lays the same network)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state and board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the player one cell; a cycle runs afterwards",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "toggle_switch",
		Description: "Throw the switch under the player; a cycle runs afterwards",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleToggleSwitch)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "advance",
		Description: fmt.Sprintf("Run simulation cycles without acting (at most %d per call)", engine.MaxBulkCycles),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"cycles": map[string]interface{}{
					"type":        "integer",
					"description": "Number of cycles to run (default 1)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleAdvance)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to its initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_history",
		Description: "Get the event history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Oldest first (asc) or newest first (desc, default)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available network configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get the track directions, switch setting and occupants of a grid cell",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"x": map[string]interface{}{
					"type":        "integer",
					"description": "X coordinate (column) of the cell to describe (0-based)",
				},
				"y": map[string]interface{}{
					"type":        "integer",
					"description": "Y coordinate (row) of the cell to describe (0-based)",
				},
			},
			Required: []string{"session_id", "x", "y"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// arguments returns the tool call arguments, or an empty map when the
// client sent none
func arguments(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]interface{}{}
	if configID != "" {
		body["config_id"] = configID
	}
	if seed, ok := args["seed"].(float64); ok && seed != 0 {
		body["seed"] = int64(seed)
	}

	var session service.SessionInfo
	err := c.apiCall(ctx, "POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\nSeed: %d\n", session.ID, session.ConfigName, session.Seed)
	if session.GameState != nil && session.GameState.Message != "" {
		result += session.GameState.Message + "\n"
	}
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := ""
		if s.GameState != nil {
			status = fmt.Sprintf(", Cycle: %d, Score: %d", s.GameState.Cycle, s.GameState.Score)
			if s.GameState.GameOver {
				status += ", GAME OVER"
			}
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Created: %s%s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var state engine.GameState
	err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_, _ = args["intent"].(string)

	body := map[string]interface{}{
		"direction": direction,
	}

	var result service.ActionResult
	err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/move"), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult("Move", &result)), nil
}

func (c *Client) handleToggleSwitch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var result service.ActionResult
	err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/switch"), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult("Switch", &result)), nil
}

func (c *Client) handleAdvance(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	cycles := 1
	if n, ok := args["cycles"].(float64); ok {
		cycles = int(n)
	}

	var result service.AdvanceResponse
	err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/advance"), map[string]int{"cycles": cycles}, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatAdvanceResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleEventHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)

	params := url.Values{}
	if page, ok := args["page"].(float64); ok {
		params.Set("page", fmt.Sprint(int(page)))
	}
	if limit, ok := args["limit"].(float64); ok {
		params.Set("limit", fmt.Sprint(int(limit)))
	}
	if order, ok := args["order"].(string); ok && order != "" {
		params.Set("order", order)
	}

	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	err := c.apiCall(ctx, "GET", path, nil, &history)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, config := range configs {
		fmt.Fprintf(&b, "• %s (config_id: %s)\n  %s\n  Grid: %dx%d, Lines: %d, Wanderers: %d, Trolleys: %d\n\n",
			config.Name, config.ConfigID, config.Description,
			config.Width, config.Height, config.Lines, config.NPCs, config.MaxTrains)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `Trolly Rail Network - Complete Instructions

THE WORLD:
A rectangular grid carries a network of rail lines. Every line runs from one
edge of the grid to another and may cross other lines. Where lines meet,
some cells carry a switch that decides which way a trolley turns.

BOARD LEGEND:
• @ - You
• T - Trolley
• n - Wanderer (NPC)
• * - Splat left behind by a flattened wanderer (fades after a while)
• s - Switch
• - | / \ - Straight track
• + - Junction (three or more track directions meet)
• . - Empty ground

EACH ACTION:
Every move or switch throw is followed by exactly one cycle:
1. Trolleys roll along their line. A trolley at a switch follows the switch
   when the turn is gentle. A trolley that runs off the grid is removed.
2. Two trolleys that meet crash and are both removed.
3. Wanderers under a trolley are flattened: +1 score each, a splat remains
   and a new wanderer appears somewhere else.
4. Wanderers stroll on their own schedule and splats fade.
5. If a trolley reaches you, the game is over.

MOVEMENT:
• 8 directions: nw, n, ne, e, se, s, sw, w (or up, down, left, right)
• Stepping into a wanderer pushes it one cell the same way
• A wanderer can't be pushed into a trolley, into you, or off the grid;
  then your move is blocked (the cycle still runs)

SWITCHES:
• Stand on an s cell and call toggle_switch to rotate it to the next
  direction the track there allows
• toggle_switch anywhere else does nothing but still runs a cycle

STRATEGY:
• Use describe_cell to see track directions and the switch setting
• Route trolleys into wanderers, away from each other and away from you
• advance lets time pass without acting; watch the danger rating

GAME OVER:
• A trolley on your cell ends the game. Reset to start over on the same
  network.

Good luck keeping the trolleys busy!`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	xf, okX := args["x"].(float64)
	yf, okY := args["y"].(float64)
	if !okX || !okY {
		return mcp.NewToolResultError("x and y must be integers"), nil
	}
	x, y := int(xf), int(yf)

	var cell engine.CellInfo
	err := c.apiCall(ctx, "GET", sessionPath(sessionID, fmt.Sprintf("/cells/%d/%d", x, y)), nil, &cell)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCell(&cell)), nil
}

// Formatting helpers

func formatCell(cell *engine.CellInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cell at position %s:\n━━━━━━━━━━━━━━━━━━━━━━━━\n", cell.Position)
	fmt.Fprintf(&b, "Character: %c\n", engine.TrackGlyph(engine.Mask(cell.Mask)))

	if len(cell.Tracks) == 0 {
		b.WriteString("Track: none\n")
	} else {
		fmt.Fprintf(&b, "Track: %s\n", strings.Join(cell.Tracks, ", "))
	}

	if cell.Switch != nil {
		fmt.Fprintf(&b, "Switch: set to %s\n", cell.Switch)
	}

	if len(cell.Occupants) == 0 {
		b.WriteString("Occupants: none\n")
		return b.String()
	}
	b.WriteString("Occupants:\n")
	for _, t := range cell.Occupants {
		switch t.Kind {
		case engine.KindTrain:
			fmt.Fprintf(&b, "- trolley #%d heading %s\n", t.ID, t.Dir)
		case engine.KindSplat:
			fmt.Fprintf(&b, "- splat #%d (%d cycles left)\n", t.ID, t.TTL)
		case engine.KindPC:
			b.WriteString("- you\n")
		default:
			fmt.Fprintf(&b, "- wanderer #%d\n", t.ID)
		}
	}
	return b.String()
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nSeed: %d\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Seed,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	pos := "-"
	if state.PC != nil {
		pos = state.PC.Position.String()
	}
	fmt.Fprintf(&result, "Position: %s | Cycle: %d | Score: %d | Trolleys: %d | Events: %d\n\n",
		pos, state.Cycle, state.Score, state.LiveTrains(), state.TotalEvents)

	if state.PC != nil && state.Grid != nil {
		fmt.Fprintf(&result, "Danger: %s\n", engine.AnalyzeDanger(state))
		if v := service.LocalView(state); len(v) == 3 {
			result.WriteString("Local 3x3:\n")
			result.WriteString(strings.Join(v, "\n"))
			result.WriteString("\n\n")
		}
	}

	result.WriteString(state.Board())

	if state.GameOver {
		result.WriteString("\n💀 GAME OVER")
	}

	if state.Message != "" {
		fmt.Fprintf(&result, "\nMessage: %s", state.Message)
	}

	return result.String()
}

func formatEvents(b *strings.Builder, events []engine.GameEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("Events:\n")
	for _, event := range events {
		fmt.Fprintf(b, "- [%d] %s at %s: %s\n", event.Cycle, event.Type, event.Position, event.Message)
	}
}

func formatActionResult(action string, result *service.ActionResult) string {
	var b strings.Builder
	if result.Success {
		fmt.Fprintf(&b, "✓ %s successful\n", action)
	} else {
		fmt.Fprintf(&b, "✗ %s failed\n", action)
	}
	if result.Message != "" {
		b.WriteString(result.Message + "\n")
	}

	formatEvents(&b, result.Events)

	if len(result.PossibleMoves) > 0 {
		fmt.Fprintf(&b, "Possible moves: %s\n", strings.Join(result.PossibleMoves, ","))
	}
	if result.Danger != "" {
		fmt.Fprintf(&b, "Risk: %s\n", result.Danger)
	}

	b.WriteString("\n" + formatGameState(result.GameState))
	return b.String()
}

func formatAdvanceResult(sessionID string, result *service.AdvanceResponse) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	fmt.Fprintf(&b, "Session: %s • Config: %s\n", sessionID, configName)

	fmt.Fprintf(&b, "Ran %d/%d cycles\n", result.CyclesRun, result.RequestedCycles)
	if result.Truncated {
		fmt.Fprintf(&b, "Request truncated to %d cycles\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped: %s\n", result.StoppedReason)
	}
	fmt.Fprintf(&b, "Wanderers flattened: %d • Trolleys lost: %d • Crashes: %d • Score +%d\n",
		result.NPCsEliminated, result.TrainsDestroyed, len(result.Crashes), result.ScoreDelta)

	if len(result.Events) > 0 {
		b.WriteString("\n")
		formatEvents(&b, result.Events)
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event History (Page %d/%d) - Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalEvents)

	for _, event := range history.Events {
		fmt.Fprintf(&b, "%d. [cycle %d] %s at %s", event.Sequence, event.Cycle, event.Type, event.Position)
		if event.Message != "" {
			fmt.Fprintf(&b, ": %s", event.Message)
		}
		b.WriteString("\n")
	}
	if len(history.Events) == 0 {
		b.WriteString("(no events)\n")
	}

	return b.String()
}
