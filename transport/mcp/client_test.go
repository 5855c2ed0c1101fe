package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/trolly/game/engine"
	"github.com/wricardo/trolly/game/service"
)

func newState() *engine.GameState {
	s := engine.NewGameState(12, 12, engine.Rules{NPCSpeed: 10, SplatLifetime: 4})
	s.PC.Position = engine.Position{X: 5, Y: 3}
	return s
}

func callTool(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("Expected result, got nil")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	baseURL := "http://localhost:8080"
	client := NewClient(baseURL + "/")

	if client == nil {
		t.Fatal("Expected client to be created")
	}

	if client.baseURL != baseURL {
		t.Errorf("Expected baseURL %s, got %s", baseURL, client.baseURL)
	}

	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}

	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	expectedResponse := map[string]interface{}{
		"id":    "test-session",
		"score": 5,
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(expectedResponse)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	err := client.apiCall(context.Background(), "GET", "/api/sessions/test-session", nil, &response)
	if err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}

	if response["id"] != expectedResponse["id"] {
		t.Errorf("Expected id %v, got %v", expectedResponse["id"], response["id"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	err := client.apiCall(context.Background(), "GET", "/api/sessions", nil, nil)
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "plain 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("Internal Server Error"))
			},
			want: "API error: 500",
		},
		{
			name: "JSON error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				json.NewEncoder(w).Encode(map[string]string{"error": "game is over"})
			},
			want: "game is over",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			err := NewClient(server.URL).apiCall(context.Background(), "GET", "/api/sessions", nil, nil)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected %q in error message, got: %v", tt.want, err)
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		resp := service.SessionInfo{
			ID:         "test-session-123",
			ConfigName: "classic",
			Seed:       42,
			GameState:  newState(),
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), callTool("create_session", map[string]interface{}{
		"config_id": "classic",
		"seed":      float64(42),
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"test-session-123", "Config: classic", "Seed: 42"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}

	if gotBody["config_id"] != "classic" || gotBody["seed"] != float64(42) {
		t.Errorf("Expected config_id and seed to be forwarded, got %v", gotBody)
	}
}

func TestClient_createSession_NoArguments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(service.SessionInfo{ID: "abcd", ConfigName: "classic"})
	}))
	defer server.Close()

	request := mcp.CallToolRequest{Params: mcp.CallToolParams{Name: "create_session"}}
	result, err := NewClient(server.URL).handleCreateSession(context.Background(), request)
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}
	if text := resultText(t, result); !strings.Contains(text, "abcd") {
		t.Errorf("Expected session ID in result, got: %s", text)
	}
}

func TestClient_move(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abcd/move" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["direction"] != "ne" {
			t.Errorf("Expected direction ne, got %q", body["direction"])
		}

		json.NewEncoder(w).Encode(service.ActionResult{
			Success:   true,
			GameState: newState(),
			Events: []engine.GameEvent{
				{Type: engine.EventPCMove, Cycle: 1, Position: engine.Position{X: 5, Y: 3}, Message: "Moved NE"},
			},
			PossibleMoves: []string{"N", "NE"},
			Danger:        "SAFE",
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleMove(context.Background(), callTool("move", map[string]interface{}{
		"session_id": "abcd",
		"direction":  "ne",
		"intent":     "get closer to the switch",
	}))
	if err != nil {
		t.Fatalf("handleMove failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"✓ Move successful", "pc_move at (5,3): Moved NE", "Possible moves: N,NE", "Risk: SAFE", "Position: (5,3)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_moveError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": `invalid direction: "sideways"`})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleMove(context.Background(), callTool("move", map[string]interface{}{
		"session_id": "abcd",
		"direction":  "sideways",
	}))
	if err != nil {
		t.Fatalf("handleMove returned a transport error: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error result")
	}
	if text := resultText(t, result); !strings.Contains(text, "invalid direction") {
		t.Errorf("Expected the API error in result, got: %s", text)
	}
}

func TestClient_advance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int
		json.NewDecoder(r.Body).Decode(&body)

		json.NewEncoder(w).Encode(service.AdvanceResponse{
			CyclesRun:       body["cycles"],
			RequestedCycles: 500,
			Truncated:       true,
			Limit:           engine.MaxBulkCycles,
			GameState:       newState(),
			CycleSummary:    service.CycleSummary{NPCsEliminated: 3, ScoreDelta: 3, TrainsDestroyed: 1},
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleAdvance(context.Background(), callTool("advance", map[string]interface{}{
		"session_id": "abcd",
		"cycles":     float64(100),
	}))
	if err != nil {
		t.Fatalf("handleAdvance failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Ran 100/500 cycles", "truncated to 100", "Wanderers flattened: 3", "Score +3"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_eventHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("order") != "asc" {
			t.Errorf("Unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Events: []engine.GameEvent{
				{Type: engine.EventNPCEliminated, Cycle: 7, Sequence: 6, Position: engine.Position{X: 1, Y: 2}},
			},
			TotalEvents: 6,
			Page:        2,
			PageSize:    5,
			TotalPages:  2,
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleEventHistory(context.Background(), callTool("event_history", map[string]interface{}{
		"session_id": "abcd",
		"page":       float64(2),
		"limit":      float64(5),
		"order":      "asc",
	}))
	if err != nil {
		t.Fatalf("handleEventHistory failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"Page 2/2", "Total: 6", "6. [cycle 7] npc_eliminated at (1,2)"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_describeCell(t *testing.T) {
	ne := engine.NorthEast
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abcd/cells/4/9" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(engine.CellInfo{
			Position: engine.Position{X: 4, Y: 9},
			Mask:     int(engine.NorthEast.Bit() | engine.SouthWest.Bit() | engine.East.Bit()),
			Tracks:   []string{"NE", "E", "SW"},
			Switch:   &ne,
			Occupants: []engine.Token{
				{ID: 7, Kind: engine.KindTrain, Dir: engine.East},
				{ID: 9, Kind: engine.KindNPC},
			},
		})
	}))
	defer server.Close()

	result, err := NewClient(server.URL).handleDescribeCell(context.Background(), callTool("describe_cell", map[string]interface{}{
		"session_id": "abcd",
		"x":          float64(4),
		"y":          float64(9),
	}))
	if err != nil {
		t.Fatalf("handleDescribeCell failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"(4,9)", "Character: +", "Track: NE, E, SW", "Switch: set to NE", "trolley #7 heading E", "wanderer #9"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
}

func TestClient_describeCell_BadCoordinates(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleDescribeCell(context.Background(), callTool("describe_cell", map[string]interface{}{
		"session_id": "abcd",
		"x":          "four",
	}))
	if err != nil {
		t.Fatalf("handleDescribeCell failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected a tool error for non-numeric coordinates")
	}
}

func TestFormatGameState(t *testing.T) {
	gameState := newState()
	gameState.Score = 10
	gameState.Cycle = 4
	gameState.Message = "Welcome aboard!"

	result := formatGameState(gameState)

	expectedFields := []string{
		"Position: (5,3)",
		"Cycle: 4",
		"Score: 10",
		"Danger: SAFE",
		"Local 3x3:",
		"Welcome aboard!",
	}

	for _, field := range expectedFields {
		if !strings.Contains(result, field) {
			t.Errorf("Expected field '%s' in formatted output, got: %s", field, result)
		}
	}
}

func TestFormatGameState_GameOver(t *testing.T) {
	gameState := newState()
	gameState.GameOver = true
	gameState.Message = "Game over!"

	result := formatGameState(gameState)

	if !strings.Contains(result, "💀 GAME OVER") {
		t.Errorf("Expected '💀 GAME OVER' in result, got: %s", result)
	}
}

func TestFormatGameState_Nil(t *testing.T) {
	if got := formatGameState(nil); got != "No game state available" {
		t.Errorf("Expected placeholder text, got %q", got)
	}
}

func TestFormatActionResult_Failed(t *testing.T) {
	result := formatActionResult("Move", &service.ActionResult{
		Success:   false,
		Message:   "A wanderer can't be pushed there",
		GameState: newState(),
	})

	if !strings.Contains(result, "✗ Move failed") {
		t.Errorf("Expected '✗ Move failed' in result, got: %s", result)
	}
	if !strings.Contains(result, "can't be pushed") {
		t.Errorf("Expected the message in result, got: %s", result)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callTool("game_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleGameInstructions failed: %v", err)
	}

	text := resultText(t, result)
	expectedContent := []string{
		"Trolly Rail Network - Complete Instructions",
		"BOARD LEGEND:",
		"EACH ACTION:",
		"MOVEMENT:",
		"SWITCHES:",
		"GAME OVER:",
	}

	for _, content := range expectedContent {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions, got: %s", content, text)
		}
	}
}
