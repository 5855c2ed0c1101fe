// Package sse streams per-session game events over server-sent events.
//
// Each session gets its own stream, keyed by session ID. Every
// engine.GameEvent is sent with its UUID as the SSE id, its type as the
// SSE event name and its JSON encoding as data:
//
//	id: 6f1c...
//	event: npc_eliminated
//	data: {"id":"6f1c...","type":"npc_eliminated","cycle":12,...}
//
// Usage:
//
//	broker := sse.NewBroker()
//	defer broker.Shutdown()
//
//	http.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
//		broker.ServeSession(w, r, r.URL.Query().Get("session"))
//	})
//
//	broker.Publish(sessionID, result.Events...)
package sse
