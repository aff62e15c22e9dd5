// Package server exposes a dispatch router over HTTP.
//
// # Endpoints
//
//   - GET /healthz: liveness probe
//   - GET /_lfnd/routes: registered patterns as JSON
//   - GET /_lfnd/ws: WebSocket navigation channel
//   - metrics path (default /metrics): Prometheus exposition
//   - everything else: resolved through the router
//
// # Navigation Channel
//
// Each WebSocket connection owns a navigator.Navigator, so history is kept
// per connection the way a browser keeps it per tab. Clients send JSON
// commands and receive one reply per command:
//
//	-> {"type":"navigate","path":"/users/42"}
//	<- {"type":"navigate","path":"/users/42","outcome":"matched","status":200,...}
//
// Supported command types are navigate, dispatch, back and forward.
package server
