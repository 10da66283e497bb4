// Package middlewares provides router-level HTTP middleware for
// gatehouse applications, registered through WithHTTPMiddleware:
//
//	app, err := gatehouse.New(
//	    gatehouse.WithHTTPMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(log),
//	        middlewares.Timeout(30*time.Second),
//	    ),
//	)
//
// RequestID tags each request for tracing; pair it with
// RequestIDEnricher so every log line carries the ID. Recover turns
// handler panics into 500 responses. Timeout bounds the request
// context. CORS answers cross-origin preflight requests.
package middlewares
