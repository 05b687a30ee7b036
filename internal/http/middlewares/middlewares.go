// Package middlewares contains the HTTP middleware stack.
package middlewares

import "net/http"

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler
