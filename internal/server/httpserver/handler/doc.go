// Package handler provides the admin HTTP handlers.
//
// Responses use a JSON envelope (see Response) carrying the request ID
// assigned by the httpserver middleware.
package handler
