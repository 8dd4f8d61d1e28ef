// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this
// package defines the configuration structure for server settings: the listen
// port and the API key protecting the back-office endpoints.
package server
