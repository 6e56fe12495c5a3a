// Package server runs the HTTP server of the duct-tape application and
// shuts it down gracefully on SIGTERM, SIGINT or SIGQUIT.
package server
