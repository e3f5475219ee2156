// Package api serves the operations dashboard REST API and its live
// snapshot feed.
package api
