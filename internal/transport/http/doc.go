// Package http contains the chi HTTP handlers for the dashboard API.
package http
