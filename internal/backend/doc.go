// Package backend describes the remote REST store the frontend optionally
// persists chat messages to. It normalizes the configured address and key and
// builds the request headers and payloads used to talk to it.
package backend
