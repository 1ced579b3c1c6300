// Package client is the CLI's gRPC client for the ProjectGate server. It
// keeps the access token returned by Login and attaches it as a bearer
// credential to every later call.
package client
