// Package cli provides the interactive ProjectGate command-line client.
//
// It wires configuration, the gRPC client and an interactive REPL. The user
// registers or logs in, after which the CLI keeps the issued access token in
// memory and sends it with every call until logout or exit.
//
// Key features:
//   - Register / Login / Logout / WhoAmI
//   - List, create and delete projects
//   - Change the role of an account or delete it (admin only)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
