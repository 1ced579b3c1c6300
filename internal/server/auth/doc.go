// Package auth is the credential and access-control core of ProjectGate.
//
// The flow is: Hasher turns a password into stored hash material and checks
// it on login; TokenCodec issues and decodes HS256 bearer tokens; Resolver
// turns a bearer token into a Principal by decoding it and re-reading the
// account, so the role in effect is always the stored one; Gate decides
// whether a Principal satisfies a role requirement.
//
// Every component is built from explicit configuration and holds no mutable
// state, so one instance serves all requests concurrently.
package auth
