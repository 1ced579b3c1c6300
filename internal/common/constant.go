package common

// AuthorizationHeaderName is the gRPC metadata key carrying the bearer
// credential on authenticated requests.
const AuthorizationHeaderName = "authorization"

// BearerPrefix precedes the token inside the authorization header value.
const BearerPrefix = "Bearer "
