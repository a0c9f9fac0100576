package common

// AuthorizationHeaderName is the HTTP header that carries the bearer token
// on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerSchemePrefix is the expected prefix of the Authorization header value.
const BearerSchemePrefix = "Bearer "
