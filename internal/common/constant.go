package common

// AuthorizationHeaderName carries "Bearer <access token>" on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// DefaultPageSize is used by post listings when the caller passes no limit.
const DefaultPageSize = 10
