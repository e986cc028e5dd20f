package graphql

import "context"

// AuthorizationHeader carries the raw token, without a scheme prefix.
const AuthorizationHeader = "Authorization"

// TokenSource returns the current token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// AuthLink sets the Authorization header from tokens on every call.
// The token is never cached: each operation reads it again.
func AuthLink(tokens TokenSource) Link {
	return func(next Handler) Handler {
		return func(ctx context.Context, op *Operation) (*Response, error) {
			token := ""
			if tokens != nil {
				token = tokens.Token()
			}
			authed := op.Clone()
			authed.Headers.Set(AuthorizationHeader, token)
			return next(ctx, authed)
		}
	}
}
