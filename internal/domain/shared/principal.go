package shared

// Principal is the authenticated caller attached to a request once its bearer
// token has been verified. Claims holds the full decoded claim set.
type Principal struct {
	Subject  string         `json:"sub"`
	Username string         `json:"username,omitempty"`
	TokenID  string         `json:"jti,omitempty"`
	Claims   map[string]any `json:"claims,omitempty"`
}
