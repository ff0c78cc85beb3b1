package types

// Session is the locally persisted login state: a bearer token and the customer it belongs to.
type Session struct {
	AccessToken  string `yaml:"access_token" json:"-"`
	CustomerUUID string `yaml:"customer_uuid" json:"customer_uuid"`
}

// Authorized reports whether a token is present. Nothing else is checked locally.
func (s Session) Authorized() bool {
	return s.AccessToken != ""
}

// SessionRequest is the JSON body for POST /api/console/v1/session.
// PhoneNumber and Password are only checked, never stored.
type SessionRequest struct {
	PhoneNumber  string `json:"phone_number"`
	Password     string `json:"password"`
	AccessToken  string `json:"access_token"`
	CustomerUUID string `json:"customer_uuid"`
}
