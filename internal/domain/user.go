package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Session is the client's local record of who is logged in. It is either
// complete or absent; a partially populated Session is treated as absent.
type Session struct {
	Token    string `json:"token"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

func (s Session) Valid() bool {
	return s.Token != "" && s.Role != "" && s.Username != ""
}

type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	Role     Role   `json:"role"`
	Username string `json:"username"`
}

func (r *LoginResponse) Validate() error {
	if r.Token == "" || r.Role == "" || r.Username == "" {
		return ErrIncompleteResponse
	}
	return nil
}

func (r *LoginResponse) Session() Session {
	return Session{Token: r.Token, Role: r.Role, Username: r.Username}
}

// MessageResponse is the `{"message": "..."}` body most mutating endpoints reply with.
type MessageResponse struct {
	Message string `json:"message"`
}
