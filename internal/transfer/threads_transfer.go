package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// RemoteID is a platform identifier that may arrive as a JSON string or number. Numbers
// are kept verbatim so 64-bit ids never pass through float64.
type RemoteID string

func (id *RemoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RemoteID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("remote id is neither string nor number: %w", err)
	}
	*id = RemoteID(n.String())
	return nil
}

func (id RemoteID) String() string { return string(id) }

type ThreadsToken struct {
	AccessToken string   `json:"access_token"`
	UserID      RemoteID `json:"user_id"`
}

type ThreadsRefreshedToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type ThreadsUserInfo struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	ProfilePictureURL string `json:"threads_profile_picture_url"`
	Biography         string `json:"threads_biography"`
}

type ThreadsMediaResponse struct {
	ID RemoteID `json:"id"`
}

type ThreadsErrorResponse struct {
	Error struct {
		Message        string `json:"message"`
		Type           string `json:"type"`
		Code           int    `json:"code"`
		ErrorSubcode   int    `json:"error_subcode"`
		IsTransient    bool   `json:"is_transient"`
		ErrorUserTitle string `json:"error_user_title"`
		ErrorUserMsg   string `json:"error_user_msg"`
		FbtraceID      string `json:"fbtrace_id"`
	} `json:"error"`
}

// ExchangeResponse is returned to the client after a successful code exchange.
type ExchangeResponse struct {
	AccessToken string       `json:"access_token"`
	User        ExchangeUser `json:"user"`
}

type ExchangeUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type PublishResponse struct {
	Message  string `json:"message"`
	ThreadID string `json:"thread_id"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StateClaims are carried by the signed OAuth state parameter.
type StateClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}
