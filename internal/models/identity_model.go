package models

type Identity struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Biography         string `json:"threads_biography,omitempty"`
	ProfilePictureURL string `json:"threads_profile_picture_url,omitempty"`
}

// Session is what a validated request carries downstream. The credential stays opaque.
type Session struct {
	Credential string
	RemoteID   string
}
