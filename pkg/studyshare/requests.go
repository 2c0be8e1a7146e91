package studyshare

import "io"

// IngestResourceRequest carries one upload: the raw bytes plus the
// user-supplied descriptive fields.
type IngestResourceRequest struct {
	FileName    string
	ContentType string
	Content     io.Reader
	Title       string
	Description string
	Tags        string
}

// RegisterUserRequest carries a registration attempt.
type RegisterUserRequest struct {
	Username string
	Password string
}
