package media

import "context"

// Object is an in-memory blob headed for the media store.
type Object struct {
	Folder      string
	Filename    string
	ContentType string
	Data        []byte
}

// Store uploads a blob and returns a publicly resolvable URL.
type Store interface {
	Upload(ctx context.Context, obj Object) (string, error)
}
