package editor

import (
	"errors"
	"fmt"

	"github.com/AnyUserName/kawaiibooth/internal/export"
	"github.com/AnyUserName/kawaiibooth/internal/photo"
	"github.com/AnyUserName/kawaiibooth/internal/provider"
)

// NoticeKind classifies a message for the user.
type NoticeKind int

const (
	Info NoticeKind = iota
	Warning
	Failure
)

func (k NoticeKind) String() string {
	switch k {
	case Info:
		return "info"
	case Warning:
		return "warning"
	}
	return "error"
}

// Notice is a user-facing message. Failures never change session state.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Message, n.Err)
	}
	return n.Message
}

// describe turns an error into the message shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, provider.ErrNotConfigured):
		return "Sticker generation needs an API key"
	case errors.Is(err, provider.ErrNoImage):
		return "No sticker came back, try another prompt"
	case errors.Is(err, photo.ErrDecode):
		return "That image could not be read"
	case errors.Is(err, export.ErrNoPhotos):
		return "Nothing to animate: no photo could be decoded"
	case errors.Is(err, export.ErrInFlight):
		return "Still working on the last export"
	}
	var se *provider.StatusError
	if errors.As(err, &se) {
		return "Failed to generate sticker. Try again!"
	}
	return "Something went wrong"
}
