package eventbus

import (
	"context"

	"github.com/portfolio/projects-api/internal/domain/event"
)

// Publisher fans project change events out to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, e event.Event) error
}
