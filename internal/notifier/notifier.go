package notifier

import (
	"github.com/pfrederiksen/conf-hunt/internal/conference"
)

// Notifier defines the interface for delivering a digest
type Notifier interface {
	// Notify delivers the digest of the given conferences
	Notify(list *conference.List) error
}
