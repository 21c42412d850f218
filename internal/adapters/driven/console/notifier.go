package console

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/k02miu/inner-rag/internal/core/ports/driven"
)

// Ensure Notifier implements driven.Notifier
var _ driven.Notifier = (*Notifier)(nil)

// Notifier writes notices to a writer. Used by the CLI, where there is no
// chat thread to reply into.
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewNotifier creates a notifier writing to w
func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

// Post writes text on its own line. Channel and thread are ignored.
func (n *Notifier) Post(_ context.Context, _, text, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	_, err := fmt.Fprintln(n.w, text)
	return err
}
