package testutils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/require"
)

// ExampleYAML describes Root = [A = [T1, T2], B = [T3]] using leaf shorthand.
const ExampleYAML = `name: root
children:
  - name: A
    children: [T1, T2]
  - name: B
    children: [T3]
`

// ExampleSpec is ExampleYAML as a NodeSpec.
func ExampleSpec() domain.NodeSpec {
	return domain.Group("root",
		domain.Group("A", domain.Leaf("T1"), domain.Leaf("T2")),
		domain.Group("B", domain.Leaf("T3")),
	)
}

// WriteTreeFile writes content to name inside a fresh temp dir and returns its path.
// It fails the test immediately on error.
func WriteTreeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "Failed to write tree file")
	return path
}

// Recorder is a subscriber that keeps every message it receives.
// It is safe for concurrent use.
type Recorder struct {
	Name string

	mu       sync.Mutex
	messages []string
}

// Receive implements notify.Subscriber.
func (r *Recorder) Receive(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the received messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
