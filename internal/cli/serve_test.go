package cli

import (
	"context"
	"testing"

	"github.com/matzehuels/dagscii/pkg/store"
)

// recordingStore captures the state of the context it was closed with.
type recordingStore struct {
	closed      bool
	errAtClose  error
	hadDeadline bool
}

func (s *recordingStore) Save(ctx context.Context, r store.Render) error {
	return nil
}

func (s *recordingStore) Get(ctx context.Context, hash string) (store.Render, error) {
	return store.Render{}, store.ErrNotFound
}

func (s *recordingStore) Close(ctx context.Context) error {
	s.closed = true
	s.errAtClose = ctx.Err()
	_, s.hadDeadline = ctx.Deadline()
	return nil
}

func TestCloseStoreUsesLiveContext(t *testing.T) {
	st := &recordingStore{}

	closeStore(st)

	if !st.closed {
		t.Fatal("closeStore() should call Close")
	}
	// The disconnect must still run even when the command context was
	// already cancelled by a signal.
	if st.errAtClose != nil {
		t.Errorf("Close received a dead context: %v", st.errAtClose)
	}
	if !st.hadDeadline {
		t.Error("closeStore() should bound the disconnect with a deadline")
	}
}

func TestServeCommandFlags(t *testing.T) {
	c := newTestCLI()
	cmd := c.serveCommand()

	for _, name := range []string{"addr", "redis", "mongo", "no-cache"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("serve command missing flag --%s", name)
		}
	}
	if got := cmd.Flags().Lookup("addr").DefValue; got != ":8080" {
		t.Errorf("addr default = %q, want %q", got, ":8080")
	}
}
