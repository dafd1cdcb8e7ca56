package testing

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aws/smithy-go"

	"github.com/imamik/iacup/internal/config"
	"github.com/imamik/iacup/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// NewProvisioningContext returns a provisioning context for env with the
// emulator's default credentials and a RecordingObserver.
func NewProvisioningContext(t *testing.T, env config.Environment) *provisioning.Context {
	t.Helper()
	return &provisioning.Context{
		Context:     TestContext(t),
		Environment: env,
		Credentials: config.DefaultCredentials(t.TempDir()),
		State:       provisioning.NewState(),
		Observer:    NewRecordingObserver(),
	}
}

// Recorder returns the RecordingObserver of a context built by NewProvisioningContext.
func Recorder(ctx *provisioning.Context) *RecordingObserver {
	rec, ok := ctx.Observer.(*RecordingObserver)
	if !ok {
		panic(fmt.Sprintf("observer is %T, not *RecordingObserver", ctx.Observer))
	}
	return rec
}

// APIError builds a generic smithy API error with the given code.
func APIError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code + " (fake)"}
}

// CallLog records calls across fakes in the order they happen.
type CallLog struct {
	mu    sync.Mutex
	calls []string
}

// NewCallLog returns an empty call log.
func NewCallLog() *CallLog {
	return &CallLog{}
}

// Record appends a call name. A nil log ignores the call.
func (l *CallLog) Record(name string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

// Calls returns a copy of the recorded call names.
func (l *CallLog) Calls() []string {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}
