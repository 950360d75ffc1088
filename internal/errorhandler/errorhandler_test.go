package errorhandler

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withTestHandler(t *testing.T, exitOnCritical bool) (*bytes.Buffer, *int) {
	t.Helper()
	var buf bytes.Buffer
	code := -1
	Init(true, exitOnCritical, true)
	current.console = &buf
	current.exit = func(c int) { code = c }
	t.Cleanup(func() { Init(true, false, true) })
	return &buf, &code
}

func TestHandleCriticalError(t *testing.T) {
	buf, code := withTestHandler(t, true)

	HandleCriticalError(errors.New("failed to set Multimedia default: E_FAIL"), "Failed to cycle device")

	assert.Contains(t, buf.String(), "Failed to cycle device: failed to set Multimedia default")
	assert.Equal(t, 1, *code)
}

func TestHandleCriticalErrorNil(t *testing.T) {
	buf, code := withTestHandler(t, true)

	HandleCriticalError(nil, "nothing")

	assert.Empty(t, buf.String())
	assert.Equal(t, -1, *code)
}

func TestHandlePanicRecovers(t *testing.T) {
	buf, code := withTestHandler(t, false)

	func() {
		defer HandlePanic()
		panic("boom")
	}()

	assert.Contains(t, buf.String(), "boom")
	assert.Equal(t, -1, *code)
}
