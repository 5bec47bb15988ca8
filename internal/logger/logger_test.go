package logger

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type refusal struct{}

func (refusal) Error() string   { return "refused" }
func (refusal) Rejection() bool { return true }

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	prev := Get()
	t.Cleanup(func() { SetDefault(prev) })
	var buf bytes.Buffer
	SetDefault(New(&buf, level, "text"))
	return &buf
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("Debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "INFO", parseLevel("bogus").String())
}

func TestExitMethodWithError(t *testing.T) {
	t.Run("Rejection Logged At Debug", func(t *testing.T) {
		buf := capture(t, "info")
		ExitMethodWithError("tradeService.AcceptTrade", fmt.Errorf("wrapped: %w", refusal{}))
		assert.Empty(t, buf.String())
	})

	t.Run("Failure Logged At Error", func(t *testing.T) {
		buf := capture(t, "info")
		ExitMethodWithError("tradeService.AcceptTrade", errors.New("connection reset"))
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "method=tradeService.AcceptTrade")
	})
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "debug", "json").Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}
