package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInterruptHandler_DefaultsWriter(t *testing.T) {
	handler := NewInterruptHandler(nil, "")
	assert.NotNil(t, handler.writer)
	assert.False(t, handler.WasInterrupted())
}

func TestInterruptHandler_CancelsContext(t *testing.T) {
	output := &bytes.Buffer{}
	handler := NewInterruptHandler(output, "Imported statements were kept.")

	ctx, stop := handler.HandleInterrupts(context.Background())
	defer stop()

	select {
	case <-ctx.Done():
		t.Fatal("Context should not be canceled initially")
	default:
	}

	handler.interrupt()

	<-ctx.Done()
	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "Interrupted!")
	assert.Contains(t, output.String(), "Imported statements were kept.")
}

func TestInterruptHandler_MessageShownOnce(t *testing.T) {
	output := &bytes.Buffer{}
	handler := NewInterruptHandler(output, "")
	_, stop := handler.HandleInterrupts(context.Background())
	defer stop()

	handler.interrupt()
	handler.interrupt()

	assert.Equal(t, 1, strings.Count(output.String(), "Interrupted!"))
}

func TestInterruptHandler_StopCancels(t *testing.T) {
	handler := NewInterruptHandler(&bytes.Buffer{}, "")
	ctx, stop := handler.HandleInterrupts(context.Background())

	stop()

	<-ctx.Done()
	assert.False(t, handler.WasInterrupted())
}
