package quiverclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/archer-go/archer/internal/model"
)

func TestConnectionShutdownWithNoTrafficReturnsPromptly(t *testing.T) {
	conn := Dial("127.0.0.1:0", nil, nil)

	done := make(chan struct{})
	go func() {
		conn.Shutdown(2 * time.Second)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown did not return promptly with no outstanding traffic")
	}
}

func TestConnectionSendSpanAfterShutdownDoesNotBlock(t *testing.T) {
	conn := Dial("127.0.0.1:0", nil, nil)
	conn.Shutdown(100 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		conn.SendSpan(&model.Span{OperationName: "late"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SendSpan blocked after shutdown completed")
	}
	assert.True(t, true)
}
