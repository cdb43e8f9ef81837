package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := NewError(KindUnknownTool, "execute tool", "no tool named \"unknown_tool\"")

	assert.True(t, errors.Is(err, ErrUnknownTool))
	assert.False(t, errors.Is(err, ErrSchemaMismatch))
}

func TestError_IsThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("first completion: %w", WrapError(cause, KindBackendUnavailable, "chat", ""))

	assert.True(t, errors.Is(err, ErrBackendUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, KindBackendUnavailable, KindOf(err))
}

func TestError_Message(t *testing.T) {
	err := WrapError(errors.New("boom"), KindToolFailed, "get_weather", "request failed")

	assert.Equal(t, "get_weather: TOOL_FAILED: request failed: boom", err.Error())
	assert.Equal(t, "SCHEMA_MISMATCH", NewError(KindSchemaMismatch, "", "").Error())
}

func TestWrapError_Nil(t *testing.T) {
	assert.Nil(t, WrapError(nil, KindToolFailed, "op", "msg"))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestToolCallCorrelation_Valid(t *testing.T) {
	assert.True(t, CorrelateByID.Valid())
	assert.True(t, CorrelateByPosition.Valid())
	assert.False(t, ToolCallCorrelation("index").Valid())
}
