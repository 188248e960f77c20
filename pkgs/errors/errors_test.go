package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasNoCause(t *testing.T) {
	e := New(ErrUsage, "bad flag")
	assert.Equal(t, ErrUsage, e.Type)
	assert.Equal(t, ErrUsage+": bad flag", e.Error())
	assert.Nil(t, e.Cause)
}

func TestWrapCarriesCauseAndUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(ErrCacheIO, "could not write cache", cause)

	assert.Equal(t, cause, e.Unwrap())
	assert.Contains(t, e.Error(), "disk full")
	assert.True(t, errors.Is(e, cause))
}

func TestWithContextChains(t *testing.T) {
	e := New(ErrConfigParse, "bad yaml").WithContext("path", "/tmp/x.yaml")
	assert.Equal(t, "/tmp/x.yaml", e.Context["path"])
}

func TestIsErrorType(t *testing.T) {
	e := New(ErrFileNotFound, "nope")
	assert.True(t, IsErrorType(e, ErrFileNotFound))
	assert.False(t, IsErrorType(e, ErrUsage))
	assert.False(t, IsErrorType(errors.New("plain"), ErrFileNotFound))
}

func TestNewFileNotFoundErrorCarriesPath(t *testing.T) {
	cause := errors.New("no such file")
	e := NewFileNotFoundError("missing.lm", cause)
	require.Equal(t, ErrFileNotFound, e.Type)
	assert.Equal(t, "missing.lm", e.Context["path"])
	assert.Contains(t, e.Error(), "missing.lm")
}

func TestNewStepLimitErrorMentionsLimit(t *testing.T) {
	e := NewStepLimitError(10000)
	assert.Equal(t, ErrStepLimit, e.Type)
	assert.Equal(t, 10000, e.Context["maxSteps"])
}
