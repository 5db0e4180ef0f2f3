package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelsMatchThroughWrapping(t *testing.T) {
	err := fmt.Errorf("c.jpg: %w", ErrFileTooLarge)

	assert.True(t, errors.Is(err, ErrFileTooLarge))
	assert.False(t, errors.Is(err, ErrUnsupportedMedia))
	assert.False(t, errors.Is(ErrOriginalUnavailable, ErrNotStored))
}

func TestMaxUploadSize(t *testing.T) {
	assert.Equal(t, int64(10<<20), MaxUploadSize)
}
