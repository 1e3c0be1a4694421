package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffDoubles(t *testing.T) {
	min := 100 * time.Millisecond
	max := 1 * time.Second

	assert.Equal(t, 100*time.Millisecond, backoffDuration(min, max, 1))
	assert.Equal(t, 200*time.Millisecond, backoffDuration(min, max, 2))
	assert.Equal(t, 400*time.Millisecond, backoffDuration(min, max, 3))
}

func TestBackoffCapped(t *testing.T) {
	min := 100 * time.Millisecond
	max := 1 * time.Second

	assert.Equal(t, max, backoffDuration(min, max, 10))
	assert.Equal(t, min, backoffDuration(min, max, 0))
}
