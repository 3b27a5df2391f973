package runAvg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddWithoutWindowReturnsLatestSample(t *testing.T) {
	tr := New(0)
	assert.Equal(t, 5.0, tr.Add(5.0))
	assert.Equal(t, 9.0, tr.Add(9.0))
}

func TestAddSlidesWindow(t *testing.T) {
	tr := New(3)
	assert.Equal(t, 1.0, tr.Add(1.0))
	assert.Equal(t, 1.5, tr.Add(2.0))
	assert.Equal(t, 2.0, tr.Add(3.0))
	// Window is full; adding 7 evicts the 1.0 sample.
	assert.InDelta(t, 4.0, tr.Add(7.0), 1e-9)
}

func TestAverageOnEmptyWindow(t *testing.T) {
	tr := New(3)
	_, err := tr.Average()
	assert.ErrorIs(t, err, ErrEmptyWindow)
}
