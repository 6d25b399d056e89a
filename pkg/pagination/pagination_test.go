package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsLimit(t *testing.T) {
	assert.Equal(t, Params{Limit: DefaultLimit, Offset: 0}, Params{}.Normalize())
	assert.Equal(t, Params{Limit: MaxLimit, Offset: 0}, Params{Limit: 1000}.Normalize())
	assert.Equal(t, Params{Limit: 10, Offset: 0}, Params{Limit: 10, Offset: -5}.Normalize())
}

func TestBuildMeta(t *testing.T) {
	meta := BuildMeta(Params{Limit: 50, Offset: 0}, 120, 50)
	assert.True(t, meta.HasMore)
	assert.Equal(t, int64(120), meta.Total)

	last := BuildMeta(Params{Limit: 50, Offset: 100}, 120, 20)
	assert.False(t, last.HasMore)
}
