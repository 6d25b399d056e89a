package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatOrderCode(t *testing.T) {
	day := time.Date(2026, time.August, 29, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "ORD-20260829-0001", FormatOrderCode(day, 1))
	assert.Equal(t, "ORD-20260829-0042", FormatOrderCode(day, 42))
	assert.Equal(t, "ORD-20260829-12345", FormatOrderCode(day, 12345))
}
