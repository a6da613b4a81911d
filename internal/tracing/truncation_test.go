package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "张*", MaskPII("张三"))
	assert.Equal(t, "王*明", MaskPII("王小明"))
	assert.Equal(t, "ja************io", MaskPII("jane.doe@acme.io"))
}

func TestSafeAttributeValue(t *testing.T) {
	t.Run("敏感字段名触发掩码", func(t *testing.T) {
		masked := SafeAttributeValue("candidate.email", "jane.doe@acme.io", DefaultMaxLength)
		assert.NotContains(t, masked, "jane.doe")
		assert.True(t, strings.Contains(masked, "*"))
	})

	t.Run("薪资字段触发掩码", func(t *testing.T) {
		masked := SafeAttributeValue("salary_expectation", "120000", DefaultMaxLength)
		assert.Contains(t, masked, "*")
	})

	t.Run("普通字段只做截断", func(t *testing.T) {
		value := strings.Repeat("x", 300)
		result := SafeAttributeValue("queue", value, DefaultMaxLength)
		assert.LessOrEqual(t, len([]rune(result)), DefaultMaxLength)
		assert.Contains(t, result, "...")
	})
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))

	long := strings.Repeat("ab", 200)
	truncated := TruncateString(long, 20)
	assert.Contains(t, truncated, "...")
	assert.LessOrEqual(t, len([]rune(truncated)), 20)
}
