package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractName(t *testing.T) {
	t.Run("首行全名", func(t *testing.T) {
		text := "John Smith\nSoftware Engineer\njohn@acme.io"
		assert.Equal(t, "John Smith", extractName(text))
	})

	t.Run("跳过Resume标题行", func(t *testing.T) {
		text := "Resume\nJane Doe\nProduct Manager"
		assert.Equal(t, "Jane Doe", extractName(text))
	})

	t.Run("Name标注形式", func(t *testing.T) {
		text := "CONTACT INFORMATION\nName: Mary Ann Lee\nPhone: (555) 123-4567"
		assert.Equal(t, "Mary Ann Lee", extractName(text))
	})

	t.Run("全大写不算姓名", func(t *testing.T) {
		text := "JOHN SMITH\n\nexperienced developer"
		assert.Equal(t, "", extractName(text))
	})

	t.Run("超过前10行不再扫描", func(t *testing.T) {
		text := "a\nb\nc\nd\ne\nf\ng\nh\ni\nj\nJohn Smith"
		assert.Equal(t, "", extractName(text))
	})
}

func TestExtractEmail(t *testing.T) {
	denylist := []string{"example.com", "test.com", "placeholder"}

	t.Run("占位域名被过滤", func(t *testing.T) {
		text := "Email: John.Doe@Example.com or john.doe@acme.io"
		assert.Equal(t, "john.doe@acme.io", extractEmail(text, denylist))
	})

	t.Run("结果统一小写", func(t *testing.T) {
		text := "Reach me at Jane.DOE@Acme.IO"
		assert.Equal(t, "jane.doe@acme.io", extractEmail(text, denylist))
	})

	t.Run("无邮箱返回空", func(t *testing.T) {
		assert.Equal(t, "", extractEmail("no contact info here", denylist))
	})
}

func TestExtractPhone(t *testing.T) {
	t.Run("美式格式", func(t *testing.T) {
		assert.Equal(t, "(555) 123-4567", extractPhone("Call me at (555) 123-4567 anytime"))
	})

	t.Run("国际格式", func(t *testing.T) {
		assert.Equal(t, "+1-555-123-4567", extractPhone("Phone +1-555-123-4567"))
	})

	t.Run("点分格式", func(t *testing.T) {
		assert.Equal(t, "555.123.4567", extractPhone("Tel: 555.123.4567"))
	})

	t.Run("带标签的非常规分组", func(t *testing.T) {
		assert.Equal(t, "12 34 56 78 90", extractPhone("Phone: 12 34 56 78 90"))
	})

	t.Run("位数不足被拒绝", func(t *testing.T) {
		assert.Equal(t, "", extractPhone("Call 123-4567"))
	})
}

func TestExtractExperience(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)

	t.Run("直接表述", func(t *testing.T) {
		assert.Equal(t, "7+ years", extractExperience("I have 7 years of experience in backend work", now))
	})

	t.Run("over形式", func(t *testing.T) {
		assert.Equal(t, "12+ years", extractExperience("Over 12 years building distributed systems", now))
	})

	t.Run("年份跨度推算", func(t *testing.T) {
		assert.Equal(t, "5+ years", extractExperience("Worked at Acme from 2016 to 2021", now))
	})

	t.Run("结束年份不超过当前年", func(t *testing.T) {
		assert.Equal(t, "11+ years", extractExperience("2015 - 2030", now))
	})

	t.Run("单个年份无法推算", func(t *testing.T) {
		assert.Equal(t, "", extractExperience("Graduated in 2020", now))
	})
}

func TestExtractEducation(t *testing.T) {
	t.Run("学位加院校", func(t *testing.T) {
		result := extractEducation("Bachelor of Science in Computer Science from Stanford University")
		assert.Contains(t, result, "Bachelor of Science")
		assert.Contains(t, result, "University")
	})

	t.Run("博士学位", func(t *testing.T) {
		assert.Equal(t, "PhD", extractEducation("PhD in Physics"))
	})

	t.Run("无学历信息", func(t *testing.T) {
		assert.Equal(t, "", extractEducation("ten years writing firmware"))
	})

	t.Run("超过上限只保留前三项", func(t *testing.T) {
		text := "Bachelor of Arts. Bachelor of Science. Bachelor of Music. Bachelor of Laws."
		assert.Equal(t, "Bachelor of Arts; Bachelor of Science; Bachelor of Music", extractEducation(text))
	})
}

func TestExtractLocation(t *testing.T) {
	t.Run("Location标注", func(t *testing.T) {
		assert.Equal(t, "San Francisco, CA", extractLocation("Location: San Francisco, CA"))
	})

	t.Run("无地址信息", func(t *testing.T) {
		assert.Equal(t, "", extractLocation("1234567890"))
	})
}

func TestExtractSalaryExpectation(t *testing.T) {
	t.Run("Salary标注", func(t *testing.T) {
		assert.Equal(t, "120,000", extractSalaryExpectation("Expected Salary: $120,000"))
	})

	t.Run("k缩写", func(t *testing.T) {
		assert.Equal(t, "95k", extractSalaryExpectation("asking $95k per year"))
	})

	t.Run("无薪资信息", func(t *testing.T) {
		assert.Equal(t, "", extractSalaryExpectation("compensation negotiable"))
	})
}
