package utils

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// StringPtr 返回字符串的指针
func StringPtr(s string) *string {
	return &s
}

// StringPtrOrNil 空字符串返回nil，用于可空外键列
func StringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// TimePtr returns a pointer to a time.Time object
func TimePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// IntPtr returns a pointer to an int
func IntPtr(i int) *int {
	return &i
}

// CalculateMD5 computes the MD5 hash of a byte slice.
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// ConvertArrayToJSON 辅助函数: 将字符串数组转换为JSON
func ConvertArrayToJSON(arr []string) datatypes.JSON {
	if len(arr) == 0 {
		return datatypes.JSON("[]")
	}

	jsonBytes, err := json.Marshal(arr)
	if err != nil {
		return datatypes.JSON("[]")
	}

	return datatypes.JSON(jsonBytes)
}
