package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/datatypes"
)

func TestSliceToJSONRoundTrip(t *testing.T) {
	j, err := SliceToJSON([]string{"Python", "Go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "Go"}, JSONToStringSlice(j))
}

func TestJSONToStringSliceInvalidInput(t *testing.T) {
	// 空列和坏数据都退化为空切片，调用侧不用判nil
	assert.Equal(t, []string{}, JSONToStringSlice(nil))
	assert.Equal(t, []string{}, JSONToStringSlice(datatypes.JSON(`{"not":"a list"}`)))
}

func TestMapToJSON(t *testing.T) {
	j, err := MapToJSON(map[string]interface{}{"overall": 0.8})
	require.NoError(t, err)
	assert.JSONEq(t, `{"overall":0.8}`, string(j))
}
