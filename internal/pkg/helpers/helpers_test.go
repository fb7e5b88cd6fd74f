package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesSearch(t *testing.T) {
	assert.True(t, MatchesSearch("", "anything"))
	assert.True(t, MatchesSearch("  ", "anything"))
	assert.True(t, MatchesSearch("dbms", "Intro to DBMS"))
	assert.True(t, MatchesSearch("NOTES", "Calculus", "handwritten notes"))
	assert.False(t, MatchesSearch("physics", "Calculus", ""))
}

func TestStringPtr(t *testing.T) {
	assert.Nil(t, StringPtr(""))
	assert.Nil(t, StringPtr("   "))
	assert.Equal(t, "x", *StringPtr("x"))
	assert.Equal(t, "", StringValue(nil))
}

func TestCalculateOffsetLimit(t *testing.T) {
	offset, limit := CalculateOffsetLimit(3, 20)
	assert.Equal(t, uint64(40), offset)
	assert.Equal(t, 20, limit)

	offset, limit = CalculateOffsetLimit(0, 1000)
	assert.Equal(t, uint64(0), offset)
	assert.Equal(t, DefaultPageSize, limit)
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(25, 2, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)

	clamped := NewPaginationInfo(5, 9, 10)
	assert.Equal(t, 1, clamped.CurrentPage)
}
