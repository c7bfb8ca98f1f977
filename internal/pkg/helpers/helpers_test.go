package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		page, size            int
		wantOffset, wantLimit uint64
	}{
		{1, 10, 0, 10},
		{3, 25, 50, 25},
		{0, 10, 0, 10},
		{2, 0, 10, 10},
		{2, 500, 10, 10},
	}
	for _, tt := range tests {
		offset, limit := CalculateOffsetLimit(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, offset)
		assert.Equal(t, tt.wantLimit, limit)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	info := NewPaginationInfo(21, 2, 10)
	assert.Equal(t, 3, info.TotalPages)
	assert.Equal(t, 2, info.CurrentPage)
	assert.Equal(t, 10, info.PerPage)
	assert.Equal(t, int64(21), info.TotalItems)

	empty := NewPaginationInfo(0, 1, 10)
	assert.Equal(t, 1, empty.TotalPages)
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query              string
		wantPage, wantSize int
	}{
		{"", 1, 10},
		{"?page=3&per_page=20", 3, 20},
		{"?page=-1&per_page=abc", 1, 10},
		{"?per_page=1000", 1, 100},
		{"?size=15", 1, 15},
		{"?per_page=5&size=15", 1, 5},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/api/showStudents"+tt.query, nil)

		page, size := ParsePaginationParams(c)
		assert.Equal(t, tt.wantPage, page, tt.query)
		assert.Equal(t, tt.wantSize, size, tt.query)
	}
}

func TestSQLHelpers(t *testing.T) {
	assert.Nil(t, NilIfEmpty("  "))
	assert.Equal(t, "Jr.", *NilIfEmpty(" Jr. "))
	assert.Equal(t, "", StringValue(nil))
	assert.Equal(t, `%50\%\_off%`, LikePattern("50%_off"))
}
