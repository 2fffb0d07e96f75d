package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, query string) Pagination {
	t.Helper()
	var p Pagination
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		p = ParseFromRequest(c, MaxLimit)
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+query, nil))
	require.NoError(t, err)
	return p
}

func TestParseFromRequest(t *testing.T) {
	tests := []struct {
		query string
		want  Pagination
	}{
		{"", Pagination{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{"?page=3&limit=10", Pagination{Page: 3, Limit: 10, Offset: 20}},
		{"?page=0&limit=-5", Pagination{Page: 1, Limit: DefaultLimit, Offset: 0}},
		{"?page=abc&limit=5000", Pagination{Page: 1, Limit: MaxLimit, Offset: 0}},
		{"?page=9223372036854775807&limit=100", Pagination{Page: MaxPage, Limit: 100, Offset: (MaxPage - 1) * 100}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parse(t, tt.query), tt.query)
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(0), Pagination{Limit: 10}.TotalPages())
	assert.Equal(t, int64(1), Pagination{Limit: 10, Total: 10}.TotalPages())
	assert.Equal(t, int64(2), Pagination{Limit: 10, Total: 11}.TotalPages())
}
