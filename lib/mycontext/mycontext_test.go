package mycontext

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextFromHTTPRequest(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "flores")

	request, err := http.NewRequest(http.MethodGet, "/cart", nil)
	assert.NoError(t, err)
	request.Header.Set("X-Cloud-Trace-Context", "105445aa7843bc8bf206b12000100000/1;o=1")

	c := ContextFromHTTPRequest(request)

	assert.Equal(t, "projects/flores/traces/105445aa7843bc8bf206b12000100000", Trace(c))
}

func TestUserID(t *testing.T) {
	t.Run("Absent", func(t *testing.T) {
		_, found := UserID(context.TODO())
		assert.False(t, found)
	})

	t.Run("Empty", func(t *testing.T) {
		_, found := UserID(WithUserID(context.TODO(), ""))
		assert.False(t, found)
	})

	t.Run("Present", func(t *testing.T) {
		uid, found := UserID(WithUserID(context.TODO(), "user123"))
		assert.True(t, found)
		assert.Equal(t, "user123", uid)
	})
}
