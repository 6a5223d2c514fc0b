package registrations

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRejectsNonStringMemberClaim(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/shifts/x/registrations",
		strings.NewReader(`{"contact_name":"Priya","contact_email":"priya@example.org"}`))
	ctx.Request.Header.Set("Content-Type", "application/json")
	ctx.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	// A malformed token can carry a non-string member_id claim; the handler
	// must reject it, not panic
	ctx.Set("member_id", 12345)

	NewController(nil).Register(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
