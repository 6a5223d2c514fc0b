package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func runRequireRoles(t *testing.T, roleClaim interface{}) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if roleClaim != nil {
		ctx.Set("member_role", roleClaim)
	}

	RequireRoles("ADMIN")(ctx)
	return w.Code
}

func TestRequireRolesAcceptsMatchingRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	ctx.Set("member_role", "ADMIN")

	RequireRoles("ADMIN")(ctx)
	assert.False(t, ctx.IsAborted())
}

func TestRequireRolesRejectsWrongRole(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, runRequireRoles(t, "CREW"))
}

func TestRequireRolesRejectsMissingClaim(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, runRequireRoles(t, nil))
}

func TestRequireRolesRejectsNonStringClaim(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, runRequireRoles(t, 42))
}
