package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/store"
)

func newRouter(issuer *Issuer, users store.UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/user", RequireSignIn(issuer), func(c *gin.Context) {
		id, ok := UserID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.Hex())
	})
	r.GET("/admin", RequireSignIn(issuer), IsAdmin(users), func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	return r
}

func get(r http.Handler, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSignIn(t *testing.T) {
	issuer := NewIssuer("s3cret")
	st := store.NewMemory()
	r := newRouter(issuer, st.Users)

	u := &models.User{Email: "a@b.c", Name: "A"}
	require.NoError(t, st.Users.Create(context.Background(), u))
	token, err := issuer.Issue(u.ID)
	require.NoError(t, err)

	t.Run("raw token", func(t *testing.T) {
		w := get(r, "/user", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, u.ID.Hex(), w.Body.String())
	})
	t.Run("bearer token", func(t *testing.T) {
		w := get(r, "/user", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
	t.Run("missing", func(t *testing.T) {
		w := get(r, "/user", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("tampered", func(t *testing.T) {
		w := get(r, "/user", token+"x")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})
}

func TestIsAdmin(t *testing.T) {
	issuer := NewIssuer("s3cret")
	st := store.NewMemory()
	r := newRouter(issuer, st.Users)
	ctx := context.Background()

	customer := &models.User{Email: "c@x.io", Role: models.RoleCustomer}
	admin := &models.User{Email: "a@x.io", Role: models.RoleAdmin}
	require.NoError(t, st.Users.Create(ctx, customer))
	require.NoError(t, st.Users.Create(ctx, admin))

	ct, _ := issuer.Issue(customer.ID)
	at, _ := issuer.Issue(admin.ID)

	w := get(r, "/admin", ct)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UnAuthorized Access")

	w = get(r, "/admin", at)
	assert.Equal(t, http.StatusOK, w.Code)

	ghost, _ := issuer.Issue(customer.ID)
	st2 := store.NewMemory()
	w = get(newRouter(issuer, st2.Users), "/admin", ghost)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Error in admin middleware")
}
