package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/auth"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/models"
	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/store"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

type fakeGateway struct {
	token   string
	err     error
	charged []float64
	nonces  []string
}

func (g *fakeGateway) ClientToken(context.Context) (string, error) {
	return g.token, g.err
}

func (g *fakeGateway) Sale(_ context.Context, nonce string, amount float64) (*models.Payment, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.charged = append(g.charged, amount)
	g.nonces = append(g.nonces, nonce)
	return &models.Payment{TransactionID: "tx-1", Status: "submitted_for_settlement", Amount: amount, Success: true}, nil
}

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	store  *store.Store
	tokens *auth.Issuer
	gw     *fakeGateway
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	env := &testEnv{
		t:      t,
		store:  store.NewMemory(),
		tokens: auth.NewIssuer("test-secret"),
		gw:     &fakeGateway{token: "client-token"},
	}
	opts = append([]Option{WithPayments(env.gw)}, opts...)
	h := New(env.store, env.tokens, opts...)
	env.router = gin.New()
	SetupRoutes(env.router, h)
	return env
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(e.t, err)
			r = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type upload struct {
	name string
	data []byte
}

func (e *testEnv) multipart(method, path string, fields map[string]string, photo *upload, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if photo != nil {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="photo"; filename="`+photo.name+`"`)
		hdr.Set("Content-Type", "application/octet-stream")
		part, err := mw.CreatePart(hdr)
		require.NoError(e.t, err)
		_, err = part.Write(photo.data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// user creates an account directly in the store and returns it with a token.
func (e *testEnv) user(email string, role int) (*models.User, string) {
	e.t.Helper()
	hash, err := auth.HashPassword("password1")
	require.NoError(e.t, err)
	u := &models.User{
		Name: "User " + email, Email: email, Password: hash,
		Phone: "123", Address: "1 Road", Answer: "football", Role: role,
	}
	require.NoError(e.t, e.store.Users.Create(context.Background(), u))
	token, err := e.tokens.Issue(u.ID)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) admin() string {
	_, token := e.user("admin@shop.test", models.RoleAdmin)
	return token
}

func (e *testEnv) category(name string) *models.Category {
	e.t.Helper()
	c := &models.Category{Name: name, Slug: name}
	require.NoError(e.t, e.store.Categories.Create(context.Background(), c))
	return c
}

func (e *testEnv) product(name string, price float64, cat *models.Category) *models.Product {
	e.t.Helper()
	p := &models.Product{
		Name: name, Slug: name, Description: name + " description",
		Price: price, CategoryID: cat.ID, Quantity: 5,
	}
	require.NoError(e.t, e.store.Products.Create(context.Background(), p))
	return p
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// failingCache errors on every call.
type failingCache struct{}

var errCacheDown = errors.New("cache down")

func (failingCache) Get(context.Context, string, any) (bool, error) { return false, errCacheDown }
func (failingCache) Set(context.Context, string, any) error         { return errCacheDown }
func (failingCache) Delete(context.Context, ...string) error        { return errCacheDown }
