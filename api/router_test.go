package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"mime/multipart"
	"modfy_server/config"
	"modfy_server/lib"
	"modfy_server/services"
	"modfy_server/storage"
	"modfy_server/structs"
	"modfy_server/structs/tables"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testArgonParams = &lib.ArgonParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

type testApp struct {
	t      *testing.T
	server *httptest.Server
	store  storage.Storage
	cfg    *structs.Config
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	services.DefaultParams = testArgonParams

	cfg := config.Load()
	cfg.Storage.Driver = "memory"
	cfg.Auth.SessionStore = "memory"
	cfg.Email.ApiKey = ""
	cfg.RateLimit.Enabled = false
	cfg.Upload.Dir = t.TempDir()
	cfg.Upload.MaxBytes = 1 << 20

	store := storage.NewMemStorage()
	sm := services.NewServiceManager(gecho.NewDefaultLogger(), cfg, store, nil, services.NewMemorySessionStore())

	server := httptest.NewServer(App(cfg, sm))
	t.Cleanup(func() {
		server.Close()
		sm.EmailService.Wait()
	})
	return &testApp{t: t, server: server, store: store, cfg: cfg}
}

// client returns a browser-like client with its own cookie jar.
func (a *testApp) client() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(a.t, err)
	return &http.Client{Jar: jar}
}

func (a *testApp) do(c *http.Client, method, path string, body any) *http.Response {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (a *testApp) sessionID(c *http.Client) string {
	u, _ := url.Parse(a.server.URL)
	for _, cookie := range c.Jar.Cookies(u) {
		if cookie.Name == lib.SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

func (a *testApp) signup(c *http.Client, email string) {
	a.t.Helper()
	resp := a.do(c, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": email, "password": "correct-horse", "firstName": "Nimal", "lastName": "Perera",
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
}

func (a *testApp) loginAdmin(c *http.Client) {
	a.t.Helper()
	hash, err := lib.HashPassword("admin-password", testArgonParams)
	require.NoError(a.t, err)
	require.NoError(a.t, a.store.CreateUser(context.Background(), &tables.User{
		Email: "admin@modfy.test", PasswordHash: hash, FirstName: "Shop", LastName: "Admin", Role: tables.RoleAdmin,
	}))

	resp := a.do(c, http.MethodPost, "/api/auth/login", map[string]string{"email": "admin@modfy.test", "password": "admin-password"})
	require.Equal(a.t, http.StatusOK, resp.StatusCode)
}

func (a *testApp) product(name string, price uint64) *tables.Product {
	a.t.Helper()
	p := &tables.Product{
		Name: name, Slug: lib.Slugify(name), Price: price,
		Sizes: []string{"M", "L"}, StockQuantity: 10, PiecesPerPack: 1, IsActive: true,
	}
	require.NoError(a.t, a.store.CreateProduct(context.Background(), p))
	return p
}

// data decodes the envelope of resp and returns its data object.
func (a *testApp) data(resp *http.Response) map[string]any {
	a.t.Helper()
	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(a.t, envelope.Success)
	return envelope.Data
}

func checkoutBody() map[string]any {
	return map[string]any{
		"deliveryAddress": map[string]string{
			"fullName": "Nimal Perera", "addressLine1": "12 Galle Road", "city": "Colombo",
		},
		"phoneNumber": "0771234567",
	}
}

func TestHealthAndFallbackRoutes(t *testing.T) {
	app := newTestApp(t)
	c := app.client()

	for _, path := range []string{"/", "/health/server", "/health/database", "/health/cache", "/metrics"} {
		resp := app.do(c, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}

	resp := app.do(c, http.MethodGet, "/api/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestSignupLoginLogout(t *testing.T) {
	app := newTestApp(t)
	c := app.client()

	resp := app.do(c, http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "nimal@example.com", "password": "correct-horse", "firstName": "Nimal", "lastName": "Perera",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, app.sessionID(c))

	created := app.data(resp)
	assert.NotContains(t, created, "password")
	assert.NotContains(t, created, "passwordHash")
	assert.Equal(t, "nimal@example.com", created["email"])
	assert.Equal(t, "customer", created["role"])
	require.NotEmpty(t, created["id"])

	resp = app.do(c, http.MethodGet, "/api/auth/user", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	current := app.data(resp)
	assert.Equal(t, created["id"], current["id"])
	assert.Equal(t, created["email"], current["email"])
	assert.NotContains(t, current, "passwordHash")

	resp = app.do(app.client(), http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "NIMAL@example.com", "password": "another-pass", "firstName": "N", "lastName": "P",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = app.do(app.client(), http.MethodPost, "/api/auth/signup", map[string]string{
		"email": "not-an-email", "password": "short", "firstName": "N", "lastName": "P",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(c, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(c, http.MethodGet, "/api/auth/user", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.do(c, http.MethodPost, "/api/auth/login", map[string]string{"email": "nimal@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = app.do(c, http.MethodPost, "/api/auth/login", map[string]string{"email": "nimal@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(c, http.MethodGet, "/api/auth/user", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	app := newTestApp(t)

	resp := app.do(app.client(), http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	customer := app.client()
	app.signup(customer, "customer@example.com")
	resp = app.do(customer, http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := app.client()
	app.loginAdmin(admin)
	resp = app.do(admin, http.MethodGet, "/api/admin/stats", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(admin, http.MethodGet, "/api/admin/products/export", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "products-")
}

func TestGuestCartOwnership(t *testing.T) {
	app := newTestApp(t)
	p := app.product("Crew Tee", 4800)

	owner := app.client()
	resp := app.do(owner, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID, "size": "M", "quantity": 2})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	sid := app.sessionID(owner)
	require.NotEmpty(t, sid)
	lines, err := app.store.ListCartItems(context.Background(), storage.SessionOwner(sid))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	lineID := lines[0].ID.String()

	stranger := app.client()
	resp = app.do(stranger, http.MethodPut, "/api/cart/"+lineID, map[string]int{"quantity": 5})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = app.do(stranger, http.MethodDelete, "/api/cart/"+lineID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// a missing quantity is rejected rather than read as zero
	resp = app.do(owner, http.MethodPut, "/api/cart/"+lineID, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = app.do(owner, http.MethodPut, "/api/cart/"+lineID, map[string]int{"quantity": 100})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	lines, err = app.store.ListCartItems(context.Background(), storage.SessionOwner(sid))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	resp = app.do(owner, http.MethodPut, "/api/cart/"+lineID, map[string]int{"quantity": 3})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(owner, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID, "size": "XXL"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(owner, http.MethodPost, "/api/orders", checkoutBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// logging in carries the guest cart over
	app.signup(owner, "guest-turned-user@example.com")
	user, err := app.store.GetUserByEmail(context.Background(), "guest-turned-user@example.com")
	require.NoError(t, err)
	lines, err = app.store.ListCartItems(context.Background(), storage.UserOwner(user.ID))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCheckout(t *testing.T) {
	app := newTestApp(t)
	p := app.product("Oxford Shirt", 6500)
	c := app.client()
	app.signup(c, "buyer@example.com")

	resp := app.do(c, http.MethodPost, "/api/orders", checkoutBody())
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(c, http.MethodPost, "/api/orders", map[string]any{"phoneNumber": "0771234567"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(c, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID, "size": "L"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.do(c, http.MethodPost, "/api/orders", checkoutBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	orders, err := app.store.ListOrders(context.Background(), storage.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	orderID := orders[0].ID.String()

	resp = app.do(c, http.MethodGet, "/api/orders/"+orderID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	other := app.client()
	app.signup(other, "other@example.com")
	resp = app.do(other, http.MethodGet, "/api/orders/"+orderID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	admin := app.client()
	app.loginAdmin(admin)
	resp = app.do(admin, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", map[string]string{"status": "delivered"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp = app.do(admin, http.MethodPatch, "/api/admin/orders/"+orderID+"/status", map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminCategoryParentValidation(t *testing.T) {
	app := newTestApp(t)
	admin := app.client()
	app.loginAdmin(admin)
	ctx := context.Background()

	tops := &tables.Category{Name: "Tops", Slug: "tops", IsActive: true}
	require.NoError(t, app.store.CreateCategory(ctx, tops))
	shirts := &tables.Category{Name: "Shirts", Slug: "shirts", ParentID: &tops.ID, IsActive: true}
	require.NoError(t, app.store.CreateCategory(ctx, shirts))

	resp := app.do(admin, http.MethodPost, "/api/admin/categories", map[string]any{"name": "Oxford", "parentId": shirts.ID})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(admin, http.MethodPost, "/api/admin/categories", map[string]any{"name": "Ghost", "parentId": uuid.New()})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.do(admin, http.MethodPost, "/api/admin/categories", map[string]any{"name": "Polos", "parentId": tops.ID})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = app.do(app.client(), http.MethodGet, "/api/categories?tree=true", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (a *testApp) upload(c *http.Client, path, filename string, content []byte) *http.Response {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(a.t, mw.WriteField("productName", "Oxford Shirt"))
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.Do(req)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAdminImageUpload(t *testing.T) {
	app := newTestApp(t)
	admin := app.client()
	app.loginAdmin(admin)

	resp := app.upload(admin, "/api/admin/upload-product-image", "notes.png", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = app.upload(admin, "/api/admin/upload-product-image", "front.png", pngBytes)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stored string
	publicRoot := filepath.Join(app.cfg.Upload.Dir, "public")
	require.NoError(t, filepath.WalkDir(publicRoot, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			stored, _ = filepath.Rel(publicRoot, p)
		}
		return err
	}))
	require.NotEmpty(t, stored)
	assert.True(t, strings.HasPrefix(filepath.ToSlash(stored), "products/oxford-shirt/front-"))

	resp = app.do(app.client(), http.MethodGet, "/public-objects/"+filepath.ToSlash(stored), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, body)

	resp = app.do(app.client(), http.MethodGet, "/public-objects/products/missing.png", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	customer := app.client()
	app.signup(customer, "sneaky@example.com")
	resp = app.upload(customer, "/api/admin/upload-product-image", "front.png", pngBytes)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminMovesProductBetweenCategories(t *testing.T) {
	app := newTestApp(t)
	admin := app.client()
	app.loginAdmin(admin)
	ctx := context.Background()

	tops := &tables.Category{Name: "Tops", Slug: "tops", IsActive: true}
	require.NoError(t, app.store.CreateCategory(ctx, tops))
	shirts := &tables.Category{Name: "Shirts", Slug: "shirts", ParentID: &tops.ID, IsActive: true}
	require.NoError(t, app.store.CreateCategory(ctx, shirts))
	accessories := &tables.Category{Name: "Accessories", Slug: "accessories", IsActive: true}
	require.NoError(t, app.store.CreateCategory(ctx, accessories))

	p := app.product("Oxford Shirt", 6500)
	resp := app.do(admin, http.MethodPatch, "/api/admin/products/"+p.ID.String(), map[string]any{
		"categoryId": tops.ID, "subcategoryId": shirts.ID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = app.do(admin, http.MethodPatch, "/api/admin/products/"+p.ID.String(), map[string]any{
		"categoryId": accessories.ID, "subcategoryId": nil,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moved := app.data(resp)
	assert.Equal(t, accessories.ID.String(), moved["categoryId"])
	assert.Nil(t, moved["subcategoryId"])

	stored, err := app.store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CategoryID)
	assert.Equal(t, accessories.ID, *stored.CategoryID)
	assert.Nil(t, stored.SubcategoryID)

	resp = app.do(admin, http.MethodPatch, "/api/admin/products/"+p.ID.String(), map[string]any{"clearCategory": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored, err = app.store.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CategoryID)
}

func TestAccountChangesEndSessions(t *testing.T) {
	app := newTestApp(t)
	admin := app.client()
	app.loginAdmin(admin)
	ctx := context.Background()

	t.Run("demoted admin loses admin access", func(t *testing.T) {
		hash, err := lib.HashPassword("second-admin", testArgonParams)
		require.NoError(t, err)
		second := &tables.User{Email: "second@modfy.test", PasswordHash: hash, FirstName: "Kasun", LastName: "Silva", Role: tables.RoleAdmin}
		require.NoError(t, app.store.CreateUser(ctx, second))

		c := app.client()
		resp := app.do(c, http.MethodPost, "/api/auth/login", map[string]string{"email": "second@modfy.test", "password": "second-admin"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp = app.do(c, http.MethodGet, "/api/admin/users", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = app.do(admin, http.MethodPatch, "/api/admin/users/"+second.ID.String(), map[string]string{"role": "customer"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = app.do(c, http.MethodGet, "/api/admin/users", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp = app.do(c, http.MethodGet, "/api/auth/user", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("deleted user is signed out", func(t *testing.T) {
		p := app.product("Crew Tee", 4800)
		c := app.client()
		app.signup(c, "leaving@example.com")
		resp := app.do(c, http.MethodPost, "/api/cart", map[string]any{"productId": p.ID, "size": "M"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		user, err := app.store.GetUserByEmail(ctx, "leaving@example.com")
		require.NoError(t, err)
		resp = app.do(admin, http.MethodDelete, "/api/admin/users/"+user.ID.String(), nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = app.do(c, http.MethodPost, "/api/orders", checkoutBody())
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		resp = app.do(c, http.MethodGet, "/api/auth/user", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("other changes keep the session", func(t *testing.T) {
		c := app.client()
		app.signup(c, "staying@example.com")
		user, err := app.store.GetUserByEmail(ctx, "staying@example.com")
		require.NoError(t, err)

		resp := app.do(admin, http.MethodPatch, "/api/admin/users/"+user.ID.String(), map[string]string{"firstName": "Dilan"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = app.do(c, http.MethodGet, "/api/auth/user", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	// the acting admin is untouched by changes to other accounts
	resp := app.do(admin, http.MethodGet, "/api/admin/users", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPrivateObjects(t *testing.T) {
	app := newTestApp(t)
	admin := app.client()
	app.loginAdmin(admin)

	put := func(c *http.Client, path string, body []byte) *http.Response {
		req, err := http.NewRequest(http.MethodPut, app.server.URL+path, bytes.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "image/png")
		resp, err := c.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	resp := put(admin, "/api/admin/objects/uploads/"+uuid.NewString(), pngBytes)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.do(admin, http.MethodPost, "/api/admin/objects/upload", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	target := app.data(resp)
	uploadURL, _ := target["uploadUrl"].(string)
	objectPath, _ := target["objectPath"].(string)
	require.NotEmpty(t, uploadURL)
	require.NotEmpty(t, objectPath)

	resp = put(admin, uploadURL, pngBytes)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = put(admin, uploadURL, pngBytes)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = app.do(app.client(), http.MethodGet, objectPath, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	customer := app.client()
	app.signup(customer, "curious@example.com")
	resp = app.do(customer, http.MethodGet, objectPath, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = app.do(admin, http.MethodGet, objectPath, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "private, no-store", resp.Header.Get("Cache-Control"))
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, body)
}
