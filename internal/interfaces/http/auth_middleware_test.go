package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
	"github.com/cllmenate/inventory-management/internal/domain/entity"
	apphttp "github.com/cllmenate/inventory-management/internal/interfaces/http"
	pkgjwt "github.com/cllmenate/inventory-management/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	mwSecret       = "middleware-test-secret"
	mwIssuer       = "inventory-management"
	mwUserID int64 = 7
)

// scopeEcho lo que ve un handler detrás de la cadena de middlewares.
type scopeEcho struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Model    string `json:"model"`
}

// newScopedApp replica el montaje del router para un recurso del catálogo:
// grupo protegido + EntityScope, y DELETE restringido a admin.
func newScopedApp() *fiber.App {
	app := fiber.New()
	protected := app.Group("/api", apphttp.AuthMiddleware(mwSecret))
	suppliers := protected.Group("/suppliers", apphttp.EntityScope(catalog.MustSchema(catalog.TypeSupplier)))
	suppliers.Get("/", func(c *fiber.Ctx) error {
		schema, ok := apphttp.GetSchema(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(scopeEcho{
			UserID:   apphttp.GetUserID(c),
			Username: apphttp.GetUsername(c),
			Role:     apphttp.GetRole(c),
			Model:    schema.QualifiedName(),
		})
	})
	suppliers.Delete("/:id", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func bearer(t *testing.T, username, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, username, role, mwIssuer, 5)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(t *testing.T, app *fiber.App, method, path, auth string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ClaimsYEsquemaLleganAlHandler(t *testing.T) {
	app := newScopedApp()

	resp := call(t, app, http.MethodGet, "/api/suppliers", bearer(t, "lucia", entity.RoleStaff))

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got scopeEcho
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, scopeEcho{UserID: mwUserID, Username: "lucia", Role: entity.RoleStaff, Model: "suppliers.Supplier"}, got)
}

func TestAuthMiddleware_EsquemaBearerSinDistinguirMayusculas(t *testing.T) {
	app := newScopedApp()
	tok, err := pkgjwt.Generate(mwSecret, mwUserID, "lucia", entity.RoleStaff, mwIssuer, 5)
	require.NoError(t, err)

	resp := call(t, app, http.MethodGet, "/api/suppliers", "bearer "+tok)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	otherSecret, err := pkgjwt.Generate("otro-secret", mwUserID, "lucia", entity.RoleAdmin, mwIssuer, 5)
	require.NoError(t, err)
	expired, err := pkgjwt.Generate(mwSecret, mwUserID, "lucia", entity.RoleAdmin, mwIssuer, -1)
	require.NoError(t, err)
	unsigned, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           mwUserID,
		Role:             entity.RoleAdmin,
	}).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := []struct {
		name string
		auth string
		code string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema Basic", "Basic bHVjaWE6c2VjcmV0", "INVALID_TOKEN"},
		{"token sin esquema", otherSecret, "INVALID_TOKEN"},
		{"firmado con otro secret", "Bearer " + otherSecret, "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "INVALID_TOKEN"},
		{"alg none", "Bearer " + unsigned, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, newScopedApp(), http.MethodGet, "/api/suppliers", tc.auth)

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole sobre DELETE
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_DeleteSoloAdmin(t *testing.T) {
	app := newScopedApp()

	resp := call(t, app, http.MethodDelete, "/api/suppliers/3", bearer(t, "root", entity.RoleAdmin))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/suppliers/3", bearer(t, "lucia", entity.RoleStaff))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, resp))
}

func TestRequireRole_TokenSinRolEs401(t *testing.T) {
	app := newScopedApp()

	// el GET no exige rol; el DELETE sí
	resp := call(t, app, http.MethodGet, "/api/suppliers", bearer(t, "legacy", ""))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/suppliers/3", bearer(t, "legacy", ""))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_ROLE", errorCode(t, resp))
}
