package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	apphttp "github.com/jhoicas/replenishment-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/replenishment-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testUserID     = "00000000-0000-0000-0000-000000000001"
	testSupplierID = "00000000-0000-0000-0000-000000000002"
	testIssuer     = "replenishment-test"
	testExpMin     = 60
)

// buildTestApp app mínima con AuthMiddleware + RequireRole y un handler que devuelve la identidad.
func buildTestApp(allowedRoles ...entity.Role) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			id := apphttp.GetIdentity(c)
			return c.JSON(fiber.Map{"ok": true, "role": id.Role, "supplier_id": id.SupplierID})
		},
	)
	return app
}

func tokenFor(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, id)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, role entity.Role) string {
	return tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: string(role)})
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleAdmin))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_BodegaAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp(entity.RoleManager, entity.RoleWarehouse)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleWarehouse))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_GerenteBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleManager))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_ProveedorConSupplierID(t *testing.T) {
	app := buildTestApp(entity.RoleSupplier)
	resp := doRequest(t, app, tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: "supplier", SupplierID: testSupplierID}))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testSupplierID, body["supplier_id"])
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware: tokens rechazados
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokensRechazados(t *testing.T) {
	cases := []struct {
		name   string
		header func(t *testing.T) string
		code   string
	}{
		{"sin header", func(*testing.T) string { return "" }, "MISSING_TOKEN"},
		{"sin Bearer", func(*testing.T) string { return "Token abc" }, "INVALID_TOKEN"},
		{"malformado", func(*testing.T) string { return "Bearer token.invalido.aqui" }, "INVALID_TOKEN"},
		{"rol desconocido", func(t *testing.T) string {
			return tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: "vendedor"})
		}, "INVALID_ROLE"},
		{"rol system no se emite", func(t *testing.T) string {
			return tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: "system"})
		}, "INVALID_ROLE"},
		{"proveedor sin supplier_id", func(t *testing.T) string {
			return tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: "supplier"})
		}, "INVALID_TOKEN"},
	}
	app := buildTestApp(entity.RoleAdmin, entity.RoleSupplier)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(t, app, tc.header(t))
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, -1, pkgjwt.Identity{UserID: testUserID, Role: "admin"})
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testIssuer, testExpMin, pkgjwt.Identity{UserID: testUserID, Role: "admin"})
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
