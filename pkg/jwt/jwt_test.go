package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateParse_ConservaIdentidad(t *testing.T) {
	in := jwt.Identity{UserID: "u-1", Role: "supplier", SupplierID: "sup-9"}
	token, err := jwt.Generate(secret, "replenishment-api", 60, in)
	require.NoError(t, err)

	out, err := jwt.Parse(secret, token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate(secret, "replenishment-api", 60, jwt.Identity{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secret", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate(secret, "replenishment-api", -1, jwt.Identity{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = jwt.Parse(secret, token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "x", 60, jwt.Identity{UserID: "u-1", Role: "admin"})
	assert.Error(t, err)
}
