package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
)

func TestLocationCode_Deterministico(t *testing.T) {
	assert.Equal(t, "BOD01-A3-R12-B4", inventory.LocationCode("bod01", "3", "12", "4"))
	assert.Equal(t, inventory.LocationCode("BOD01", "A3", "R12", "B4"), inventory.LocationCode("bod01", "3", "12", "4"))
}

func TestLocationCode_QuitaAcentosYEspacios(t *testing.T) {
	assert.Equal(t, "BODEGANORTE-AN1", inventory.LocationCode("Bodega Ñorte", "ñ 1", "", ""))
}

func TestLocationChanged(t *testing.T) {
	assert.False(t, inventory.LocationChanged("1", "2", "3", "1", "2", "3"))
	assert.True(t, inventory.LocationChanged("1", "2", "3", "1", "2", "4"))
}
