package lineitems_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/lineitems"
)

func TestEncodeDecode_PreservaOrden(t *testing.T) {
	items := []entity.DeliveryItem{
		{ProductID: "p2", Quantity: 1},
		{ProductID: "p1", Quantity: 4, ProductName: "Ventilador K 125"},
	}
	raw, err := lineitems.Encode(items)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p2","quantity":1},{"productId":"p1","quantity":4,"productName":"Ventilador K 125"}]`, string(raw))

	got, err := lineitems.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, items, got)
}

func TestEncode_SinLineasEsArrayVacio(t *testing.T) {
	raw, err := lineitems.Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))

	got, err := lineitems.Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecode_Invalido(t *testing.T) {
	_, err := lineitems.Decode([]byte("{"))
	assert.Error(t, err)
}
