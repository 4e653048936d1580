package validate

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title          string          `validate:"required,max=5"`
	ProductModelID int64           `validate:"required,gt=0"`
	CostPrice      decimal.Decimal `validate:"decimal_gte0"`
}

func TestStruct_Valido(t *testing.T) {
	err := Struct(sample{Title: "ok", ProductModelID: 1, CostPrice: decimal.NewFromInt(3)})
	assert.NoError(t, err)
}

func TestStruct_ReportaTodosLosCampos(t *testing.T) {
	err := Struct(sample{Title: "", ProductModelID: 0, CostPrice: decimal.NewFromInt(-1)})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "title", verr.Fields[0].Field)
	assert.Equal(t, "product_model", verr.Fields[1].Field)
	assert.Equal(t, "cost_price", verr.Fields[2].Field)
	assert.Contains(t, err.Error(), "title: campo obligatorio")
	assert.Contains(t, err.Error(), "cost_price: no puede ser negativo")
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "id", fieldName("ID"))
	assert.Equal(t, "serial_number", fieldName("SerialNumber"))
	assert.Equal(t, "product", fieldName("ProductID"))
}
