package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type createDTO struct {
	Name   string
	Amount decimal.Decimal
	Count  int64
}

type updateDTO struct {
	Name   *string
	Amount *decimal.Decimal
}

func TestNormalizeDTOTrimsAndRounds(t *testing.T) {
	in := createDTO{
		Name:   "  Ahmed  ",
		Amount: decimal.RequireFromString("10.999"),
		Count:  3,
	}
	NormalizeDTO(&in)

	assert.Equal(t, "Ahmed", in.Name)
	assert.True(t, in.Amount.Equal(decimal.RequireFromString("11.00")), "got %s", in.Amount)
	assert.Equal(t, int64(3), in.Count)
}

func TestNormalizePtrDTOSkipsNilFields(t *testing.T) {
	name := "  Screen 6.1\"  "
	in := updateDTO{Name: &name}
	NormalizePtrDTO(&in)

	assert.Equal(t, "Screen 6.1\"", *in.Name)
	assert.Nil(t, in.Amount)
}

func TestNormalizePtrDTORoundsMoney(t *testing.T) {
	amount := decimal.RequireFromString("49.995")
	in := updateDTO{Amount: &amount}
	NormalizePtrDTO(&in)

	assert.True(t, in.Amount.Equal(decimal.RequireFromString("50.00")), "got %s", in.Amount)
}

func TestNormalizeDTOIgnoresNonPointerInput(t *testing.T) {
	in := createDTO{Name: "  x  "}
	NormalizeDTO(in)
	assert.Equal(t, "  x  ", in.Name)
}
