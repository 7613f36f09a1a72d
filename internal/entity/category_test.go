package entity

import (
	"testing"

	"github.com/musee-dezental/frame-core/pkg/frame"
	"github.com/stretchr/testify/assert"
)

func TestCategory_NextTokenId(t *testing.T) {
	c := Category{Index: 10, Price: frame.Ether("0.15"), StartingId: 181, SupplyCap: 41}

	assert.Equal(t, uint64(181), c.NextTokenId())

	c.Fulfilled = 40
	assert.Equal(t, uint64(221), c.NextTokenId())
}

func TestCategory_ContainsTokenId(t *testing.T) {
	c := Category{Index: 10, StartingId: 181, SupplyCap: 41}

	assert.False(t, c.ContainsTokenId(180))
	assert.True(t, c.ContainsTokenId(181))
	assert.True(t, c.ContainsTokenId(221))
	assert.False(t, c.ContainsTokenId(222))
}

func TestCategory_SoldOut(t *testing.T) {
	c := Category{SupplyCap: 2}

	assert.False(t, c.SoldOut())

	c.Reserved = 1
	assert.False(t, c.SoldOut())

	c.Reserved = 2
	assert.True(t, c.SoldOut())
}

func TestCategory_Slug(t *testing.T) {
	assert.Equal(t, "category-7", Category{Index: 7}.Slug())
}

func TestSaleStatus_String(t *testing.T) {
	assert.Equal(t, "off", SaleOff.String())
	assert.Equal(t, "presale", SalePresale.String())
	assert.Equal(t, "public", SalePublic.String())
}
