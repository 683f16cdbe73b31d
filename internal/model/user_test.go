package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAtLeast(RoleAdmin, RoleUser))
	assert.True(t, RoleAtLeast(RoleAdmin, RoleAdmin))
	assert.True(t, RoleAtLeast(RoleManager, RoleUser))
	assert.False(t, RoleAtLeast(RoleUser, RoleManager))
	assert.False(t, RoleAtLeast(RoleUser, RoleAdmin))
	assert.False(t, RoleAtLeast("unknown", RoleUser))
}

func TestProductStockStatus(t *testing.T) {
	high := 50
	tests := []struct {
		name    string
		product Product
		want    string
	}{
		{"out of stock", Product{Stock: 0, MinStock: 5}, StockStatusOut},
		{"low stock", Product{Stock: 5, MinStock: 5}, StockStatusLow},
		{"normal", Product{Stock: 20, MinStock: 5}, StockStatusNormal},
		{"excess", Product{Stock: 60, MinStock: 5, MaxStock: &high}, StockStatusExcess},
		{"no max stock never excess", Product{Stock: 1000, MinStock: 5}, StockStatusNormal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.product.StockStatus())
		})
	}
}
