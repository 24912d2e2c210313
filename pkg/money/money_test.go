// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pharmora/client/pkg/money"
)

/*
TestFormatTRY checks Turkish Lira rendering: comma decimals, dot thousands,
always two fraction digits.
*/
func TestFormatTRY(t *testing.T) {
	tests := []struct {
		name  string
		kurus int64
		want  string
	}{
		{"zero", 0, "₺0,00"},
		{"under_a_lira", 50, "₺0,50"},
		{"simple", 2550, "₺25,50"},
		{"whole_lira", 10000, "₺100,00"},
		{"thousands_grouping", 123456, "₺1.234,56"},
		{"millions_grouping", 123456789, "₺1.234.567,89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.FormatTRY(tt.kurus))
		})
	}
}
