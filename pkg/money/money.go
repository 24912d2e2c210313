// Copyright (c) 2026 Pharmora. All rights reserved.
// Author: dev@pharmora.app

/*
Package money handles monetary amounts for the client.

Amounts are carried as int64 kuruş (1/100 TRY) everywhere in the cart to keep
arithmetic exact; formatting to a display string happens only at the edge.
*/
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer renders numbers with Turkish separators (dot thousands, comma decimals).
var printer = message.NewPrinter(language.Turkish)

// FormatTRY renders an amount of kuruş as a Turkish Lira display string,
// e.g. 2550 → "₺25,50" and 123456 → "₺1.234,56".
func FormatTRY(kurus int64) string {
	lira := float64(kurus) / 100
	return printer.Sprintf("₺%v", number.Decimal(lira,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
