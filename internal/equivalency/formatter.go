package equivalency

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
// English locale keeps thousand separators consistent across outputs.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats a float with the given precision and thousand
// separators. Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	multiplier := math.Pow(10, float64(precision))
	rounded := math.Round(f*multiplier) / multiplier

	if precision == 0 {
		return FormatNumber(int64(rounded))
	}

	formatted := strconv.FormatFloat(rounded, 'f', precision, 64)
	intPart, fracPart, found := strings.Cut(formatted, ".")
	if !found {
		return formatted
	}

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return formatted
	}
	return fmt.Sprintf("%s.%s", FormatNumber(n), fracPart)
}
