// Package receipt turns raw recognized receipt text into a structured
// best-guess amount and merchant. It is pure text processing; image decoding
// and OCR live behind the ocr package's collaborator interface.
package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

const unknownMerchant = "Unknown Merchant"

var (
	// currencyAmountRe matches an amount with an explicit currency marker
	// (rupee sign, "Rs", "Rs." or "INR"), optional thousand separators and
	// an optional two-digit fraction.
	currencyAmountRe = regexp.MustCompile(`(?:₹|Rs\.?|INR)\s*(\d+(?:,\d+)*(?:\.\d{2})?)`)

	// bareDecimalRe is the fallback for receipts that print totals without
	// a currency marker.
	bareDecimalRe = regexp.MustCompile(`\d+\.\d{2}`)
)

// Extract parses recognized receipt text. The amount is the largest
// currency-marked figure (totals are usually the largest printed number);
// without currency markers it falls back to the last bare decimal in the
// text (totals are typically printed last). No match is not an error, the
// amount just stays zero. The merchant guess is the first non-empty line.
func Extract(recognizedText string) core.ReceiptExtraction {
	result := core.ReceiptExtraction{
		Merchant: unknownMerchant,
		RawText:  recognizedText,
		Success:  true,
	}

	result.Amount = extractAmount(recognizedText)

	for _, line := range strings.Split(recognizedText, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			result.Merchant = trimmed
			break
		}
	}

	return result
}

func extractAmount(text string) decimal.Decimal {
	best := decimal.Zero
	for _, m := range currencyAmountRe.FindAllStringSubmatch(text, -1) {
		amount, err := parseFigure(m[1])
		if err != nil {
			continue
		}
		if amount.GreaterThan(best) {
			best = amount
		}
	}
	if best.IsPositive() {
		return best
	}

	matches := bareDecimalRe.FindAllString(text, -1)
	for i := len(matches) - 1; i >= 0; i-- {
		amount, err := parseFigure(matches[i])
		if err != nil {
			continue
		}
		return amount
	}
	return decimal.Zero
}

func parseFigure(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

// Failed builds the degraded extraction the boundary returns when text
// recognition itself fails. Callers surface it as a user-visible extraction
// failure instead of crashing.
func Failed(err error) core.ReceiptExtraction {
	return core.ReceiptExtraction{
		Amount:   decimal.Zero,
		Merchant: "",
		Success:  false,
		Err:      err.Error(),
	}
}
