package extraction

import (
	"encoding/json"
	"slices"
)

// Result is the receipt extraction returned to callers. Keys are whatever the model
// produced; numbers are kept as json.Number so they re-encode exactly as received.
type Result map[string]any

// Schema keys the prompt asks the model to return
const (
	KeyVendor                  = "vendor"
	KeyVendorTIN               = "vendorTIN"
	KeyReferenceNumber         = "referenceNumber"
	KeyDate                    = "date"
	KeyAmount                  = "amount"
	KeyVatableSales            = "vatableSales"
	KeyVatExemptSales          = "vatExemptSales"
	KeyZeroRatedSales          = "zeroRatedSales"
	KeyVatAmount               = "vatAmount"
	KeyDiscount                = "discount"
	KeyOtherCharges            = "otherCharges"
	KeySuggestedExpenseAccount = "suggestedExpenseAccount"
	KeyItems                   = "items"
	KeyConfidence              = "confidence"
	KeyIsHandwritten           = "isHandwritten"
	KeyHandwritingNotes        = "handwritingNotes"
	KeyRawText                 = "rawText"

	// KeyReceiptType is not in the prompt schema but the mobile client reads it
	KeyReceiptType = "receiptType"
)

// SchemaKeys lists the fields of the prompt's JSON schema in prompt order
var SchemaKeys = []string{
	KeyVendor,
	KeyVendorTIN,
	KeyReferenceNumber,
	KeyDate,
	KeyAmount,
	KeyVatableSales,
	KeyVatExemptSales,
	KeyZeroRatedSales,
	KeyVatAmount,
	KeyDiscount,
	KeyOtherCharges,
	KeySuggestedExpenseAccount,
	KeyItems,
	KeyConfidence,
	KeyIsHandwritten,
	KeyHandwritingNotes,
	KeyRawText,
}

const (
	// UnparsedVendor is the sentinel vendor label of the fallback stub
	UnparsedVendor = "Unable to parse"

	itemsPreviewLength = 100
)

// Fallback builds the stub returned when a reply cannot be parsed. It carries every
// schema key plus receiptType so clients always see the same shape.
func Fallback(reply string) Result {
	result := make(Result, len(SchemaKeys)+1)
	for _, key := range SchemaKeys {
		result[key] = nil
	}
	result[KeyVendor] = UnparsedVendor
	result[KeyAmount] = json.Number("0.0")
	result[KeyItems] = preview(reply, itemsPreviewLength)
	result[KeyConfidence] = json.Number("0")
	result[KeyIsHandwritten] = false
	result[KeyRawText] = reply
	result[KeyReceiptType] = "Unknown"
	return result
}

// Deviations compares r against the schema. missing lists schema keys that are
// absent; unknown lists keys the schema does not define. Both are sorted.
func (r Result) Deviations() (missing, unknown []string) {
	for _, key := range SchemaKeys {
		if _, ok := r[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range r {
		if !slices.Contains(SchemaKeys, key) {
			unknown = append(unknown, key)
		}
	}
	slices.Sort(missing)
	slices.Sort(unknown)
	return missing, unknown
}

// preview returns the first n characters of s
func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
