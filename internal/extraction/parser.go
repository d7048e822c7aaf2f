package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

var (
	objectPattern  = regexp.MustCompile(`(?s)\{.*\}`)
	nonAmountChars = regexp.MustCompile(`[^\d,.]`)
)

// Parse turns raw model text into an extraction result and validates the receiver
// against beneficiary. It never fails: every malformed input maps to a result tag.
func Parse(rawText, beneficiary string) domain.ExtractionResult {
	fields, result, ok := decodeObject(rawText)
	if !ok {
		return result
	}

	if reason, isError := errorField(fields); isError {
		return domain.NotAReceipt(reason)
	}

	receipt := receiptFromFields(fields)
	if !domain.WithinAmountLimit(receipt.Amount) {
		return domain.ParseError(fmt.Sprintf("%v: amount out of range", domain.ErrMalformedOutput))
	}

	return Validate(receipt, beneficiary)
}

// decodeObject finds the object between the first '{' and the last '}' and decodes it.
// Strict JSON is tried first; single quotes are swapped for double quotes only if that fails.
func decodeObject(rawText string) (map[string]any, domain.ExtractionResult, bool) {
	match := objectPattern.FindString(rawText)
	if match == "" {
		return nil, domain.ParseError("no JSON object in model output"), false
	}

	fields, err := decodeJSON(match)
	if err == nil {
		return fields, domain.ExtractionResult{}, true
	}

	fields, err = decodeJSON(strings.ReplaceAll(match, "'", `"`))
	if err != nil {
		return nil, domain.ParseError(fmt.Sprintf("%v: %v", domain.ErrMalformedOutput, err)), false
	}

	return fields, domain.ExtractionResult{}, true
}

func decodeJSON(s string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewBufferString(s))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	return fields, nil
}

func errorField(fields map[string]any) (string, bool) {
	for _, key := range []string{fieldError, fieldErrorAlt} {
		if v, ok := fields[key]; ok {
			return stringField(v), true
		}
	}
	return "", false
}

func receiptFromFields(fields map[string]any) domain.Receipt {
	return domain.Receipt{
		Amount:       normalizeAmount(fields[fieldAmount]),
		Receiver:     stringField(fields[fieldReceiver]),
		Bank:         stringField(fields[fieldBank]),
		Payer:        stringField(fields[fieldPayer]),
		ReferenceID:  stringField(fields[fieldReferenceID]),
		DeclaredDate: stringField(fields[fieldDeclaredDate]),
	}
}

// normalizeAmount accepts numbers and text such as "R$ 1.234,56". Anything that cannot be
// read falls back to zero instead of rejecting the whole receipt.
func normalizeAmount(v any) decimal.Decimal {
	switch val := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return amountFallback()
		}
		return d
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		return parseAmountText(val)
	default:
		return amountFallback()
	}
}

// parseAmountText keeps digits, commas and periods. A comma is the decimal separator;
// when one is present the periods are thousands separators.
func parseAmountText(s string) decimal.Decimal {
	clean := nonAmountChars.ReplaceAllString(s, "")
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return amountFallback()
	}

	return d
}

func amountFallback() decimal.Decimal {
	return decimal.Zero
}

func stringField(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
