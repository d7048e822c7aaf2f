package extraction

import (
	"strings"

	"github.com/iho/debtledger/internal/domain"
)

// minNameTokenLength drops short connector words ("de", "da") from the beneficiary name.
const minNameTokenLength = 3

// Validate accepts the receipt when any beneficiary name token longer than two characters
// appears, case-insensitively, inside the declared receiver.
func Validate(r domain.Receipt, beneficiary string) domain.ExtractionResult {
	if receiverMatches(r.Receiver, beneficiary) {
		return domain.Extracted(r)
	}
	return domain.InvalidReceiver(r)
}

func receiverMatches(receiver, beneficiary string) bool {
	receiver = strings.ToLower(receiver)

	for _, token := range nameTokens(beneficiary) {
		if strings.Contains(receiver, token) {
			return true
		}
	}

	return false
}

func nameTokens(name string) []string {
	fields := strings.Fields(strings.ToLower(name))

	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minNameTokenLength {
			tokens = append(tokens, f)
		}
	}

	return tokens
}
