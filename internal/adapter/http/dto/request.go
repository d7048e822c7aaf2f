package dto

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

var dueDatePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)

// SetBalanceRequest overwrites an account balance.
type SetBalanceRequest struct {
	Balance *decimal.Decimal `json:"balance"`
}

// Validate checks the request body.
func (r SetBalanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Balance, validation.Required, validation.By(withinAdjustmentLimit)),
	)
}

// SetDueDateRequest sets an account due date.
type SetDueDateRequest struct {
	DueDate string `json:"due_date"`
}

// Validate checks the request body.
func (r SetDueDateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DueDate, validation.Required, validation.Match(dueDatePattern).Error("must be dd/mm")),
	)
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Validate checks the pagination bounds.
func (r PaginationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Limit, validation.Min(0), validation.Max(500)),
		validation.Field(&r.Offset, validation.Min(0)),
	)
}

func withinAdjustmentLimit(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}

	if !domain.WithinAmountLimit(*d) {
		return errors.New("exceeds the maximum of " + domain.MaxAdjustmentAmount)
	}
	return nil
}
