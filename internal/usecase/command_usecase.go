package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

// Chat commands.
const (
	CommandBalance = "/saldo"
	CommandAdmin   = "/bf"
	CommandDelete  = "/del"
	CommandList    = "/listar"
)

var hundred = decimal.NewFromInt(100)

// IsCommand reports whether a message body starts with a known command.
func IsCommand(body string) bool {
	switch commandName(body) {
	case CommandBalance, CommandAdmin, CommandDelete, CommandList:
		return true
	default:
		return false
	}
}

func commandName(body string) string {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// CommandUseCase executes typed chat commands.
type CommandUseCase struct {
	ledger    *LedgerUseCase
	pipeline  *PipelineUseCase
	messenger Messenger
	idGen     IDGenerator
	business  Business
	logger    zerolog.Logger
}

// NewCommandUseCase creates a new CommandUseCase.
func NewCommandUseCase(
	ledger *LedgerUseCase,
	pipeline *PipelineUseCase,
	messenger Messenger,
	idGen IDGenerator,
	business Business,
	logger zerolog.Logger,
) *CommandUseCase {
	return &CommandUseCase{
		ledger:    ledger,
		pipeline:  pipeline,
		messenger: messenger,
		idGen:     idGen,
		business:  business,
		logger:    logger,
	}
}

// Handle runs the command in body, typed in channel. Admin commands from non-privileged
// senders are ignored. Malformed arguments are answered with a usage hint.
func (uc *CommandUseCase) Handle(ctx context.Context, channel, body string, privileged bool) error {
	parts := strings.Fields(body)

	switch commandName(body) {
	case CommandBalance:
		return uc.balance(ctx, channel, parts, privileged)
	case CommandAdmin:
		if !privileged {
			return nil
		}
		return uc.admin(ctx, channel, parts)
	case CommandDelete:
		if !privileged {
			return nil
		}
		return uc.purge(ctx, channel, parts)
	case CommandList:
		if !privileged {
			return nil
		}
		return uc.listDebtors(ctx, channel)
	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidCommand, commandName(body))
	}
}

func (uc *CommandUseCase) balance(ctx context.Context, channel string, parts []string, privileged bool) error {
	target := channel
	if privileged && len(parts) > 1 {
		target = domain.NormalizeAccountID(parts[1])
	}

	account, err := uc.ledger.GetBalance(ctx, target)
	if errors.Is(err, domain.ErrInvalidAccountID) {
		uc.reply(ctx, channel, usageBalance)
		return nil
	}
	if err != nil {
		return err
	}

	uc.reply(ctx, channel, uc.business.statement(account))

	return nil
}

func (uc *CommandUseCase) admin(ctx context.Context, channel string, parts []string) error {
	if len(parts) < 2 {
		return nil
	}

	switch action := strings.ToLower(parts[1]); {
	case action == "help":
		uc.reply(ctx, channel, helpText)
		return nil
	case action == "cobrar":
		return uc.setDueDate(ctx, channel, parts)
	case action == "set":
		return uc.setBalance(ctx, channel, parts)
	case len(parts) == 3 && len(parts[1]) >= domain.ProxyAccountMinLength:
		return uc.proposeProxy(ctx, channel, parts[1], parts[2])
	default:
		return uc.proposeLocal(ctx, channel, parts[1:])
	}
}

func (uc *CommandUseCase) setDueDate(ctx context.Context, channel string, parts []string) error {
	if len(parts) < 4 {
		uc.reply(ctx, channel, usageDueDate)
		return nil
	}

	accountID := domain.NormalizeAccountID(parts[2])

	dueDate, err := uc.ledger.SetDueDate(ctx, accountID, parts[3])
	if isUserInputError(err) {
		uc.reply(ctx, channel, usageDueDate)
		return nil
	}
	if err != nil {
		return err
	}

	uc.reply(ctx, channel, fmt.Sprintf("📅 Due date of %s set to %s", accountID, dueDate))

	return nil
}

func (uc *CommandUseCase) setBalance(ctx context.Context, channel string, parts []string) error {
	if len(parts) < 4 {
		uc.reply(ctx, channel, usageSetBalance)
		return nil
	}

	accountID := domain.NormalizeAccountID(parts[2])

	value, err := domain.ParseAmount(parts[3])
	if err != nil {
		uc.reply(ctx, channel, usageSetBalance)
		return nil
	}

	balance, err := uc.ledger.SetBalance(ctx, accountID, value)
	if isUserInputError(err) {
		uc.reply(ctx, channel, usageSetBalance)
		return nil
	}
	if err != nil {
		return err
	}

	uc.reply(ctx, channel, fmt.Sprintf("✅ Balance of %s updated to %s.", accountID, uc.business.money(balance)))

	return nil
}

// proposeProxy handles "/bf <account> <value>": the sign comes from the value.
func (uc *CommandUseCase) proposeProxy(ctx context.Context, channel, rawAccount, rawValue string) error {
	accountID := domain.NormalizeAccountID(rawAccount)

	value, err := domain.ParseAmount(rawValue)
	if err != nil || domain.ValidateAccountID(accountID) != nil {
		uc.reply(ctx, channel, usageProxy)
		return nil
	}

	p := uc.manualProposal(accountID, domain.CategoryManualAdmin, domain.SignOf(value), value.Abs())

	return uc.pipeline.Propose(ctx, channel, p, uc.business.proxyQuestion(p))
}

// proposeLocal handles "/bf <value> [percent]" on the current chat. A percent adds a
// surcharge and rounds the magnitude up.
func (uc *CommandUseCase) proposeLocal(ctx context.Context, channel string, args []string) error {
	sign := domain.SignIncrease
	if strings.HasPrefix(args[0], "-") {
		sign = domain.SignDecrease
	}

	value, err := domain.ParseAmount(args[0])
	if err != nil {
		uc.reply(ctx, channel, usageLocal)
		return nil
	}
	magnitude := value.Abs()

	if len(args) > 1 {
		pct, err := domain.ParseAmount(args[1])
		if err != nil {
			uc.reply(ctx, channel, usageLocal)
			return nil
		}
		magnitude = Surcharge(magnitude, pct)
	}

	p := uc.manualProposal(channel, domain.CategoryManual, sign, magnitude)

	return uc.pipeline.Propose(ctx, channel, p, uc.business.localQuestion(p))
}

// Surcharge returns ceil(v + v*pct/100).
func Surcharge(v, pct decimal.Decimal) decimal.Decimal {
	return domain.RoundUp(v.Add(v.Mul(pct).Div(hundred)))
}

func (uc *CommandUseCase) manualProposal(accountID string, category domain.Category, sign domain.Sign, magnitude decimal.Decimal) *domain.Proposal {
	return &domain.Proposal{
		AccountID:   accountID,
		Category:    category,
		Sign:        sign,
		Magnitude:   magnitude,
		ReferenceID: ManualReferencePrefix + uc.idGen.Generate(),
		CreatedAt:   time.Now().UTC(),
	}
}

func (uc *CommandUseCase) purge(ctx context.Context, channel string, parts []string) error {
	if len(parts) < 2 {
		uc.reply(ctx, channel, usageDelete)
		return nil
	}

	accountID := domain.NormalizeAccountID(parts[1])

	err := uc.ledger.Purge(ctx, accountID)
	if isUserInputError(err) {
		uc.reply(ctx, channel, usageDelete)
		return nil
	}
	if err != nil {
		return err
	}

	uc.logger.Info().Str("account_id", accountID).Msg("account purged")
	uc.reply(ctx, channel, fmt.Sprintf("🗑️ Customer %s removed.", accountID))

	return nil
}

func (uc *CommandUseCase) listDebtors(ctx context.Context, channel string) error {
	debtors, err := uc.ledger.ListDebtors(ctx)
	if err != nil {
		return err
	}

	uc.reply(ctx, channel, uc.business.debtorRanking(debtors))

	return nil
}

func (uc *CommandUseCase) reply(ctx context.Context, channel, message string) {
	if err := uc.messenger.SendText(ctx, channel, message); err != nil {
		uc.logger.Error().Err(err).Str("channel", channel).Msg("failed to send reply")
	}
}

func isUserInputError(err error) bool {
	return errors.Is(err, domain.ErrInvalidAccountID) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidDueDate) ||
		errors.Is(err, domain.ErrAccountNotFound)
}
