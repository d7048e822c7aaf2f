package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/internal/usecase/mocks"
)

const (
	adminPhone  = "+55 61 98888-7777"
	adminChan   = "5561988887777"
	customer    = "551199990000"
	beneficiary = "Maria Silva"
)

var testBusiness = usecase.Business{
	Beneficiary:    beneficiary,
	PixKey:         "maria@pix.example",
	CurrencySymbol: "R$",
	AdminChannel:   adminChan,
}

type fixture struct {
	accounts    *mocks.FakeAccountRepository
	txns        *mocks.FakeTransactionRepository
	messenger   *mocks.RecordingMessenger
	dedup       *mocks.FakeEventDeduplicator
	ledger      *usecase.LedgerUseCase
	coordinator *usecase.ConfirmationCoordinator
	pipeline    *usecase.PipelineUseCase
	commands    *usecase.CommandUseCase
	events      *usecase.EventUseCase
}

type fixtureOptions struct {
	extractor usecase.ReceiptExtractor
	converter usecase.DocumentConverter
	archive   usecase.ReceiptArchive
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()

	f := &fixture{
		accounts:  mocks.NewFakeAccountRepository(),
		txns:      mocks.NewFakeTransactionRepository(),
		messenger: mocks.NewRecordingMessenger(),
		dedup:     mocks.NewFakeEventDeduplicator(),
	}

	logger := zerolog.Nop()

	f.ledger = usecase.NewLedgerUseCase(
		mocks.NewFakeTxManager(),
		f.accounts,
		f.txns,
		mocks.NewFakeIDGenerator(),
		&mocks.FakeRetrier{},
		usecase.NopMetrics{},
	)
	f.coordinator = usecase.NewConfirmationCoordinator(usecase.NopMetrics{}, logger)
	f.pipeline = usecase.NewPipelineUseCase(usecase.PipelineConfig{
		Ledger:      f.ledger,
		Coordinator: f.coordinator,
		Extractor:   opts.extractor,
		Converter:   opts.converter,
		Archive:     opts.archive,
		Messenger:   f.messenger,
		Business:    testBusiness,
		Logger:      logger,
	})
	f.commands = usecase.NewCommandUseCase(f.ledger, f.pipeline, f.messenger, mocks.NewFakeIDGenerator(), testBusiness, logger)
	f.events = usecase.NewEventUseCase(usecase.EventConfig{
		Commands:   f.commands,
		Pipeline:   f.pipeline,
		Dedup:      f.dedup,
		AdminPhone: adminPhone,
		Logger:     logger,
	})

	return f
}

func (f *fixture) putAccount(id string, balance int64, dueDate, lastReminder string) {
	f.accounts.Put(&domain.Account{
		ID:           id,
		Balance:      decimal.NewFromInt(balance),
		DueDate:      dueDate,
		LastReminder: lastReminder,
	})
}

func (f *fixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc := f.accounts.Get(id)
	if acc == nil {
		t.Fatalf("account %s does not exist", id)
	}
	return acc.Balance
}

// extractorFunc adapts a function to usecase.ReceiptExtractor.
type extractorFunc func(ctx context.Context, image []byte) domain.ExtractionResult

func (f extractorFunc) Extract(ctx context.Context, image []byte) domain.ExtractionResult {
	return f(ctx, image)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
