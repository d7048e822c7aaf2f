package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
	"github.com/iho/debtledger/internal/usecase/mocks"
)

var receiptImage = []byte{0x89, 'P', 'N', 'G'}

func tx1Receipt() domain.Receipt {
	return domain.Receipt{
		Amount:       dec("150.00"),
		Receiver:     "MARIA SILVA",
		Bank:         "Nubank",
		Payer:        "Joao",
		ReferenceID:  "TX1",
		DeclaredDate: "01/03/2026 10:22",
	}
}

func TestPipeline_EndToEndConfirmThenDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockReceiptExtractor(ctrl)
	extractor.EXPECT().Extract(gomock.Any(), receiptImage).Return(domain.Extracted(tx1Receipt())).Times(2)

	f := newFixture(t, fixtureOptions{extractor: extractor})
	f.putAccount(customer, 0, "", "")
	ctx := context.Background()

	if err := f.pipeline.HandleReceipt(ctx, customer, receiptImage, false); err != nil {
		t.Fatalf("HandleReceipt failed: %v", err)
	}

	polls := f.messenger.Polls(adminChan)
	if len(polls) != 1 {
		t.Fatalf("expected one poll to admin, got %d", len(polls))
	}
	if len(polls[0].Options) != 2 || polls[0].Options[0] != domain.ConfirmLabel {
		t.Fatalf("unexpected poll options: %v", polls[0].Options)
	}
	if !strings.Contains(polls[0].Text, "R$150") {
		t.Errorf("poll should show the amount: %q", polls[0].Text)
	}
	if acks := f.messenger.To(customer); len(acks) != 1 {
		t.Fatalf("expected acknowledgement to customer, got %+v", acks)
	}

	if err := f.pipeline.HandlePollResponse(ctx, adminChan, domain.ConfirmLabel, true); err != nil {
		t.Fatalf("HandlePollResponse failed: %v", err)
	}

	rows := f.txns.All()
	if len(rows) != 1 {
		t.Fatalf("expected one transaction, got %d", len(rows))
	}
	if !rows[0].PreviousBalance.IsZero() || !rows[0].NewBalance.Equal(dec("-150")) {
		t.Fatalf("snapshots = %s -> %s", rows[0].PreviousBalance, rows[0].NewBalance)
	}
	if rows[0].Category != domain.CategoryAIReceipt || rows[0].ReferenceID != "TX1" {
		t.Fatalf("unexpected row %+v", rows[0])
	}

	customerMsgs := f.messenger.To(customer)
	if last := customerMsgs[len(customerMsgs)-1].Text; !strings.Contains(last, "Total: -R$150") {
		t.Errorf("customer summary = %q", last)
	}

	if err := f.pipeline.HandleReceipt(ctx, customer, receiptImage, false); err != nil {
		t.Fatalf("second HandleReceipt failed: %v", err)
	}

	if polls := f.messenger.Polls(adminChan); len(polls) != 1 {
		t.Fatalf("duplicate must not raise a new poll, got %d polls", len(polls))
	}
	if f.coordinator.Len() != 0 {
		t.Fatalf("duplicate must not leave a pending proposal")
	}

	adminMsgs := f.messenger.To(adminChan)
	if last := adminMsgs[len(adminMsgs)-1].Text; !strings.Contains(last, "DUPLICATE") || !strings.Contains(last, "TX1") {
		t.Errorf("expected duplicate alert, got %q", last)
	}
}

func TestPipeline_ReceiptForDebtorReducesBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockReceiptExtractor(ctrl)
	r := tx1Receipt()
	r.Amount = dec("49.10")
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(domain.Extracted(r))

	f := newFixture(t, fixtureOptions{extractor: extractor})
	f.putAccount(customer, 200, "10/03", "")
	ctx := context.Background()

	if err := f.pipeline.HandleReceipt(ctx, customer, receiptImage, false); err != nil {
		t.Fatalf("HandleReceipt failed: %v", err)
	}

	p, ok := f.coordinator.Pending(adminChan)
	if !ok || p.Sign != domain.SignDecrease || !p.Magnitude.Equal(dec("50")) {
		t.Fatalf("unexpected pending proposal %+v", p)
	}

	if err := f.pipeline.HandlePollResponse(ctx, adminChan, "Confirm ✅", true); err != nil {
		t.Fatalf("HandlePollResponse failed: %v", err)
	}

	if got := f.balance(t, customer); !got.Equal(dec("150")) {
		t.Fatalf("balance = %s, want 150", got)
	}
	if msgs := f.messenger.To(adminChan); !strings.Contains(msgs[len(msgs)-1].Text, "processed for "+customer) {
		t.Errorf("approver should be told the transaction was processed: %+v", msgs)
	}
}

func TestPipeline_UnknownSenderIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockReceiptExtractor(ctrl)

	f := newFixture(t, fixtureOptions{extractor: extractor})

	if err := f.pipeline.HandleReceipt(context.Background(), customer, receiptImage, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent := f.messenger.Sent(); len(sent) != 0 {
		t.Fatalf("no message expected, got %+v", sent)
	}
}

func TestPipeline_PrivilegedUnknownSenderProcessed(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockReceiptExtractor(ctrl)
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(domain.NotAReceipt("meme"))

	f := newFixture(t, fixtureOptions{extractor: extractor})

	if err := f.pipeline.HandleReceipt(context.Background(), customer, receiptImage, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPipeline_InvalidReceiverNotifiesAdmin(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockReceiptExtractor(ctrl)
	r := tx1Receipt()
	r.Receiver = "Mar Ltda"
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(domain.InvalidReceiver(r))

	f := newFixture(t, fixtureOptions{extractor: extractor})
	f.putAccount(customer, 10, "", "")

	if err := f.pipeline.HandleReceipt(context.Background(), customer, receiptImage, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin := f.messenger.To(adminChan)
	if len(admin) != 1 || !strings.Contains(admin[0].Text, "wrong beneficiary") {
		t.Fatalf("expected receiver mismatch alert, got %+v", admin)
	}
	if len(f.messenger.To(customer)) != 0 {
		t.Error("customer must not be told about the rejection")
	}
	if f.coordinator.Len() != 0 {
		t.Error("no proposal expected")
	}
}

func TestPipeline_FailedExtractionsAreSilent(t *testing.T) {
	results := map[string]domain.ExtractionResult{
		"parse error":   domain.ParseError("no JSON object"),
		"unavailable":   domain.Unavailable("timeout"),
		"not a receipt": domain.NotAReceipt("meme"),
	}

	for name, result := range results {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, fixtureOptions{extractor: extractorFunc(func(context.Context, []byte) domain.ExtractionResult {
				return result
			})})
			f.putAccount(customer, 10, "", "")

			if err := f.pipeline.HandleReceipt(context.Background(), customer, receiptImage, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sent := f.messenger.Sent(); len(sent) != 0 {
				t.Fatalf("no message expected, got %+v", sent)
			}
			if f.coordinator.Len() != 0 {
				t.Fatal("no proposal expected")
			}
		})
	}
}

func TestPipeline_CancelDiscardsProposal(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.putAccount(customer, 100, "", "")
	ctx := context.Background()

	if err := f.pipeline.Propose(ctx, adminChan, proposal(customer, domain.SignDecrease, "100", "X"), "ok?"); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if err := f.pipeline.HandlePollResponse(ctx, adminChan, domain.CancelLabel, true); err != nil {
		t.Fatalf("HandlePollResponse failed: %v", err)
	}

	if got := f.balance(t, customer); !got.Equal(dec("100")) {
		t.Fatalf("balance changed to %s", got)
	}
	msgs := f.messenger.To(adminChan)
	if last := msgs[len(msgs)-1]; last.Poll || !strings.Contains(last.Text, "cancelled") {
		t.Fatalf("expected cancellation message, got %+v", last)
	}
}

func TestPipeline_RepeatedAnswerCommitsOnce(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	if err := f.pipeline.Propose(ctx, adminChan, proposal(customer, domain.SignIncrease, "30", "Y"), "ok?"); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	for _, answer := range []string{domain.ConfirmLabel, domain.ConfirmLabel, domain.CancelLabel} {
		if err := f.pipeline.HandlePollResponse(ctx, adminChan, answer, true); err != nil {
			t.Fatalf("HandlePollResponse failed: %v", err)
		}
	}

	if rows := f.txns.All(); len(rows) != 1 {
		t.Fatalf("expected exactly one commit, got %d", len(rows))
	}
	if got := f.balance(t, customer); !got.Equal(dec("30")) {
		t.Fatalf("balance = %s, want 30", got)
	}
}

func TestPipeline_CommitConflictReportedToAdmin(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	if _, err := f.ledger.Commit(ctx, proposal(customer, domain.SignIncrease, "80", "TX9")); err != nil {
		t.Fatalf("seed commit failed: %v", err)
	}
	if err := f.pipeline.Propose(ctx, adminChan, proposal(customer, domain.SignDecrease, "80", "TX9"), "ok?"); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if err := f.pipeline.HandlePollResponse(ctx, adminChan, domain.ConfirmLabel, true); err != nil {
		t.Fatalf("conflict must not surface as an error: %v", err)
	}

	if got := f.balance(t, customer); !got.Equal(dec("80")) {
		t.Fatalf("balance = %s, want 80", got)
	}
	if f.coordinator.Len() != 0 {
		t.Fatal("proposal must stay discarded")
	}
	msgs := f.messenger.To(adminChan)
	if last := msgs[len(msgs)-1]; !strings.Contains(last.Text, "Not recorded") {
		t.Fatalf("expected conflict alert, got %+v", last)
	}
}

func TestPipeline_CommitFailureNotifiesApprover(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.putAccount(customer, 100, "", "")
	f.accounts.UpdateBalanceTxFunc = func(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal, clearDue bool, updatedAt time.Time) error {
		return errors.New("connection reset")
	}
	ctx := context.Background()

	if err := f.pipeline.Propose(ctx, adminChan, proposal(customer, domain.SignDecrease, "40", "TXF"), "ok?"); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if err := f.pipeline.HandlePollResponse(ctx, adminChan, domain.ConfirmLabel, true); err == nil {
		t.Fatal("expected the commit error to be returned")
	}

	if got := f.balance(t, customer); !got.Equal(dec("100")) {
		t.Fatalf("balance = %s, want 100", got)
	}
	msgs := f.messenger.To(adminChan)
	if last := msgs[len(msgs)-1]; last.Poll || !strings.Contains(last.Text, "resend") {
		t.Fatalf("expected a resend notice, got %+v", last)
	}
	if sent := f.messenger.To(customer); len(sent) != 0 {
		t.Fatalf("customer must not get a summary, got %+v", sent)
	}
}

func TestPipeline_CustomerConfirmationCopiesAdmin(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()

	if err := f.pipeline.Propose(ctx, customer, proposal(customer, domain.SignIncrease, "20", "MAN_1"), "ok?"); err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	if err := f.pipeline.HandlePollResponse(ctx, customer, domain.ConfirmLabel, false); err != nil {
		t.Fatalf("HandlePollResponse failed: %v", err)
	}

	admin := f.messenger.To(adminChan)
	if len(admin) != 1 || !strings.HasPrefix(admin[0].Text, "📢 LOG: "+customer) {
		t.Fatalf("expected log copy to admin, got %+v", admin)
	}
}

func TestPipeline_DocumentConversion(t *testing.T) {
	pdf := &domain.Media{Kind: domain.MediaDocument, MIMEType: "application/pdf", Data: []byte("%PDF-1.7")}

	t.Run("converted image is extracted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter := mocks.NewMockDocumentConverter(ctrl)
		extractor := mocks.NewMockReceiptExtractor(ctrl)
		archive := mocks.NewMockReceiptArchive(ctrl)

		converter.EXPECT().ToImage(gomock.Any(), pdf.Data).Return(receiptImage, nil)
		archive.EXPECT().Store(gomock.Any(), customer, receiptImage).Return("receipts/x.png", nil)
		extractor.EXPECT().Extract(gomock.Any(), receiptImage).Return(domain.NotAReceipt("blank"))

		f := newFixture(t, fixtureOptions{extractor: extractor, converter: converter, archive: archive})
		f.putAccount(customer, 10, "", "")

		if err := f.pipeline.HandleDocument(context.Background(), customer, pdf, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("conversion failure is reported to sender", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		converter := mocks.NewMockDocumentConverter(ctrl)
		converter.EXPECT().ToImage(gomock.Any(), gomock.Any()).Return(nil, errors.New("broken pdf"))

		f := newFixture(t, fixtureOptions{extractor: mocks.NewMockReceiptExtractor(ctrl), converter: converter})
		f.putAccount(customer, 10, "", "")

		if err := f.pipeline.HandleDocument(context.Background(), customer, pdf, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		msgs := f.messenger.To(customer)
		if len(msgs) != 1 || !strings.Contains(msgs[0].Text, "PDF") {
			t.Fatalf("expected PDF failure reply, got %+v", msgs)
		}
	})

	t.Run("non pdf documents are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		f := newFixture(t, fixtureOptions{
			extractor: mocks.NewMockReceiptExtractor(ctrl),
			converter: mocks.NewMockDocumentConverter(ctrl),
		})
		f.putAccount(customer, 10, "", "")

		doc := &domain.Media{Kind: domain.MediaDocument, MIMEType: "text/plain", Data: []byte("hi")}
		if err := f.pipeline.HandleDocument(context.Background(), customer, doc, false); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestPipeline_ArchiveFailureDoesNotStopExtraction(t *testing.T) {
	ctrl := gomock.NewController(t)
	archive := mocks.NewMockReceiptArchive(ctrl)
	extractor := mocks.NewMockReceiptExtractor(ctrl)
	archive.EXPECT().Store(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("bucket missing"))
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(domain.Extracted(tx1Receipt()))

	f := newFixture(t, fixtureOptions{extractor: extractor, archive: archive})
	f.putAccount(customer, 150, "", "")

	if err := f.pipeline.HandleReceipt(context.Background(), customer, receiptImage, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.coordinator.Len() != 1 {
		t.Fatal("expected a pending proposal")
	}
}
