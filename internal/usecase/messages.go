package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

// Business identifies the creditor in outbound messages.
type Business struct {
	Beneficiary    string
	PixKey         string
	CurrencySymbol string
	AdminChannel   string // digits only
}

func (b Business) money(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + b.CurrencySymbol + d.Abs().Truncate(0).String()
	}
	return b.CurrencySymbol + d.Truncate(0).String()
}

const receiptAcknowledgement = "📄 Receipt identified! Sent for validation."

func (b Business) paymentApproval(p *domain.Proposal) string {
	return fmt.Sprintf("📉 *Validate payment*\n"+
		"👤 Customer: %s\n"+
		"🏦 Bank: %s\n"+
		"💰 Amount: %s\n"+
		"📅 Date: %s\n"+
		"🆔 ID: ...%s\n\n"+
		"Confirm payment?",
		p.AccountID, orDash(p.Bank), b.money(p.Magnitude), orDash(p.DeclaredDate), lastRunes(p.ReferenceID, 6))
}

func duplicateAlert(accountID, referenceID string) string {
	return fmt.Sprintf("⚠️ *DUPLICATE RECEIPT*\n"+
		"👤 Customer: %s\n"+
		"📄 ID: %s\n"+
		"This receipt was already used!", accountID, orDash(referenceID))
}

func invalidReceiverAlert(accountID string, r *domain.Receipt) string {
	receiver := ""
	if r != nil {
		receiver = r.Receiver
	}

	return fmt.Sprintf("🚫 *Rejected (wrong beneficiary)*\n"+
		"Customer: %s\n"+
		"Receiver on receipt: %s", accountID, orDash(receiver))
}

func commitConflictAlert(p *domain.Proposal) string {
	return fmt.Sprintf("⚠️ *Not recorded*\n"+
		"👤 Customer: %s\n"+
		"📄 ID: %s\n"+
		"A transaction with this reference already exists.", p.AccountID, orDash(p.ReferenceID))
}

func (b Business) commitSummary(txn *domain.Transaction) string {
	sign := domain.SignOf(txn.Amount)

	return fmt.Sprintf("📝 *Balance update*\n\n"+
		"Previous: %s\n"+
		"Adjustment: %s %s\n"+
		"────────────────\n"+
		"💰 *Total: %s*",
		b.money(txn.PreviousBalance), sign, b.money(txn.Amount.Abs()), b.money(txn.NewBalance))
}

func processedFor(accountID string) string {
	return fmt.Sprintf("✅ Transaction processed for %s.", accountID)
}

func commitLogCopy(accountID, summary string) string {
	return fmt.Sprintf("📢 LOG: %s\n%s", accountID, summary)
}

func commitFailedNotice(p *domain.Proposal) string {
	return fmt.Sprintf("❌ *Not recorded*\n"+
		"👤 Customer: %s\n"+
		"The ledger could not save this entry. Please resend the receipt or command.", p.AccountID)
}

const operationCancelled = "🚫 Operation cancelled."

const pdfReadFailed = "❌ Could not read PDF."

func (b Business) statement(account *domain.Account) string {
	if account.IsSettled() {
		status := "✅ *All settled!*"
		if account.Balance.IsNegative() {
			status = fmt.Sprintf("💎 *Credit: %s*", b.money(account.Balance.Abs()))
		}
		return status + "\nNothing pending."
	}

	due := account.DueDate
	if due == "" {
		due = "_not set_"
	}

	return fmt.Sprintf("💳 *Statement*\n"+
		"━━━━━━━━━━━━━━━━\n"+
		"👤 Customer: %s\n"+
		"💰 *Debt: %s*\n"+
		"📅 Due: %s\n"+
		"━━━━━━━━━━━━━━━━\n\n"+
		"🚀 *Pix for payment:*\n"+
		"`%s`\n"+
		"(%s)\n\n"+
		"📸 Send the receipt here.",
		account.ID, b.money(account.Balance), due, b.PixKey, b.Beneficiary)
}

func (b Business) debtorRanking(debtors []domain.Debtor) string {
	if len(debtors) == 0 {
		return "✅ No active debts."
	}

	var sb strings.Builder
	sb.WriteString("📋 *Debtor ranking*\n\n")

	total := decimal.Zero
	for _, d := range debtors {
		fmt.Fprintf(&sb, "👤 %s: %s\n", d.AccountID, b.money(d.Balance))
		total = total.Add(d.Balance)
	}

	fmt.Fprintf(&sb, "\n💰 *Total: %s*", b.money(total))

	return sb.String()
}

func (b Business) proxyQuestion(p *domain.Proposal) string {
	return fmt.Sprintf("Post %s%s to %s?", p.Sign, b.money(p.Magnitude), p.AccountID)
}

func (b Business) localQuestion(p *domain.Proposal) string {
	return fmt.Sprintf("Post %s (%s)?", b.money(p.Magnitude), p.Sign)
}

func (b Business) dueTomorrowReminder(account *domain.Account) string {
	return fmt.Sprintf("🔔 *Reminder*\n\n"+
		"Hi! Your balance of *%s* is due *TOMORROW* (%s).\n"+
		"Send the Pix receipt here to settle early.", b.money(account.Balance), account.DueDate)
}

func (b Business) dueTodayReminder(account *domain.Account) string {
	return fmt.Sprintf("⚠️ *Due today*\n\n"+
		"Your payment of *%s* is due today.\n"+
		"Send the Pix and a photo of the receipt.", b.money(account.Balance))
}

const helpText = "🤖 *DEBT LEDGER - ADMIN MANUAL*\n" +
	"━━━━━━━━━━━━━━━━━━━━\n\n" +
	"💸 *QUICK ENTRIES*\n" +
	"• `/bf [value]`\n" +
	"  _Adds debt to the current chat._\n" +
	"  Ex: `/bf 100` | `/bf -50`\n\n" +
	"• `/bf [value] [%]`\n" +
	"  _Adds value plus percentage._\n" +
	"  Ex: `/bf 100 10` (posts 110)\n\n" +
	"🕵️ *REMOTE*\n" +
	"• `/bf [number] [value]`\n" +
	"  _Posts to a specific customer._\n" +
	"  Ex: `/bf 556199998888 50`\n\n" +
	"• `/saldo [number]`\n" +
	"  _Shows a customer's statement._\n\n" +
	"🛠️ *ACCOUNTS*\n" +
	"• `/bf set [number] [value]`\n" +
	"  _Sets the EXACT balance._\n\n" +
	"• `/bf cobrar [number] [dd/mm]`\n" +
	"  _Sets the due date._\n\n" +
	"• `/del [number]`\n" +
	"  _Deletes customer and history._\n\n" +
	"📊 *REPORTS*\n" +
	"• `/listar` - Debtor ranking."

const (
	usageDueDate    = "❌ Use: /bf cobrar [number] [dd/mm]"
	usageSetBalance = "❌ Use: /bf set [number] [value]"
	usageProxy      = "❌ Invalid value. Use: /bf [number] [value]"
	usageLocal      = "❌ Invalid format. Use: /bf [value] [%]"
	usageDelete     = "❌ Use: /del [number]"
	usageBalance    = "❌ Use: /saldo [number]"
)

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func lastRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return string(r)
	}
	return string(r[len(r)-n:])
}
