package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charlesk/bankdesk/internal/auth"
	"github.com/charlesk/bankdesk/internal/ledger"
	"github.com/charlesk/bankdesk/internal/models"
)

// listLimit caps the rows shown by the transaction and audit views.
const listLimit = 100

// shell is the interactive console. It collects input, calls the ledger
// service, and formats results; all business rules live behind the service.
type shell struct {
	svc   *ledger.Service
	auth  auth.Authenticator
	in    *bufio.Scanner
	out   io.Writer
	actor string
}

func newShell(svc *ledger.Service, authenticator auth.Authenticator, in io.Reader, out io.Writer) *shell {
	return &shell{
		svc:  svc,
		auth: authenticator,
		in:   bufio.NewScanner(in),
		out:  out,
	}
}

// run drives the login prompt and the main menu until the admin quits or
// input is exhausted.
func (sh *shell) run(ctx context.Context) error {
	fmt.Fprintln(sh.out, "bankdesk: bank management console")

	if !sh.login(ctx) {
		return nil
	}

	for {
		sh.printMenu()
		choice, ok := sh.prompt("> ")
		if !ok {
			break
		}

		switch strings.TrimSpace(choice) {
		case "1":
			sh.listAccounts(ctx)
		case "2":
			sh.openAccount(ctx)
		case "3":
			sh.updateAccount(ctx)
		case "4":
			sh.deleteAccount(ctx)
		case "5":
			sh.postTransaction(ctx, models.KindDeposit)
		case "6":
			sh.postTransaction(ctx, models.KindWithdraw)
		case "7":
			sh.listTransactions(ctx)
		case "8":
			sh.requestLoan(ctx)
		case "9":
			sh.setLoanStatus(ctx)
		case "10":
			sh.listLoans(ctx)
		case "11":
			sh.report(ctx)
		case "12":
			sh.listAudit(ctx)
		case "0", "q", "quit":
			sh.svc.RecordLogout(ctx, sh.actor)
			fmt.Fprintln(sh.out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(sh.out, "Unknown choice.")
		}
	}

	sh.svc.RecordLogout(ctx, sh.actor)
	return nil
}

func (sh *shell) login(ctx context.Context) bool {
	for {
		username, ok := sh.prompt("Username: ")
		if !ok {
			return false
		}
		password, ok := sh.prompt("Password: ")
		if !ok {
			return false
		}

		admin, err := sh.auth.Authenticate(ctx, strings.TrimSpace(username), password)
		if err != nil {
			fmt.Fprintln(sh.out, "Login failed:", err)
			continue
		}

		sh.actor = admin.Username
		sh.svc.RecordLogin(ctx, sh.actor)
		fmt.Fprintf(sh.out, "Welcome, %s.\n", admin.FullName)
		return true
	}
}

func (sh *shell) printMenu() {
	fmt.Fprint(sh.out, `
 1) List accounts          7) Recent transactions
 2) Open account           8) Request loan
 3) Update account         9) Set loan status
 4) Delete account        10) List loans
 5) Deposit               11) Totals report
 6) Withdraw              12) Audit log
 0) Logout and quit
`)
}

func (sh *shell) listAccounts(ctx context.Context) {
	accounts, err := sh.svc.Accounts(ctx)
	if err != nil {
		sh.fail(err)
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tNAME\tEMAIL\tPHONE\tBALANCE\tCREATED")
	for _, a := range accounts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			a.ID, a.Number, a.Name, a.Email, a.Phone, a.Balance, formatTime(a.CreatedAt))
	}
	w.Flush()
}

func (sh *shell) openAccount(ctx context.Context) {
	name, ok := sh.prompt("Holder name: ")
	if !ok || strings.TrimSpace(name) == "" {
		fmt.Fprintln(sh.out, "Name is required.")
		return
	}
	email, _ := sh.prompt("Email (optional): ")
	phone, _ := sh.prompt("Phone (optional): ")
	balance, ok := sh.promptFloat("Initial balance: ")
	if !ok {
		return
	}

	account, err := sh.svc.OpenAccount(ctx, sh.actor, strings.TrimSpace(name),
		strings.TrimSpace(email), strings.TrimSpace(phone), balance)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Opened account %s for %s.\n", account.Number, account.Name)
}

func (sh *shell) updateAccount(ctx context.Context) {
	id, ok := sh.promptInt("Account ID: ")
	if !ok {
		return
	}

	fmt.Fprintln(sh.out, "Leave a field blank to keep its current value.")
	var upd models.AccountUpdate
	if v, ok := sh.prompt("New name: "); ok && strings.TrimSpace(v) != "" {
		name := strings.TrimSpace(v)
		upd.Name = &name
	}
	if v, ok := sh.prompt("New email: "); ok && strings.TrimSpace(v) != "" {
		email := strings.TrimSpace(v)
		upd.Email = &email
	}
	if v, ok := sh.prompt("New phone: "); ok && strings.TrimSpace(v) != "" {
		phone := strings.TrimSpace(v)
		upd.Phone = &phone
	}

	if err := sh.svc.UpdateAccount(ctx, sh.actor, id, upd); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "Account updated.")
}

func (sh *shell) deleteAccount(ctx context.Context) {
	id, ok := sh.promptInt("Account ID: ")
	if !ok {
		return
	}
	confirm, ok := sh.prompt("Delete this account? Transactions and loans stay on record. [y/N]: ")
	if !ok || strings.ToLower(strings.TrimSpace(confirm)) != "y" {
		fmt.Fprintln(sh.out, "Cancelled.")
		return
	}

	if err := sh.svc.DeleteAccount(ctx, sh.actor, id); err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "Account deleted.")
}

func (sh *shell) postTransaction(ctx context.Context, kind models.TransactionKind) {
	number, ok := sh.prompt("Account number: ")
	if !ok {
		return
	}
	amount, ok := sh.promptFloat("Amount: ")
	if !ok {
		return
	}
	note, _ := sh.prompt("Note (optional): ")

	var (
		txn *models.Transaction
		err error
	)
	if kind == models.KindDeposit {
		txn, err = sh.svc.Deposit(ctx, sh.actor, strings.TrimSpace(number), amount, strings.TrimSpace(note))
	} else {
		txn, err = sh.svc.Withdraw(ctx, sh.actor, strings.TrimSpace(number), amount, strings.TrimSpace(note))
	}
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Posted %s of %.2f (reference %s).\n", txn.Kind, txn.Amount, txn.Reference)
}

func (sh *shell) listTransactions(ctx context.Context) {
	txns, err := sh.svc.Transactions(ctx, listLimit)
	if err != nil {
		sh.fail(err)
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tKIND\tAMOUNT\tNOTE\tWHEN")
	for _, t := range txns {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%s\t%s\n",
			t.ID, t.AccountNumber, t.Kind, t.Amount, t.Note, formatTime(t.CreatedAt))
	}
	w.Flush()
}

func (sh *shell) requestLoan(ctx context.Context) {
	number, ok := sh.prompt("Account number: ")
	if !ok {
		return
	}
	amount, ok := sh.promptFloat("Amount: ")
	if !ok {
		return
	}

	loan, err := sh.svc.RequestLoan(ctx, sh.actor, strings.TrimSpace(number), amount)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Loan %d recorded as %s.\n", loan.ID, loan.Status)
}

func (sh *shell) setLoanStatus(ctx context.Context) {
	id, ok := sh.promptInt("Loan ID: ")
	if !ok {
		return
	}
	status, ok := sh.prompt("New status (approved/paid): ")
	if !ok {
		return
	}

	err := sh.svc.SetLoanStatus(ctx, sh.actor, id, models.LoanStatus(strings.TrimSpace(status)))
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintln(sh.out, "Loan updated.")
}

func (sh *shell) listLoans(ctx context.Context) {
	loans, err := sh.svc.Loans(ctx)
	if err != nil {
		sh.fail(err)
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tAMOUNT\tSTATUS\tREQUESTED\tUPDATED")
	for _, l := range loans {
		fmt.Fprintf(w, "%d\t%s\t%.2f\t%s\t%s\t%s\n",
			l.ID, l.AccountNumber, l.Amount, l.Status, formatTime(l.CreatedAt), formatTime(l.UpdatedAt))
	}
	w.Flush()
}

func (sh *shell) report(ctx context.Context) {
	deposits, err := sh.svc.TotalDeposits(ctx)
	if err != nil {
		sh.fail(err)
		return
	}
	withdrawals, err := sh.svc.TotalWithdrawals(ctx)
	if err != nil {
		sh.fail(err)
		return
	}
	fmt.Fprintf(sh.out, "Total deposits:    %.2f\n", deposits)
	fmt.Fprintf(sh.out, "Total withdrawals: %.2f\n", withdrawals)
}

func (sh *shell) listAudit(ctx context.Context) {
	entries, err := sh.svc.Audit(ctx, listLimit)
	if err != nil {
		sh.fail(err)
		return
	}

	w := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACTOR\tACTION\tWHEN")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Actor, e.Action, formatTime(e.CreatedAt))
	}
	w.Flush()
}

func (sh *shell) fail(err error) {
	fmt.Fprintln(sh.out, "Error:", err)
}

// prompt reads one line. ok is false once input is exhausted.
func (sh *shell) prompt(label string) (value string, ok bool) {
	fmt.Fprint(sh.out, label)
	if !sh.in.Scan() {
		return "", false
	}
	return sh.in.Text(), true
}

func (sh *shell) promptFloat(label string) (float64, bool) {
	raw, ok := sh.prompt(label)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		fmt.Fprintln(sh.out, "Not a number.")
		return 0, false
	}
	return v, true
}

func (sh *shell) promptInt(label string) (int64, bool) {
	raw, ok := sh.prompt(label)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		fmt.Fprintln(sh.out, "Not a number.")
		return 0, false
	}
	return v, true
}

func formatTime(unix int64) string {
	return time.Unix(unix, 0).Format("2006-01-02 15:04")
}
