package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/charlesk/bankdesk/internal/models"
	"github.com/charlesk/bankdesk/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateAccount(t *testing.T, store *Store, number string, balance float64) *models.Account {
	t.Helper()

	account := &models.Account{
		Number:  number,
		Name:    "Test Holder",
		Balance: balance,
	}
	if err := store.CreateAccount(context.Background(), account); err != nil {
		t.Fatalf("CreateAccount(%s) failed: %v", number, err)
	}
	return account
}

func TestAccounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("create populates ID and timestamps", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC100001", 50)
		if account.ID == 0 {
			t.Error("Expected account ID to be populated")
		}
		if account.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("duplicate account number fails and leaves existing row alone", func(t *testing.T) {
		original := &models.Account{Number: "AC100002", Name: "First", Balance: 75}
		if err := store.CreateAccount(ctx, original); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		dup := &models.Account{Number: "AC100002", Name: "Second", Balance: 999}
		err := store.CreateAccount(ctx, dup)
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Fatalf("Expected ErrDuplicate, got %v", err)
		}
		if storage.KindOf(err) != storage.KindConstraint {
			t.Errorf("Expected constraint kind, got %v", storage.KindOf(err))
		}

		got, err := store.GetAccountByNumber(ctx, "AC100002")
		if err != nil {
			t.Fatalf("GetAccountByNumber failed: %v", err)
		}
		if got.Name != "First" || got.Balance != 75 {
			t.Errorf("Existing row was altered: %+v", got)
		}
	})

	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		account := &models.Account{
			Number: "AC100003",
			Name:   "Dana Holder",
			Email:  "dana@example.com",
			Phone:  "555-0100",
		}
		if err := store.CreateAccount(ctx, account); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}

		newName := "Dana Updated"
		if err := store.UpdateAccount(ctx, account.ID, models.AccountUpdate{Name: &newName}); err != nil {
			t.Fatalf("UpdateAccount failed: %v", err)
		}

		got, err := store.GetAccount(ctx, account.ID)
		if err != nil {
			t.Fatalf("GetAccount failed: %v", err)
		}
		if got.Name != "Dana Updated" {
			t.Errorf("Name = %q, want %q", got.Name, "Dana Updated")
		}
		if got.Email != "dana@example.com" || got.Phone != "555-0100" {
			t.Errorf("Omitted fields changed: email=%q phone=%q", got.Email, got.Phone)
		}
	})

	t.Run("update of missing account returns not found", func(t *testing.T) {
		name := "Nobody"
		err := store.UpdateAccount(ctx, 99999, models.AccountUpdate{Name: &name})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete removes the row but not its history", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC100004", 20)
		txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindDeposit, Amount: 5}
		if err := store.PostTransaction(ctx, txn); err != nil {
			t.Fatalf("PostTransaction failed: %v", err)
		}

		if err := store.DeleteAccount(ctx, account.ID); err != nil {
			t.Fatalf("DeleteAccount failed: %v", err)
		}
		if _, err := store.GetAccount(ctx, account.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}

		txns, err := store.ListTransactions(ctx, 100)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		found := false
		for _, tr := range txns {
			if tr.AccountNumber == account.Number {
				found = true
			}
		}
		if !found {
			t.Error("Expected orphaned transaction to survive account deletion")
		}
	})

	t.Run("delete of missing account returns not found", func(t *testing.T) {
		if err := store.DeleteAccount(ctx, 99999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestPostTransaction(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("deposit increases balance and records one row", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC200001", 50)

		txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindDeposit, Amount: 100}
		if err := store.PostTransaction(ctx, txn); err != nil {
			t.Fatalf("PostTransaction failed: %v", err)
		}
		if txn.Reference == "" {
			t.Error("Expected reference to be generated")
		}
		if txn.ID == 0 {
			t.Error("Expected transaction ID to be populated")
		}

		got, err := store.GetAccountByNumber(ctx, account.Number)
		if err != nil {
			t.Fatalf("GetAccountByNumber failed: %v", err)
		}
		if got.Balance != 150 {
			t.Errorf("Balance = %.2f, want 150", got.Balance)
		}

		txns := transactionsFor(t, store, account.Number)
		if len(txns) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(txns))
		}
		if txns[0].Kind != models.KindDeposit || txns[0].Amount != 100 {
			t.Errorf("Unexpected transaction row: %+v", txns[0])
		}
	})

	t.Run("overdraw fails and changes nothing", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC200002", 50)

		txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindWithdraw, Amount: 200}
		err := store.PostTransaction(ctx, txn)
		if !errors.Is(err, storage.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}
		if storage.KindOf(err) != storage.KindBusinessRule {
			t.Errorf("Expected business-rule kind, got %v", storage.KindOf(err))
		}

		got, err := store.GetAccountByNumber(ctx, account.Number)
		if err != nil {
			t.Fatalf("GetAccountByNumber failed: %v", err)
		}
		if got.Balance != 50 {
			t.Errorf("Balance = %.2f, want 50 (unchanged)", got.Balance)
		}
		if txns := transactionsFor(t, store, account.Number); len(txns) != 0 {
			t.Errorf("Expected no transaction rows, got %d", len(txns))
		}
	})

	t.Run("withdrawal to exactly zero is allowed", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC200003", 80)

		txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindWithdraw, Amount: 80}
		if err := store.PostTransaction(ctx, txn); err != nil {
			t.Fatalf("PostTransaction failed: %v", err)
		}

		got, _ := store.GetAccountByNumber(ctx, account.Number)
		if got.Balance != 0 {
			t.Errorf("Balance = %.2f, want 0", got.Balance)
		}
	})

	t.Run("unknown account fails with not found", func(t *testing.T) {
		txn := &models.Transaction{AccountNumber: "AC999999", Kind: models.KindDeposit, Amount: 10}
		err := store.PostTransaction(ctx, txn)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC200004", 10)
		txn := &models.Transaction{AccountNumber: account.Number, Kind: "transfer", Amount: 5}
		err := store.PostTransaction(ctx, txn)
		if !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("non-positive amount is rejected before touching the balance", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC200007", 10)

		for _, amount := range []float64{0, -100} {
			txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindDeposit, Amount: amount}
			err := store.PostTransaction(ctx, txn)
			if !errors.Is(err, storage.ErrInvalidInput) {
				t.Errorf("PostTransaction(amount=%.2f): expected ErrInvalidInput, got %v", amount, err)
			}
		}

		got, err := store.GetAccountByNumber(ctx, account.Number)
		if err != nil {
			t.Fatalf("GetAccountByNumber failed: %v", err)
		}
		if got.Balance != 10 {
			t.Errorf("Balance = %.2f, want 10 (unchanged)", got.Balance)
		}
		if txns := transactionsFor(t, store, account.Number); len(txns) != 0 {
			t.Errorf("Expected no transaction rows, got %d", len(txns))
		}
	})

	t.Run("sums aggregate by kind", func(t *testing.T) {
		sums := newTestStore(t)
		account := mustCreateAccount(t, sums, "AC200005", 0)

		refs := make(map[string]bool)
		for _, amount := range []float64{100, 250} {
			txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindDeposit, Amount: amount}
			if err := sums.PostTransaction(ctx, txn); err != nil {
				t.Fatalf("PostTransaction failed: %v", err)
			}
			refs[txn.Reference] = true
		}
		txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindWithdraw, Amount: 30}
		if err := sums.PostTransaction(ctx, txn); err != nil {
			t.Fatalf("PostTransaction failed: %v", err)
		}
		refs[txn.Reference] = true

		if len(refs) != 3 || refs[""] {
			t.Errorf("Expected 3 distinct non-empty references, got %v", refs)
		}

		deposits, err := sums.SumTransactions(ctx, models.KindDeposit)
		if err != nil {
			t.Fatalf("SumTransactions failed: %v", err)
		}
		if deposits != 350 {
			t.Errorf("Total deposits = %.2f, want 350", deposits)
		}

		withdrawals, err := sums.SumTransactions(ctx, models.KindWithdraw)
		if err != nil {
			t.Fatalf("SumTransactions failed: %v", err)
		}
		if withdrawals != 30 {
			t.Errorf("Total withdrawals = %.2f, want 30", withdrawals)
		}
	})

	t.Run("empty table sums to zero", func(t *testing.T) {
		empty := newTestStore(t)
		total, err := empty.SumTransactions(ctx, models.KindDeposit)
		if err != nil {
			t.Fatalf("SumTransactions failed: %v", err)
		}
		if total != 0 {
			t.Errorf("Total = %.2f, want 0", total)
		}
	})

	t.Run("list is most recent first and capped", func(t *testing.T) {
		account := mustCreateAccount(t, store, "AC200006", 0)
		for i := 0; i < 5; i++ {
			txn := &models.Transaction{AccountNumber: account.Number, Kind: models.KindDeposit, Amount: float64(i + 1)}
			if err := store.PostTransaction(ctx, txn); err != nil {
				t.Fatalf("PostTransaction failed: %v", err)
			}
		}

		txns, err := store.ListTransactions(ctx, 3)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txns) != 3 {
			t.Fatalf("Expected 3 transactions, got %d", len(txns))
		}
		if txns[0].ID < txns[1].ID || txns[1].ID < txns[2].ID {
			t.Error("Expected transactions ordered most recent first")
		}
	})
}

func transactionsFor(t *testing.T, store *Store, number string) []*models.Transaction {
	t.Helper()

	all, err := store.ListTransactions(context.Background(), 1000)
	if err != nil {
		t.Fatalf("ListTransactions failed: %v", err)
	}
	var txns []*models.Transaction
	for _, txn := range all {
		if txn.AccountNumber == number {
			txns = append(txns, txn)
		}
	}
	return txns
}

func TestLoans(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("new loan starts pending", func(t *testing.T) {
		loan := &models.Loan{AccountNumber: "AC300001", Amount: 500}
		if err := store.CreateLoan(ctx, loan); err != nil {
			t.Fatalf("CreateLoan failed: %v", err)
		}
		if loan.Status != models.LoanPending {
			t.Errorf("Status = %s, want pending", loan.Status)
		}
		if loan.CreatedAt != loan.UpdatedAt {
			t.Errorf("Expected created_at == updated_at, got %d != %d", loan.CreatedAt, loan.UpdatedAt)
		}
	})

	t.Run("pending to approved to paid", func(t *testing.T) {
		loan := &models.Loan{AccountNumber: "AC300002", Amount: 250}
		if err := store.CreateLoan(ctx, loan); err != nil {
			t.Fatalf("CreateLoan failed: %v", err)
		}

		if err := store.UpdateLoanStatus(ctx, loan.ID, models.LoanApproved); err != nil {
			t.Fatalf("pending -> approved failed: %v", err)
		}
		if err := store.UpdateLoanStatus(ctx, loan.ID, models.LoanPaid); err != nil {
			t.Fatalf("approved -> paid failed: %v", err)
		}

		got, err := store.GetLoan(ctx, loan.ID)
		if err != nil {
			t.Fatalf("GetLoan failed: %v", err)
		}
		if got.Status != models.LoanPaid {
			t.Errorf("Status = %s, want paid", got.Status)
		}
	})

	t.Run("skipping approved is rejected", func(t *testing.T) {
		loan := &models.Loan{AccountNumber: "AC300003", Amount: 100}
		if err := store.CreateLoan(ctx, loan); err != nil {
			t.Fatalf("CreateLoan failed: %v", err)
		}

		err := store.UpdateLoanStatus(ctx, loan.ID, models.LoanPaid)
		if !errors.Is(err, storage.ErrInvalidTransition) {
			t.Fatalf("Expected ErrInvalidTransition, got %v", err)
		}

		got, _ := store.GetLoan(ctx, loan.ID)
		if got.Status != models.LoanPending {
			t.Errorf("Status = %s, want pending (unchanged)", got.Status)
		}
	})

	t.Run("moving backwards is rejected", func(t *testing.T) {
		loan := &models.Loan{AccountNumber: "AC300004", Amount: 100}
		if err := store.CreateLoan(ctx, loan); err != nil {
			t.Fatalf("CreateLoan failed: %v", err)
		}
		if err := store.UpdateLoanStatus(ctx, loan.ID, models.LoanApproved); err != nil {
			t.Fatalf("pending -> approved failed: %v", err)
		}

		err := store.UpdateLoanStatus(ctx, loan.ID, models.LoanPending)
		if !errors.Is(err, storage.ErrInvalidTransition) {
			t.Errorf("Expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		loan := &models.Loan{AccountNumber: "AC300005", Amount: 100}
		if err := store.CreateLoan(ctx, loan); err != nil {
			t.Fatalf("CreateLoan failed: %v", err)
		}

		err := store.UpdateLoanStatus(ctx, loan.ID, "cancelled")
		if !errors.Is(err, storage.ErrInvalidInput) {
			t.Errorf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("missing loan returns not found", func(t *testing.T) {
		err := store.UpdateLoanStatus(ctx, 99999, models.LoanApproved)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list is most recent first", func(t *testing.T) {
		loans, err := store.ListLoans(ctx)
		if err != nil {
			t.Fatalf("ListLoans failed: %v", err)
		}
		for i := 1; i < len(loans); i++ {
			if loans[i-1].ID < loans[i].ID {
				t.Fatal("Expected loans ordered most recent first")
			}
		}
	})
}

func TestAudit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		entry := &models.AuditEntry{Actor: "Admin", Action: "test action"}
		if err := store.AppendAudit(ctx, entry); err != nil {
			t.Fatalf("AppendAudit failed: %v", err)
		}
		if entry.ID == 0 {
			t.Error("Expected audit entry ID to be populated")
		}
	}

	entries, err := store.ListAudit(ctx, 3)
	if err != nil {
		t.Fatalf("ListAudit failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}
	if entries[0].ID < entries[1].ID {
		t.Error("Expected audit entries ordered most recent first")
	}
}

func TestAdmins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	admin := &models.Admin{Username: "Admin", PasswordHash: "hash", FullName: "Charles Admin"}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		t.Fatalf("CreateAdmin failed: %v", err)
	}

	t.Run("duplicate username fails", func(t *testing.T) {
		dup := &models.Admin{Username: "Admin", PasswordHash: "other"}
		if err := store.CreateAdmin(ctx, dup); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("lookup by username", func(t *testing.T) {
		got, err := store.GetAdminByUsername(ctx, "Admin")
		if err != nil {
			t.Fatalf("GetAdminByUsername failed: %v", err)
		}
		if got.FullName != "Charles Admin" {
			t.Errorf("FullName = %q, want %q", got.FullName, "Charles Admin")
		}
	})

	t.Run("missing username returns not found", func(t *testing.T) {
		if _, err := store.GetAdminByUsername(ctx, "ghost"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("count", func(t *testing.T) {
		n, err := store.CountAdmins(ctx)
		if err != nil {
			t.Fatalf("CountAdmins failed: %v", err)
		}
		if n != 1 {
			t.Errorf("CountAdmins = %d, want 1", n)
		}
	})
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	mustCreateAccount(t, store, "AC400001", 42)
	store.Close()

	// Reopening runs the schema setup again against existing tables.
	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.GetAccountByNumber(ctx, "AC400001")
	if err != nil {
		t.Fatalf("GetAccountByNumber failed after reopen: %v", err)
	}
	if got.Balance != 42 {
		t.Errorf("Balance = %.2f, want 42", got.Balance)
	}
}
