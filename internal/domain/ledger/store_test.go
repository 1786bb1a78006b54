package ledger

import (
	"errors"
	"path/filepath"
	"testing"

	"payledger/internal/platform/crypto"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	svc, err := crypto.New("")
	if err != nil {
		t.Fatalf("crypto service: %v", err)
	}
	store, err := Open(filepath.Join(t.TempDir(), "ledger.json"), "", svc)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestAddEmployeeAndSnapshot(t *testing.T) {
	store := newTestStore(t)

	before := store.LastUpdated()
	emp, err := store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	if err != nil {
		t.Fatalf("add employee: %v", err)
	}
	if emp.ID == "" {
		t.Fatal("expected a generated id")
	}

	snap := store.Snapshot()
	if len(snap.Employees) != 1 || snap.Employees[0].Name != "Ravi" {
		t.Fatalf("unexpected snapshot: %+v", snap.Employees)
	}
	if snap.LastUpdated < before {
		t.Fatalf("lastUpdated went backwards: %d < %d", snap.LastUpdated, before)
	}

	// The snapshot is a copy; mutating it must not leak into the store.
	snap.Employees[0].Name = "changed"
	if got, _ := store.Employee(emp.ID); got.Name != "Ravi" {
		t.Fatalf("snapshot mutation leaked into store: %q", got.Name)
	}
}

func TestAddAdvanceUnknownEmployee(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.AddAdvance("missing", "2026-01-05", 100); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestLoanLifecycleBalanceMath(t *testing.T) {
	store := newTestStore(t)
	emp, _ := store.AddEmployee("Ravi", "Driver", BankSame, 30000)

	loan, err := store.AddLoan(emp.ID, "2026-01-01", 12000, 3000)
	if err != nil {
		t.Fatalf("add loan: %v", err)
	}
	if got, _ := store.Employee(emp.ID); got.LoanBalance != 12000 {
		t.Fatalf("expected balance 12000, got %v", got.LoanBalance)
	}

	// Raising the total adds only the delta.
	if _, err := store.UpdateLoan(loan.ID, emp.ID, "2026-01-01", 15000, 3000); err != nil {
		t.Fatalf("update loan: %v", err)
	}
	if got, _ := store.Employee(emp.ID); got.LoanBalance != 15000 {
		t.Fatalf("expected balance 15000, got %v", got.LoanBalance)
	}

	// Deleting refunds what is still outstanding.
	if err := store.DeleteLoan(loan.ID); err != nil {
		t.Fatalf("delete loan: %v", err)
	}
	if got, _ := store.Employee(emp.ID); got.LoanBalance != 0 {
		t.Fatalf("expected balance 0, got %v", got.LoanBalance)
	}
}

func TestUpdateLoanPreservesPaidPortion(t *testing.T) {
	store := newTestStore(t)
	emp, _ := store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	loan, _ := store.AddLoan(emp.ID, "2026-01-01", 12000, 3000)

	if _, err := store.SettlePayout(emp.ID, "2026-01-31", 0, ""); err != nil {
		t.Fatalf("settle: %v", err)
	}

	updated, err := store.UpdateLoan(loan.ID, emp.ID, "2026-01-01", 10000, 2000)
	if err != nil {
		t.Fatalf("update loan: %v", err)
	}
	// 3000 was paid, so the new remaining is 10000-3000.
	if updated.RemainingAmount != 7000 {
		t.Fatalf("expected remaining 7000, got %v", updated.RemainingAmount)
	}
	if got, _ := store.Employee(emp.ID); got.LoanBalance != 7000 {
		t.Fatalf("expected balance 7000, got %v", got.LoanBalance)
	}
}

func TestSettlePayoutConsumesEverything(t *testing.T) {
	store := newTestStore(t)
	emp, _ := store.AddEmployee("Ravi", "Driver", BankDifferent, 30000)
	store.AddAdvance(emp.ID, "2026-01-05", 1500)
	store.AddAdvance(emp.ID, "2026-01-12", 500)
	store.AddPenalty(emp.ID, "2026-01-10", 500, "late arrival")
	store.AddLoan(emp.ID, "2026-01-01", 12000, 3000)

	rec, err := store.SettlePayout(emp.ID, "2026-01-31", 150, "january")
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if rec.AdvanceDeduction != 2000 || rec.PenaltyDeduction != 500 || rec.LoanEMIDeduction != 3000 {
		t.Fatalf("unexpected deductions: %+v", rec)
	}
	if rec.NetSalary != 24500 {
		t.Fatalf("expected net 24500, got %v", rec.NetSalary)
	}
	if rec.BankCharges != 150 {
		t.Fatalf("expected bank charges 150, got %v", rec.BankCharges)
	}

	snap := store.Snapshot()
	for _, adv := range snap.Advances {
		if !adv.IsDeducted || adv.PayoutID != rec.ID {
			t.Fatalf("advance not consumed: %+v", adv)
		}
	}
	for _, pen := range snap.Penalties {
		if !pen.IsDeducted || pen.PayoutID != rec.ID {
			t.Fatalf("penalty not consumed: %+v", pen)
		}
	}
	if snap.Loans[0].RemainingAmount != 9000 {
		t.Fatalf("expected remaining 9000, got %v", snap.Loans[0].RemainingAmount)
	}
	if got, _ := store.Employee(emp.ID); got.LoanBalance != 9000 {
		t.Fatalf("expected balance 9000, got %v", got.LoanBalance)
	}
}

func TestSettlePayoutUnknownEmployee(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.SettlePayout("missing", "2026-01-31", 0, ""); !errors.Is(err, ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestSettledRecordsAreImmutable(t *testing.T) {
	store := newTestStore(t)
	emp, _ := store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	adv, _ := store.AddAdvance(emp.ID, "2026-01-05", 1500)
	pen, _ := store.AddPenalty(emp.ID, "2026-01-10", 500, "late")
	store.SettlePayout(emp.ID, "2026-01-31", 0, "")

	if _, err := store.UpdateAdvance(adv.ID, emp.ID, "2026-01-05", 9999); !errors.Is(err, ErrRecordSettled) {
		t.Fatalf("expected ErrRecordSettled on update, got %v", err)
	}
	if err := store.DeleteAdvance(adv.ID); !errors.Is(err, ErrRecordSettled) {
		t.Fatalf("expected ErrRecordSettled on delete, got %v", err)
	}
	if _, err := store.UpdatePenalty(pen.ID, emp.ID, "2026-01-10", 9999, "x"); !errors.Is(err, ErrRecordSettled) {
		t.Fatalf("expected ErrRecordSettled on penalty update, got %v", err)
	}
	if err := store.DeletePenalty(pen.ID); !errors.Is(err, ErrRecordSettled) {
		t.Fatalf("expected ErrRecordSettled on penalty delete, got %v", err)
	}
}

func TestDeletePayoutKeepsSettlementSideEffects(t *testing.T) {
	store := newTestStore(t)
	emp, _ := store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	store.AddAdvance(emp.ID, "2026-01-05", 1500)
	store.AddLoan(emp.ID, "2026-01-01", 12000, 3000)
	rec, _ := store.SettlePayout(emp.ID, "2026-01-31", 0, "")

	if err := store.DeletePayout(rec.ID); err != nil {
		t.Fatalf("delete payout: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.SalaryRecords) != 0 {
		t.Fatalf("expected payout removed, got %d", len(snap.SalaryRecords))
	}
	if !snap.Advances[0].IsDeducted {
		t.Fatal("expected advance to stay consumed after payout delete")
	}
	if snap.Loans[0].RemainingAmount != 9000 {
		t.Fatalf("expected loan decrement to survive, got %v", snap.Loans[0].RemainingAmount)
	}
}

func TestUpdatePayoutFreezesDeductions(t *testing.T) {
	store := newTestStore(t)
	emp, _ := store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	store.AddAdvance(emp.ID, "2026-01-05", 1500)
	rec, _ := store.SettlePayout(emp.ID, "2026-01-31", 100, "")

	// A new pending advance must not enter the existing payout.
	store.AddAdvance(emp.ID, "2026-02-02", 5000)

	updated, err := store.UpdatePayout(rec.ID, emp.ID, "2026-02-01", 200)
	if err != nil {
		t.Fatalf("update payout: %v", err)
	}
	if updated.AdvanceDeduction != 1500 || updated.NetSalary != rec.NetSalary {
		t.Fatalf("deductions were recomputed: %+v", updated)
	}
	if updated.Date != "2026-02-01" || updated.BankCharges != 200 {
		t.Fatalf("editable fields not applied: %+v", updated)
	}
}

func TestPurgeSettledKeepsPendingRecords(t *testing.T) {
	store := newTestStore(t)
	emp, _ := store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	store.AddAdvance(emp.ID, "2026-01-05", 1500)
	store.SettlePayout(emp.ID, "2026-01-31", 0, "")
	pending, _ := store.AddAdvance(emp.ID, "2026-02-02", 700)

	if err := store.PurgeSettled(); err != nil {
		t.Fatalf("purge: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.SalaryRecords) != 0 {
		t.Fatalf("expected payout history cleared, got %d", len(snap.SalaryRecords))
	}
	if len(snap.Advances) != 1 || snap.Advances[0].ID != pending.ID {
		t.Fatalf("expected only the pending advance to survive: %+v", snap.Advances)
	}
	if len(snap.Employees) != 1 {
		t.Fatal("purge must not touch employees")
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	svc, _ := crypto.New("")
	path := filepath.Join(t.TempDir(), "ledger.json")

	store, err := Open(path, "", svc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	emp, _ := store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	store.AddLoan(emp.ID, "2026-01-01", 12000, 3000)

	reopened, err := Open(path, "", svc)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	snap := reopened.Snapshot()
	if len(snap.Employees) != 1 || len(snap.Loans) != 1 {
		t.Fatalf("persisted state lost: %+v", snap)
	}
	if snap.Employees[0].LoanBalance != 12000 {
		t.Fatalf("expected balance 12000 after reload, got %v", snap.Employees[0].LoanBalance)
	}
}

func TestStorePersistsEncrypted(t *testing.T) {
	// 32 bytes, hex encoded.
	svc, err := crypto.New("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	if err != nil {
		t.Fatalf("crypto service: %v", err)
	}
	path := filepath.Join(t.TempDir(), "ledger.bin")

	store, _ := Open(path, "", svc)
	store.AddEmployee("Ravi", "Driver", BankSame, 30000)

	plainSvc, _ := crypto.New("")
	if _, err := Open(path, "", plainSvc); err == nil {
		t.Fatal("expected ciphertext to be unreadable without the key")
	}

	reopened, err := Open(path, "", svc)
	if err != nil {
		t.Fatalf("reopen with key: %v", err)
	}
	if len(reopened.Snapshot().Employees) != 1 {
		t.Fatal("encrypted roundtrip lost data")
	}
}

func TestReplacePreservesLocalEndpoint(t *testing.T) {
	svc, _ := crypto.New("")
	store, err := Open(filepath.Join(t.TempDir(), "ledger.json"), "https://local.example/doc", svc)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	fired := false
	store.SetOnChange(func() { fired = true })

	remote := Ledger{
		Employees:   []Employee{{ID: "r1", Name: "Remote"}},
		Config:      SyncConfig{Endpoint: "https://remote.example/doc"},
		LastUpdated: 42,
	}
	if err := store.Replace(remote); err != nil {
		t.Fatalf("replace: %v", err)
	}

	snap := store.Snapshot()
	if snap.Config.Endpoint != "https://local.example/doc" {
		t.Fatalf("local endpoint lost: %q", snap.Config.Endpoint)
	}
	if snap.LastUpdated != 42 {
		t.Fatalf("expected the remote timestamp to stand, got %d", snap.LastUpdated)
	}
	if snap.Config.LastSync == "" {
		t.Fatal("expected lastSync to be stamped")
	}
	if fired {
		t.Fatal("replace must not fire the change hook")
	}
}

func TestMarkSyncedDoesNotBumpTimestamp(t *testing.T) {
	store := newTestStore(t)
	store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	before := store.LastUpdated()

	fired := false
	store.SetOnChange(func() { fired = true })

	if err := store.MarkSynced(); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if store.LastUpdated() != before {
		t.Fatal("mark synced must not change lastUpdated")
	}
	if store.Snapshot().Config.LastSync == "" {
		t.Fatal("expected lastSync to be stamped")
	}
	if fired {
		t.Fatal("mark synced must not fire the change hook")
	}
}

func TestMutationFiresChangeHook(t *testing.T) {
	store := newTestStore(t)
	count := 0
	store.SetOnChange(func() { count++ })

	store.AddEmployee("Ravi", "Driver", BankSame, 30000)
	if count != 1 {
		t.Fatalf("expected one hook fire, got %d", count)
	}

	// A failed mutation must not fire.
	store.AddAdvance("missing", "2026-01-01", 10)
	if count != 1 {
		t.Fatalf("failed mutation fired the hook, count %d", count)
	}
}
