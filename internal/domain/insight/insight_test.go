package insight

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"payledger/internal/domain/ledger"
)

func testLedger() (ledger.Ledger, ledger.Employee) {
	emp := ledger.Employee{ID: "e1", Name: "Ravi", BaseSalary: 30000, LoanBalance: 9000, BankType: ledger.BankSame}
	l := ledger.Ledger{
		Employees: []ledger.Employee{emp},
		SalaryRecords: []ledger.SalaryRecord{
			{ID: "s1", EmployeeID: "e1", NetSalary: 24500},
		},
		Advances: []ledger.AdvanceRecord{
			{ID: "a1", EmployeeID: "e1", Amount: 700},
		},
		Loans: []ledger.LoanRecord{
			{ID: "l1", EmployeeID: "e1", RemainingAmount: 9000, EMIAmount: 3000},
		},
	}
	return l, emp
}

func TestFinancialSummaryReturnsCandidateText(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var req generateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("request not decodable: %v", err)
		}
		gotPrompt = req.Contents[0].Parts[0].Text
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "EMI looks sustainable."}}}},
			},
		})
	}))
	defer srv.Close()

	l, emp := testLedger()
	got := NewAdvisor(srv.URL, "test-key", time.Second).FinancialSummary(context.Background(), l, emp)
	if got != "EMI looks sustainable." {
		t.Fatalf("expected candidate text, got %q", got)
	}
	if !strings.Contains(gotPrompt, "Ravi") || !strings.Contains(gotPrompt, "30000.00") {
		t.Fatalf("prompt missing employee facts: %q", gotPrompt)
	}
}

func TestFinancialSummaryFallsBackOnFailure(t *testing.T) {
	l, emp := testLedger()

	t.Run("unconfigured", func(t *testing.T) {
		if got := NewAdvisor("", "", time.Second).FinancialSummary(context.Background(), l, emp); got != Fallback {
			t.Fatalf("expected fallback, got %q", got)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		if got := NewAdvisor(srv.URL, "", time.Second).FinancialSummary(context.Background(), l, emp); got != Fallback {
			t.Fatalf("expected fallback, got %q", got)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		if got := NewAdvisor("http://127.0.0.1:0", "", 100*time.Millisecond).FinancialSummary(context.Background(), l, emp); got != Fallback {
			t.Fatalf("expected fallback, got %q", got)
		}
	})
}

func TestFinancialSummaryEmptyAnswerIsNotAFailure(t *testing.T) {
	l, emp := testLedger()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer srv.Close()

	got := NewAdvisor(srv.URL, "", time.Second).FinancialSummary(context.Background(), l, emp)
	if got != EmptyResult {
		t.Fatalf("expected the empty-answer message, got %q", got)
	}
}
