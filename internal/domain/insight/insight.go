package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"payledger/internal/domain/ledger"
)

// Fallback is returned for every failure mode: the advisory is a
// nice-to-have and must never block or break the ledger flows.
const Fallback = "Insights unavailable."

// EmptyResult is returned when the collaborator answers successfully but
// with no text, so callers can tell a mute answer from a failed call.
const EmptyResult = "Unable to generate insights at this time."

const systemInstruction = "You are a professional financial auditor. Provide insights in a professional tone, focused on sustainability and cash flow."

// Advisor asks an external generateContent-style endpoint for a free-text
// financial health check of one employee. The collaborator is opaque:
// whatever text comes back is the answer.
type Advisor struct {
	HTTP   *http.Client
	URL    string
	APIKey string
}

func NewAdvisor(url, apiKey string, timeout time.Duration) *Advisor {
	return &Advisor{
		HTTP:   &http.Client{Timeout: timeout},
		URL:    url,
		APIKey: apiKey,
	}
}

func (a *Advisor) Configured() bool {
	return a != nil && a.URL != ""
}

type generateRequest struct {
	SystemInstruction content   `json:"systemInstruction"`
	Contents          []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// FinancialSummary builds the prompt from the employee's recent history and
// returns the collaborator's text, or Fallback on any transport, status or
// decode failure.
func (a *Advisor) FinancialSummary(ctx context.Context, l ledger.Ledger, emp ledger.Employee) string {
	if !a.Configured() {
		return Fallback
	}

	payload, err := json.Marshal(generateRequest{
		SystemInstruction: content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Parts: []part{{Text: buildPrompt(l, emp)}}}},
	})
	if err != nil {
		return Fallback
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.URL, bytes.NewReader(payload))
	if err != nil {
		return Fallback
	}
	req.Header.Set("Content-Type", "application/json")
	if a.APIKey != "" {
		req.Header.Set("x-goog-api-key", a.APIKey)
	}

	resp, err := a.HTTP.Do(req)
	if err != nil {
		slog.Warn("insight request failed", "err", err)
		return Fallback
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		slog.Warn("insight request rejected", "status", resp.StatusCode)
		return Fallback
	}

	var decoded generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		slog.Warn("insight response malformed", "err", err)
		return Fallback
	}
	var sb strings.Builder
	for _, cand := range decoded.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break
	}
	if sb.Len() == 0 {
		return EmptyResult
	}
	return sb.String()
}

func buildPrompt(l ledger.Ledger, emp ledger.Employee) string {
	var history []ledger.SalaryRecord
	for _, rec := range l.SalaryRecords {
		if rec.EmployeeID == emp.ID {
			history = append(history, rec)
		}
	}
	if len(history) > 3 {
		history = history[len(history)-3:]
	}
	var pending []ledger.AdvanceRecord
	for _, adv := range l.Advances {
		if adv.EmployeeID == emp.ID && !adv.IsDeducted {
			pending = append(pending, adv)
		}
	}
	var open []ledger.LoanRecord
	for _, loan := range l.Loans {
		if loan.EmployeeID == emp.ID && loan.RemainingAmount > 0 {
			open = append(open, loan)
		}
	}

	historyJSON, _ := json.Marshal(history)
	pendingJSON, _ := json.Marshal(pending)
	openJSON, _ := json.Marshal(open)

	return fmt.Sprintf(`Analyze the financial status for employee: %s.
Current Base Salary: %.2f
Loan Balance: %.2f
Bank Type: %s

Salary History (Last 3 records): %s
Pending Advances: %s
Active Loans: %s

Please provide a concise financial health check, suggesting if the current EMI is sustainable and if any bank charge optimizations are possible.`,
		emp.Name, emp.BaseSalary, emp.LoanBalance, emp.BankType,
		historyJSON, pendingJSON, openJSON)
}
