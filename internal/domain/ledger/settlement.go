package ledger

// Settlement is the computed outcome of finalizing a payout for one
// employee: every pending advance and penalty is consumed in full, plus one
// EMI installment of the active loan.
type Settlement struct {
	AdvanceIDs   []string
	PenaltyIDs   []string
	AdvanceTotal float64
	PenaltyTotal float64
	LoanID       string
	EMI          float64
	NetSalary    float64
}

// computeSettlement derives the settlement for employeeID without mutating
// the ledger. The active loan is the first loan in insertion order with a
// positive remaining amount that is not paused; paused loans are skipped
// entirely. The EMI never exceeds the remaining amount, so the final
// installment collects exactly what is left.
//
// Net salary excludes bank charges and is allowed to go negative when the
// deductions exceed the base salary.
func computeSettlement(l Ledger, emp Employee) Settlement {
	var out Settlement
	for _, adv := range l.Advances {
		if adv.EmployeeID == emp.ID && !adv.IsDeducted {
			out.AdvanceIDs = append(out.AdvanceIDs, adv.ID)
			out.AdvanceTotal += adv.Amount
		}
	}
	for _, pen := range l.Penalties {
		if pen.EmployeeID == emp.ID && !pen.IsDeducted {
			out.PenaltyIDs = append(out.PenaltyIDs, pen.ID)
			out.PenaltyTotal += pen.Amount
		}
	}
	for _, loan := range l.Loans {
		if loan.EmployeeID == emp.ID && loan.RemainingAmount > 0 && !loan.IsPaused {
			out.LoanID = loan.ID
			out.EMI = min(loan.EMIAmount, loan.RemainingAmount)
			break
		}
	}
	out.NetSalary = emp.BaseSalary - (out.AdvanceTotal + out.PenaltyTotal + out.EMI)
	return out
}
