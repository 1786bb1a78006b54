package ledger

import "github.com/google/uuid"

// AddLoan opens a loan with the full amount outstanding and adds it to the
// employee's loan balance.
func (s *Store) AddLoan(employeeID, date string, totalAmount, emiAmount float64) (LoanRecord, error) {
	loan := LoanRecord{
		ID:              uuid.NewString(),
		EmployeeID:      employeeID,
		Date:            date,
		TotalAmount:     totalAmount,
		RemainingAmount: totalAmount,
		EMIAmount:       emiAmount,
	}
	err := s.mutate(func(l *Ledger) error {
		if !employeeExists(l, employeeID) {
			return ErrEmployeeNotFound
		}
		l.Loans = append(l.Loans, loan)
		adjustLoanBalance(l, employeeID, totalAmount)
		return nil
	})
	return loan, err
}

// UpdateLoan applies the delta between the new and old total to the
// employee's balance and recomputes the remaining amount so that whatever was
// already paid stays paid.
func (s *Store) UpdateLoan(id, employeeID, date string, totalAmount, emiAmount float64) (LoanRecord, error) {
	var updated LoanRecord
	err := s.mutate(func(l *Ledger) error {
		if !employeeExists(l, employeeID) {
			return ErrEmployeeNotFound
		}
		for i := range l.Loans {
			if l.Loans[i].ID != id {
				continue
			}
			old := l.Loans[i]
			paid := old.TotalAmount - old.RemainingAmount
			l.Loans[i].EmployeeID = employeeID
			l.Loans[i].Date = date
			l.Loans[i].TotalAmount = totalAmount
			l.Loans[i].RemainingAmount = max(0, totalAmount-paid)
			l.Loans[i].EMIAmount = emiAmount
			adjustLoanBalance(l, employeeID, totalAmount-old.TotalAmount)
			updated = l.Loans[i]
			return nil
		}
		return ErrLoanNotFound
	})
	return updated, err
}

// DeleteLoan refunds the remaining amount to the employee's loan balance.
func (s *Store) DeleteLoan(id string) error {
	return s.mutate(func(l *Ledger) error {
		for i := range l.Loans {
			if l.Loans[i].ID != id {
				continue
			}
			loan := l.Loans[i]
			l.Loans = append(l.Loans[:i], l.Loans[i+1:]...)
			adjustLoanBalance(l, loan.EmployeeID, -loan.RemainingAmount)
			return nil
		}
		return ErrLoanNotFound
	})
}

// ToggleLoanPause flips the paused flag; a paused loan is skipped at
// settlement regardless of its remaining amount.
func (s *Store) ToggleLoanPause(id string) (LoanRecord, error) {
	var updated LoanRecord
	err := s.mutate(func(l *Ledger) error {
		for i := range l.Loans {
			if l.Loans[i].ID == id {
				l.Loans[i].IsPaused = !l.Loans[i].IsPaused
				updated = l.Loans[i]
				return nil
			}
		}
		return ErrLoanNotFound
	})
	return updated, err
}

// adjustLoanBalance shifts the employee's running loan balance, flooring at
// zero so the balance invariant survives aggressive edits.
func adjustLoanBalance(l *Ledger, employeeID string, delta float64) {
	for i := range l.Employees {
		if l.Employees[i].ID == employeeID {
			l.Employees[i].LoanBalance = max(0, l.Employees[i].LoanBalance+delta)
			return
		}
	}
}
