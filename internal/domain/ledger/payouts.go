package ledger

import "github.com/google/uuid"

// SettlePayout finalizes a payout for one employee. In a single atomic
// update it creates the salary record, flags every consumed advance and
// penalty with the payout id, decrements the active loan's remaining amount
// by the collected EMI and lowers the employee's loan balance accordingly.
func (s *Store) SettlePayout(employeeID, date string, bankCharges float64, notes string) (SalaryRecord, error) {
	var created SalaryRecord
	err := s.mutate(func(l *Ledger) error {
		var emp *Employee
		for i := range l.Employees {
			if l.Employees[i].ID == employeeID {
				emp = &l.Employees[i]
				break
			}
		}
		if emp == nil {
			return ErrEmployeeNotFound
		}

		st := computeSettlement(*l, *emp)
		created = SalaryRecord{
			ID:               uuid.NewString(),
			EmployeeID:       employeeID,
			Date:             date,
			BaseSalary:       emp.BaseSalary,
			AdvanceDeduction: st.AdvanceTotal,
			PenaltyDeduction: st.PenaltyTotal,
			LoanEMIDeduction: st.EMI,
			BankCharges:      bankCharges,
			NetSalary:        st.NetSalary,
			Notes:            notes,
		}
		l.SalaryRecords = append(l.SalaryRecords, created)

		for i := range l.Advances {
			if l.Advances[i].EmployeeID == employeeID && !l.Advances[i].IsDeducted {
				l.Advances[i].IsDeducted = true
				l.Advances[i].PayoutID = created.ID
			}
		}
		for i := range l.Penalties {
			if l.Penalties[i].EmployeeID == employeeID && !l.Penalties[i].IsDeducted {
				l.Penalties[i].IsDeducted = true
				l.Penalties[i].PayoutID = created.ID
			}
		}
		if st.LoanID != "" {
			for i := range l.Loans {
				if l.Loans[i].ID == st.LoanID {
					l.Loans[i].RemainingAmount = max(0, l.Loans[i].RemainingAmount-st.EMI)
					break
				}
			}
		}
		emp.LoanBalance = max(0, emp.LoanBalance-st.EMI)
		return nil
	})
	return created, err
}

// UpdatePayout rewrites only the date, employee reference and bank charges.
// The deductions were frozen at settlement time and are never recomputed;
// re-running the settlement would double-consume records that are already
// flagged.
func (s *Store) UpdatePayout(id, employeeID, date string, bankCharges float64) (SalaryRecord, error) {
	var updated SalaryRecord
	err := s.mutate(func(l *Ledger) error {
		if !employeeExists(l, employeeID) {
			return ErrEmployeeNotFound
		}
		for i := range l.SalaryRecords {
			if l.SalaryRecords[i].ID == id {
				l.SalaryRecords[i].EmployeeID = employeeID
				l.SalaryRecords[i].Date = date
				l.SalaryRecords[i].BankCharges = bankCharges
				updated = l.SalaryRecords[i]
				return nil
			}
		}
		return ErrPayoutNotFound
	})
	return updated, err
}

// DeletePayout removes the salary record only. The isDeducted flags of the
// advances and penalties it consumed, and the loan decrement, stay in place:
// settlement side effects are irreversible.
func (s *Store) DeletePayout(id string) error {
	return s.mutate(func(l *Ledger) error {
		for i := range l.SalaryRecords {
			if l.SalaryRecords[i].ID == id {
				l.SalaryRecords = append(l.SalaryRecords[:i], l.SalaryRecords[i+1:]...)
				return nil
			}
		}
		return ErrPayoutNotFound
	})
}

// PurgeSettled clears settled advances and penalties and drops the whole
// payout history, keeping only records that still await settlement.
func (s *Store) PurgeSettled() error {
	return s.mutate(func(l *Ledger) error {
		advances := l.Advances[:0]
		for _, adv := range l.Advances {
			if !adv.IsDeducted {
				advances = append(advances, adv)
			}
		}
		l.Advances = advances

		penalties := l.Penalties[:0]
		for _, pen := range l.Penalties {
			if !pen.IsDeducted {
				penalties = append(penalties, pen)
			}
		}
		l.Penalties = penalties

		l.SalaryRecords = nil
		return nil
	})
}
