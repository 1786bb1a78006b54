package ledger

// StoreAPI is the mutation surface the HTTP handlers work against.
type StoreAPI interface {
	Snapshot() Ledger
	LastUpdated() int64
	Employee(id string) (Employee, error)
	Payout(id string) (SalaryRecord, error)

	AddEmployee(name, role string, bankType BankType, baseSalary float64) (Employee, error)
	UpdateEmployee(id, name, role string, bankType BankType, baseSalary float64) (Employee, error)
	DeleteEmployee(id string) error

	AddAdvance(employeeID, date string, amount float64) (AdvanceRecord, error)
	UpdateAdvance(id, employeeID, date string, amount float64) (AdvanceRecord, error)
	DeleteAdvance(id string) error

	AddPenalty(employeeID, date string, amount float64, description string) (PenaltyRecord, error)
	UpdatePenalty(id, employeeID, date string, amount float64, description string) (PenaltyRecord, error)
	DeletePenalty(id string) error

	AddLoan(employeeID, date string, totalAmount, emiAmount float64) (LoanRecord, error)
	UpdateLoan(id, employeeID, date string, totalAmount, emiAmount float64) (LoanRecord, error)
	DeleteLoan(id string) error
	ToggleLoanPause(id string) (LoanRecord, error)

	SettlePayout(employeeID, date string, bankCharges float64, notes string) (SalaryRecord, error)
	UpdatePayout(id, employeeID, date string, bankCharges float64) (SalaryRecord, error)
	DeletePayout(id string) error
	PurgeSettled() error
}
