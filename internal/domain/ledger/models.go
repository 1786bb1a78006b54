package ledger

type BankType string

const (
	BankSame      BankType = "SAME"
	BankDifferent BankType = "DIFFERENT"
)

type Employee struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	BankType    BankType `json:"bankType"`
	BaseSalary  float64  `json:"baseSalary"`
	LoanBalance float64  `json:"loanBalance"`
}

// SalaryRecord is an immutable snapshot of the amounts at settlement time.
// Bank charges are recorded but intentionally not part of netSalary, matching
// the historical books this system replaces.
type SalaryRecord struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employeeId"`
	Date             string  `json:"date"`
	BaseSalary       float64 `json:"baseSalary"`
	AdvanceDeduction float64 `json:"advanceDeduction"`
	LoanEMIDeduction float64 `json:"loanEmiDeduction"`
	PenaltyDeduction float64 `json:"penaltyDeduction"`
	BankCharges      float64 `json:"bankCharges"`
	NetSalary        float64 `json:"netSalary"`
	Notes            string  `json:"notes,omitempty"`
}

type AdvanceRecord struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employeeId"`
	Date       string  `json:"date"`
	Amount     float64 `json:"amount"`
	IsDeducted bool    `json:"isDeducted"`
	PayoutID   string  `json:"payoutId,omitempty"`
}

type PenaltyRecord struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employeeId"`
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	IsDeducted  bool    `json:"isDeducted"`
	PayoutID    string  `json:"payoutId,omitempty"`
}

type LoanRecord struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employeeId"`
	Date            string  `json:"date"`
	TotalAmount     float64 `json:"totalAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	EMIAmount       float64 `json:"emiAmount"`
	IsPaused        bool    `json:"isPaused"`
}

type SyncConfig struct {
	Endpoint string `json:"endpoint"`
	LastSync string `json:"lastSync"`
}

// Ledger is the whole single-tenant book: one denormalized document,
// persisted and synchronized wholesale. LastUpdated is the millisecond
// timestamp used as the sole conflict-resolution signal.
type Ledger struct {
	Employees     []Employee      `json:"employees"`
	SalaryRecords []SalaryRecord  `json:"salaryRecords"`
	Advances      []AdvanceRecord `json:"advances"`
	Penalties     []PenaltyRecord `json:"penalties"`
	Loans         []LoanRecord    `json:"loans"`
	Config        SyncConfig      `json:"config"`
	LastUpdated   int64           `json:"lastUpdated"`
}

func (l Ledger) clone() Ledger {
	out := l
	out.Employees = append([]Employee(nil), l.Employees...)
	out.SalaryRecords = append([]SalaryRecord(nil), l.SalaryRecords...)
	out.Advances = append([]AdvanceRecord(nil), l.Advances...)
	out.Penalties = append([]PenaltyRecord(nil), l.Penalties...)
	out.Loans = append([]LoanRecord(nil), l.Loans...)
	return out
}
