package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"payledger/internal/platform/crypto"
)

// Store owns the ledger document. Every mutation stamps lastUpdated, writes
// the whole document back to disk and fires the change hook; no partially
// applied mutation is ever observable or persisted.
type Store struct {
	mu       sync.Mutex
	data     Ledger
	path     string
	crypto   *crypto.Service
	onChange func()
	now      func() time.Time
}

// Open reads the ledger blob from path, starting an empty ledger when the
// file does not exist yet. A non-empty endpoint pins the sync endpoint over
// whatever the persisted document carries.
func Open(path, endpoint string, cryptoSvc *crypto.Service) (*Store, error) {
	s := &Store{
		path:   path,
		crypto: cryptoSvc,
		now:    time.Now,
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.data = Ledger{LastUpdated: s.now().UnixMilli()}
	case err != nil:
		return nil, fmt.Errorf("read ledger: %w", err)
	default:
		plain, err := cryptoSvc.Decrypt(raw)
		if err != nil {
			return nil, fmt.Errorf("decrypt ledger: %w", err)
		}
		if err := json.Unmarshal(plain, &s.data); err != nil {
			return nil, fmt.Errorf("parse ledger: %w", err)
		}
	}

	if endpoint != "" {
		s.data.Config.Endpoint = endpoint
	}
	return s, nil
}

// SetOnChange registers the hook fired after every local mutation. The sync
// coordinator uses it to arm its debounced push.
func (s *Store) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Store) Snapshot() Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.clone()
}

func (s *Store) LastUpdated() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.LastUpdated
}

func (s *Store) Employee(id string) (Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, emp := range s.data.Employees {
		if emp.ID == id {
			return emp, nil
		}
	}
	return Employee{}, ErrEmployeeNotFound
}

func (s *Store) Payout(id string) (SalaryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.data.SalaryRecords {
		if rec.ID == id {
			return rec, nil
		}
	}
	return SalaryRecord{}, ErrPayoutNotFound
}

// mutate applies fn atomically: on success the document is stamped and
// persisted before the change hook fires, on failure nothing changes.
func (s *Store) mutate(fn func(*Ledger) error) error {
	s.mu.Lock()
	next := s.data.clone()
	if err := fn(&next); err != nil {
		s.mu.Unlock()
		return err
	}
	next.LastUpdated = s.now().UnixMilli()
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.data = next
	onChange := s.onChange
	s.mu.Unlock()

	if onChange != nil {
		onChange()
	}
	return nil
}

func (s *Store) persist(l Ledger) error {
	blob, err := json.Marshal(l)
	if err != nil {
		return err
	}
	sealed, err := s.crypto.Encrypt(blob)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, sealed, 0o600)
}

func (s *Store) AddEmployee(name, role string, bankType BankType, baseSalary float64) (Employee, error) {
	emp := Employee{
		ID:         uuid.NewString(),
		Name:       name,
		Role:       role,
		BankType:   bankType,
		BaseSalary: baseSalary,
	}
	err := s.mutate(func(l *Ledger) error {
		l.Employees = append(l.Employees, emp)
		return nil
	})
	return emp, err
}

func (s *Store) UpdateEmployee(id, name, role string, bankType BankType, baseSalary float64) (Employee, error) {
	var updated Employee
	err := s.mutate(func(l *Ledger) error {
		for i := range l.Employees {
			if l.Employees[i].ID == id {
				l.Employees[i].Name = name
				l.Employees[i].Role = role
				l.Employees[i].BankType = bankType
				l.Employees[i].BaseSalary = baseSalary
				updated = l.Employees[i]
				return nil
			}
		}
		return ErrEmployeeNotFound
	})
	return updated, err
}

// DeleteEmployee removes only the employee; records referencing the id are
// kept as-is. Referential cleanup is a known gap inherited from the books
// this replaces.
func (s *Store) DeleteEmployee(id string) error {
	return s.mutate(func(l *Ledger) error {
		for i := range l.Employees {
			if l.Employees[i].ID == id {
				l.Employees = append(l.Employees[:i], l.Employees[i+1:]...)
				return nil
			}
		}
		return ErrEmployeeNotFound
	})
}

func (s *Store) AddAdvance(employeeID, date string, amount float64) (AdvanceRecord, error) {
	adv := AdvanceRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       date,
		Amount:     amount,
	}
	err := s.mutate(func(l *Ledger) error {
		if !employeeExists(l, employeeID) {
			return ErrEmployeeNotFound
		}
		l.Advances = append(l.Advances, adv)
		return nil
	})
	return adv, err
}

func (s *Store) UpdateAdvance(id, employeeID, date string, amount float64) (AdvanceRecord, error) {
	var updated AdvanceRecord
	err := s.mutate(func(l *Ledger) error {
		if !employeeExists(l, employeeID) {
			return ErrEmployeeNotFound
		}
		for i := range l.Advances {
			if l.Advances[i].ID != id {
				continue
			}
			if l.Advances[i].IsDeducted {
				return ErrRecordSettled
			}
			l.Advances[i].EmployeeID = employeeID
			l.Advances[i].Date = date
			l.Advances[i].Amount = amount
			updated = l.Advances[i]
			return nil
		}
		return ErrAdvanceNotFound
	})
	return updated, err
}

func (s *Store) DeleteAdvance(id string) error {
	return s.mutate(func(l *Ledger) error {
		for i := range l.Advances {
			if l.Advances[i].ID != id {
				continue
			}
			if l.Advances[i].IsDeducted {
				return ErrRecordSettled
			}
			l.Advances = append(l.Advances[:i], l.Advances[i+1:]...)
			return nil
		}
		return ErrAdvanceNotFound
	})
}

func (s *Store) AddPenalty(employeeID, date string, amount float64, description string) (PenaltyRecord, error) {
	pen := PenaltyRecord{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Date:        date,
		Amount:      amount,
		Description: description,
	}
	err := s.mutate(func(l *Ledger) error {
		if !employeeExists(l, employeeID) {
			return ErrEmployeeNotFound
		}
		l.Penalties = append(l.Penalties, pen)
		return nil
	})
	return pen, err
}

func (s *Store) UpdatePenalty(id, employeeID, date string, amount float64, description string) (PenaltyRecord, error) {
	var updated PenaltyRecord
	err := s.mutate(func(l *Ledger) error {
		if !employeeExists(l, employeeID) {
			return ErrEmployeeNotFound
		}
		for i := range l.Penalties {
			if l.Penalties[i].ID != id {
				continue
			}
			if l.Penalties[i].IsDeducted {
				return ErrRecordSettled
			}
			l.Penalties[i].EmployeeID = employeeID
			l.Penalties[i].Date = date
			l.Penalties[i].Amount = amount
			l.Penalties[i].Description = description
			updated = l.Penalties[i]
			return nil
		}
		return ErrPenaltyNotFound
	})
	return updated, err
}

func (s *Store) DeletePenalty(id string) error {
	return s.mutate(func(l *Ledger) error {
		for i := range l.Penalties {
			if l.Penalties[i].ID != id {
				continue
			}
			if l.Penalties[i].IsDeducted {
				return ErrRecordSettled
			}
			l.Penalties = append(l.Penalties[:i], l.Penalties[i+1:]...)
			return nil
		}
		return ErrPenaltyNotFound
	})
}

func employeeExists(l *Ledger, id string) bool {
	for _, emp := range l.Employees {
		if emp.ID == id {
			return true
		}
	}
	return false
}
