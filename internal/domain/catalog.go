package domain

import (
	"fmt"
	"strings"
)

// TaskStatus is a named workflow state a task can be in.
type TaskStatus struct {
	ID   int64  `json:"id"`
	Name string `json:"status_name"`
}

// NewTaskStatus creates a TaskStatus with the given name.
func NewTaskStatus(name string) (*TaskStatus, error) {
	s := &TaskStatus{Name: strings.TrimSpace(name)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the status name.
func (s *TaskStatus) Validate() error {
	return validateCatalogName("status_name", s.Name)
}

// TaskPriority is a named urgency level a task can carry.
type TaskPriority struct {
	ID   int64  `json:"id"`
	Name string `json:"priority_name"`
}

// NewTaskPriority creates a TaskPriority with the given name.
func NewTaskPriority(name string) (*TaskPriority, error) {
	p := &TaskPriority{Name: strings.TrimSpace(name)}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the priority name.
func (p *TaskPriority) Validate() error {
	return validateCatalogName("priority_name", p.Name)
}

func validateCatalogName(field, name string) error {
	if name == "" {
		return validationError(fmt.Errorf("%w: %s", ErrEmptyName, field))
	}
	if len(name) > MaxNameLength {
		return validationError(fmt.Errorf("%w: %s exceeds %d characters", ErrTooLong, field, MaxNameLength))
	}
	return nil
}
