package patient

import "errors"

// ErrNotFound — no registered patient matches the requested name.
var ErrNotFound = errors.New("patient not found")

type Patient struct {
	ID   int
	Name string
}

// Registry — append-only patient storage
type Registry interface {
	NextID() int
	Create(name string) (Patient, error)
	FindByName(name string) (Patient, error)
	ListAll() ([]Patient, error)
}

// Service — patient operations exposed to the delivery layer
type Service interface {
	Create(name string) (Patient, error)
	FindByName(name string) (Patient, error)
	ListAll() ([]Patient, error)
}
