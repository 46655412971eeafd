package persistence

import (
	"errors"

	"github.com/petrijr/planweave/pkg/api"
)

// ErrRunNotFound is returned when a run record is not found.
var ErrRunNotFound = errors.New("run not found")

// RunFilter is used to select run records from the store.
// Empty string / zero status mean "no filter" for that field.
type RunFilter struct {
	Graph  string
	Status api.Status
}

// RunStore handles storage of run records.
type RunStore interface {
	SaveRun(rec *api.RunRecord) error
	UpdateRun(rec *api.RunRecord) error
	GetRun(id string) (*api.RunRecord, error)
	ListRuns(filter RunFilter) ([]*api.RunRecord, error)
}
