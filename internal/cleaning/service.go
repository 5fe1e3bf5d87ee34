package cleaning

import (
	"fmt"

	"scrub/domain/core"
	"scrub/domain/table"
	"scrub/ports"
)

// Service dispatches named cleaning requests onto Cleaner operations.
// It implements ports.TableCleaner.
type Service struct{}

// NewService creates a cleaning service.
func NewService() *Service {
	return &Service{}
}

// Apply runs one cleaning operation against a copy of the table and
// returns the transformed copy.
func (s *Service) Apply(t *table.Table, req ports.CleaningRequest) (*table.Table, error) {
	c, err := NewCleaner(t)
	if err != nil {
		return nil, err
	}

	switch req.Op {
	case ports.OpHandleMissing:
		err = c.HandleMissing(req.Column, req.Strategy, req.FillValue)
	case ports.OpRemoveDuplicates:
		err = c.RemoveDuplicates(req.Columns, req.KeepLast)
	case ports.OpRemoveOutliers:
		err = c.RemoveOutliers(req.Column, req.Method)
	case ports.OpEncodeCategorical:
		err = c.EncodeCategorical(req.Column, req.Method)
	case ports.OpScaleFeatures:
		err = c.ScaleFeatures(req.Columns, req.Method)
	case ports.OpDropConstantColumns:
		_, err = c.DropConstantColumns()
	default:
		err = core.NewInvalidInputError(fmt.Sprintf("unknown cleaning operation '%s'", req.Op))
	}
	if err != nil {
		return nil, err
	}
	return c.Table(), nil
}
