package booking

import (
	"context"

	"sehat-sathi-server/internal/models"
)

// Assigner picks the doctor for a new consultation.
type Assigner interface {
	Assign(ctx context.Context, c *models.Consultation) (string, error)
}

// FixedAssigner routes emergencies to one doctor and everything else to another.
type FixedAssigner struct {
	EmergencyDoctor string
	GeneralDoctor   string
}

func (a FixedAssigner) Assign(_ context.Context, c *models.Consultation) (string, error) {
	if c.IsEmergency {
		return a.EmergencyDoctor, nil
	}
	return a.GeneralDoctor, nil
}
