package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sehat-sathi-server/internal/models"
)

// Confirmer hands a pending consultation to the scheduling service. The
// booking stays pending until Confirm returns.
type Confirmer interface {
	Confirm(ctx context.Context, c *models.Consultation) error
}

// SimulatedConfirmer acknowledges every booking after a fixed delay.
type SimulatedConfirmer struct {
	Delay time.Duration
}

func (s SimulatedConfirmer) Confirm(ctx context.Context, _ *models.Consultation) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// LinkGenerator produces meeting links for consultation types that have one.
type LinkGenerator interface {
	Generate(t models.ConsultationType) *string
}

// RandomLinks appends a short random token to BaseURL.
type RandomLinks struct {
	BaseURL string
}

func (r RandomLinks) Generate(t models.ConsultationType) *string {
	if t == models.ConsultationChat {
		return nil
	}
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	link := strings.TrimRight(r.BaseURL, "/") + "/" + token
	return &link
}
