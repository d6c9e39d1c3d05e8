package collection

import (
	"context"

	"github.com/google/uuid"

	"ghg-portal/reporting-portal-backend/internal/calculation"
)

// LineGateway adapts the collection repository for the calculation engine,
// which only needs the numeric payload of a line.
type LineGateway struct {
	repo Repository
}

func NewLineGateway(repo Repository) *LineGateway {
	return &LineGateway{repo: repo}
}

func (g *LineGateway) GetLine(ctx context.Context, lineID uuid.UUID) (*calculation.ActivityLine, error) {
	line, err := g.repo.GetLine(ctx, lineID)
	if err != nil {
		return nil, err
	}
	return &calculation.ActivityLine{
		ID:         line.ID,
		ProjectID:  line.ProjectID,
		CriteriaID: line.CriteriaID,
		Quantity:   line.Quantity,
		Unit:       line.Unit,
	}, nil
}
