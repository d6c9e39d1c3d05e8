package calculation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ghg-portal/reporting-portal-backend/internal/masterdata"
	"ghg-portal/reporting-portal-backend/pkg/workflows"
)

// ProjectGateway is the slice of the projects module the calculation service
// needs: the current status to gate edits, and a sink for recomputed totals.
type ProjectGateway interface {
	GetStatus(ctx context.Context, projectID uuid.UUID) (workflows.Status, error)
	UpdateTotals(ctx context.Context, projectID uuid.UUID, totals Totals) error
}

// ActivityLineGateway exposes the activity data needed to calculate a line.
type ActivityLineGateway interface {
	GetLine(ctx context.Context, lineID uuid.UUID) (*ActivityLine, error)
}

// ActivityLine is the calculation-facing view of an activity data line.
type ActivityLine struct {
	ID         uuid.UUID
	ProjectID  uuid.UUID
	CriteriaID uint
	Quantity   decimal.Decimal
	Unit       string
}

// CalculateLineRequest carries the inputs for calculating one activity line.
type CalculateLineRequest struct {
	ActivityDataID   uuid.UUID `json:"activity_data_id" binding:"required"`
	EmissionFactorID *uint     `json:"emission_factor_id"`
	// Manual factor entry, used when no reference factor fits.
	ManualFactor   *decimal.Decimal `json:"manual_factor"`
	FactorSource   string           `json:"factor_source"`
	GWP            decimal.Decimal  `json:"gwp"`
	UnitConversion decimal.Decimal  `json:"unit_conversion"`
	Notes          string           `json:"notes"`
}

// Service applies the formula engine to activity lines and keeps submission
// totals consistent.
type Service struct {
	repo     Repository
	factors  masterdata.Repository
	projects ProjectGateway
	lines    ActivityLineGateway
	logger   *zap.Logger
}

func NewService(repo Repository, factors masterdata.Repository, projects ProjectGateway, lines ActivityLineGateway, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		factors:  factors,
		projects: projects,
		lines:    lines,
		logger:   logger,
	}
}

// CalculateLine computes and stores the emissions for one activity line.
// Only permitted while the submission is UNDER_CALCULATION.
func (s *Service) CalculateLine(ctx context.Context, req CalculateLineRequest, actorID uuid.UUID) (*Calculation, error) {
	calc, err := s.buildCalculation(ctx, req, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, calc); err != nil {
		return nil, fmt.Errorf("failed to save calculation: %w", err)
	}

	if err := s.RecomputeTotals(ctx, calc.ProjectID); err != nil {
		return nil, err
	}

	s.logger.Info("Calculation created",
		zap.String("project_id", calc.ProjectID.String()),
		zap.String("activity_data_id", calc.ActivityDataID.String()),
		zap.String("emissions_tco2e", calc.EmissionsTonnes.String()))

	return calc, nil
}

// buildCalculation validates the request and computes the calculation record
// without persisting anything.
func (s *Service) buildCalculation(ctx context.Context, req CalculateLineRequest, actorID uuid.UUID) (*Calculation, error) {
	line, err := s.lines.GetLine(ctx, req.ActivityDataID)
	if err != nil {
		return nil, fmt.Errorf("activity line not found: %w", err)
	}

	status, err := s.projects.GetStatus(ctx, line.ProjectID)
	if err != nil {
		return nil, err
	}
	if status != workflows.StatusUnderCalculation {
		return nil, fmt.Errorf("calculations can only be entered while the submission is %s, current status is %s",
			workflows.StatusUnderCalculation, status)
	}

	factor, scope, category, source, gwp, err := s.resolveFactor(ctx, req)
	if err != nil {
		return nil, err
	}
	if scope == "" {
		// Manual factors carry no scope; the reporting category decides it.
		crit, critErr := s.factors.GetCriteria(ctx, line.CriteriaID)
		if critErr != nil {
			return nil, fmt.Errorf("failed to resolve criteria %d: %w", line.CriteriaID, critErr)
		}
		scope = crit.Scope
		category = crit.Category
	}
	if scope != ScopeOne && scope != ScopeTwo && scope != ScopeThree {
		return nil, fmt.Errorf("unrecognized scope %q for criteria %d", scope, line.CriteriaID)
	}

	unitConversion := req.UnitConversion
	if unitConversion.IsZero() {
		unitConversion = decimal.NewFromInt(1)
	}

	result, err := Calculate(line.Quantity, factor, gwp, unitConversion)
	if err != nil {
		return nil, err
	}

	breakdown, _ := json.Marshal(result)

	calc := &Calculation{
		ProjectID:            line.ProjectID,
		ActivityDataID:       line.ID,
		CriteriaID:           line.CriteriaID,
		ActivityQuantity:     line.Quantity,
		EmissionFactor:       factor,
		EmissionFactorID:     req.EmissionFactorID,
		EmissionFactorSource: source,
		GWP:                  gwp,
		UnitConversion:       unitConversion,
		EmissionsKg:          result.EmissionsKg,
		EmissionsTonnes:      result.EmissionsTonnes,
		Scope:                scope,
		Category:             category,
		FormulaUsed:          result.Formula,
		Breakdown:            breakdown,
		CalculatedBy:         actorID,
		CalculatedAt:         time.Now(),
		Notes:                req.Notes,
	}
	return calc, nil
}

// resolveFactor picks the emission factor for a request: a reference factor
// by id, or a manual value with an explicit source note.
func (s *Service) resolveFactor(ctx context.Context, req CalculateLineRequest) (factor decimal.Decimal, scope, category, source string, gwp decimal.Decimal, err error) {
	gwp = req.GWP
	if gwp.IsZero() {
		gwp = decimal.NewFromInt(1)
	}

	if req.EmissionFactorID != nil {
		ref, lookupErr := s.factors.GetFactor(ctx, *req.EmissionFactorID)
		if lookupErr != nil {
			err = fmt.Errorf("emission factor not found: %w", lookupErr)
			return
		}
		factor = decimal.NewFromFloat(ref.Factor)
		scope = ref.Scope
		category = ref.Category
		source = fmt.Sprintf("reference:%d (%s)", ref.ID, ref.Source)
		if req.GWP.IsZero() && ref.GWP != 0 {
			gwp = decimal.NewFromFloat(ref.GWP)
		}
		return
	}

	if req.ManualFactor == nil {
		err = fmt.Errorf("either emission_factor_id or manual_factor is required")
		return
	}
	factor = *req.ManualFactor
	source = req.FactorSource
	if source == "" {
		source = "manual"
	}
	// Scope is derived from the criteria for manual factors.
	return
}

// UpdateLine recalculates an existing calculation with new inputs.
func (s *Service) UpdateLine(ctx context.Context, calcID uuid.UUID, req CalculateLineRequest, actorID uuid.UUID) (*Calculation, error) {
	existing, err := s.repo.GetByID(ctx, calcID)
	if err != nil {
		return nil, fmt.Errorf("calculation not found: %w", err)
	}
	if existing.Superseded {
		return nil, fmt.Errorf("superseded calculations are read-only")
	}

	// Validate and compute the replacement before touching the stored row,
	// so a bad request cannot leave the line uncovered.
	req.ActivityDataID = existing.ActivityDataID
	replacement, err := s.buildCalculation(ctx, req, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, calcID, replacement); err != nil {
		return nil, fmt.Errorf("failed to replace calculation: %w", err)
	}

	if err := s.RecomputeTotals(ctx, replacement.ProjectID); err != nil {
		return nil, err
	}

	s.logger.Info("Calculation replaced",
		zap.String("project_id", replacement.ProjectID.String()),
		zap.String("calculation_id", calcID.String()),
		zap.String("emissions_tco2e", replacement.EmissionsTonnes.String()))

	return replacement, nil
}

// ListByProject returns the project's calculation lines.
func (s *Service) ListByProject(ctx context.Context, projectID uuid.UUID, includeSuperseded bool) ([]Calculation, error) {
	return s.repo.ListByProject(ctx, projectID, includeSuperseded)
}

// Coverage reports how many activity lines still lack a current calculation.
func (s *Service) Coverage(ctx context.Context, projectID uuid.UUID) (*CoverageSummary, error) {
	uncovered, err := s.repo.CountUncoveredLines(ctx, projectID)
	if err != nil {
		return nil, err
	}
	calcs, err := s.repo.ListByProject(ctx, projectID, false)
	if err != nil {
		return nil, err
	}
	covered := map[uuid.UUID]bool{}
	for _, c := range calcs {
		covered[c.ActivityDataID] = true
	}
	return &CoverageSummary{
		TotalLines:     len(covered) + uncovered,
		CoveredLines:   len(covered),
		UncoveredLines: uncovered,
	}, nil
}

// RecomputeTotals re-sums every current calculation line of the project into
// scope subtotals and a grand total on the submission record. The
// recomputation is total, never incremental.
func (s *Service) RecomputeTotals(ctx context.Context, projectID uuid.UUID) error {
	lines, err := s.repo.ListByProject(ctx, projectID, false)
	if err != nil {
		return err
	}
	totals := Aggregate(lines)
	if err := s.projects.UpdateTotals(ctx, projectID, totals); err != nil {
		return fmt.Errorf("failed to update submission totals: %w", err)
	}
	return nil
}
