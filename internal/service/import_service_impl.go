package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/insanusapp/planner/internal/db"
	"github.com/insanusapp/planner/internal/importer"
	"github.com/insanusapp/planner/internal/repository"
)

type importService struct {
	uow db.UnitOfWork
}

func NewImportService(uow db.UnitOfWork) ImportService {
	return &importService{uow: uow}
}

func (s *importService) ImportPlan(ctx context.Context, filePath string) (*ImportResult, error) {
	schema, err := importer.LoadPlanSchema(filePath)
	if err != nil {
		return nil, err
	}
	return s.ImportPlanFromSchema(ctx, schema)
}

// ImportPlanFromSchema validates, converts and persists an authored plan
// in one transaction: a schema that fails halfway leaves nothing behind.
func (s *importService) ImportPlanFromSchema(ctx context.Context, schema *importer.PlanSchema) (*ImportResult, error) {
	if errs := importer.ValidatePlanSchema(schema); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, errors.New("import validation failed:\n  " + strings.Join(msgs, "\n  "))
	}

	generated, err := importer.Convert(schema)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txPlans := repository.NewSQLitePlanRepo(tx)
		txCurr := repository.NewSQLiteCurriculumRepo(tx)

		if err := txPlans.Create(ctx, generated.Plan); err != nil {
			return fmt.Errorf("creating plan: %w", err)
		}
		for _, d := range generated.Disciplines {
			if err := txCurr.CreateDiscipline(ctx, d); err != nil {
				return err
			}
		}
		for _, t := range generated.Topics {
			if err := txCurr.CreateTopic(ctx, t); err != nil {
				return err
			}
		}
		for _, g := range generated.Goals {
			if err := txCurr.CreateGoal(ctx, g); err != nil {
				return err
			}
		}
		for _, sim := range generated.Simulados {
			if err := txCurr.CreateSimulado(ctx, sim); err != nil {
				return err
			}
		}
		for _, c := range generated.Cycles {
			if err := txCurr.CreateCycle(ctx, c); err != nil {
				return err
			}
		}
		for _, item := range generated.CycleItems {
			if err := txCurr.CreateCycleItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &ImportResult{
		Plan:            generated.Plan,
		DisciplineCount: len(generated.Disciplines),
		TopicCount:      len(generated.Topics),
		GoalCount:       len(generated.Goals),
		SimuladoCount:   len(generated.Simulados),
	}, nil
}
