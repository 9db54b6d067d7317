package seeder

import (
	"context"
	"time"

	"github.com/Lumos-Labs-HQ/objseed/internal/database"
	"github.com/Lumos-Labs-HQ/objseed/internal/types"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Seeder struct {
	store     database.Store
	generator *DataGenerator
	plan      Plan
	now       func() time.Time
}

type Option func(*Seeder)

func WithGenerator(g *DataGenerator) Option {
	return func(s *Seeder) { s.generator = g }
}

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func WithPlan(p Plan) Option {
	return func(s *Seeder) { s.plan = p }
}

func New(store database.Store, opts ...Option) *Seeder {
	s := &Seeder{
		store: store,
		plan:  DefaultPlan(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.generator == nil {
		s.generator = NewDataGenerator(0)
	}
	return s
}

// Seed inserts one run of classes, objects, items and links inside a single
// transaction. On any error the transaction is rolled back and an *Error is
// returned; nothing from the run is committed.
func (s *Seeder) Seed(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New()}
	logger := log.With().Str("run_id", report.RunID.String()).Logger()

	color.Cyan("🌱 Starting database seeding...")

	tx, err := s.store.Begin(ctx)
	if err != nil {
		seedErr := &Error{Stage: StageBegin, Err: err}
		logger.Error().Err(err).Msg("could not start transaction")
		return nil, seedErr
	}
	color.Cyan("🔒 Transaction started")

	if seedErr := s.populate(ctx, tx, report, logger); seedErr != nil {
		logger.Error().Err(seedErr.Err).Str("table", seedErr.Table).Msg("insert failed")
		color.Yellow("🔄 Rolling back transaction due to error...")
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			seedErr.RollbackErr = rbErr
			logger.Error().Err(rbErr).Msg("rollback failed")
		} else {
			color.Yellow("✅ Transaction rolled back")
		}
		return nil, seedErr
	}

	if err := tx.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("commit failed")
		seedErr := &Error{Stage: StageCommit, Err: err}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			seedErr.RollbackErr = rbErr
		}
		return nil, seedErr
	}
	color.Cyan("🔓 Transaction committed")

	report.Duration = time.Since(start)
	logger.Info().
		Int64("classes", report.Counts.Classes).
		Int64("objects", report.Counts.Objects).
		Int64("items", report.Counts.Items).
		Int64("links", report.Counts.Links).
		Dur("duration", report.Duration).
		Msg("seeding committed")

	return report, nil
}

// populate runs the insert cascade. Each class gets its objects; each object
// then gets a fresh batch of items, linked right after the batch is created.
func (s *Seeder) populate(ctx context.Context, tx database.SeedTx, report *Report, logger zerolog.Logger) *Error {
	for i := 1; i <= s.plan.Classes; i++ {
		classID, err := tx.InsertClass(ctx, types.ClassRecord{
			Name: s.generator.Name(ClassPrefix, i),
		})
		if err != nil {
			return insertError(types.TableClasses, err)
		}
		report.Counts.Classes++

		objectCount := s.generator.Between(s.plan.ObjectsPerClass.Min, s.plan.ObjectsPerClass.Max)
		objectIDs := make([]int64, 0, objectCount)
		for j := 1; j <= objectCount; j++ {
			objectID, err := tx.InsertObject(ctx, types.ObjectRecord{
				Name:     s.generator.Name(ObjectPrefix, j),
				Value:    s.generator.Value(),
				DateTime: s.generator.Timestamp(s.now()),
				ClassID:  classID,
			})
			if err != nil {
				return insertError(types.TableObjects, err)
			}
			report.Counts.Objects++
			objectIDs = append(objectIDs, objectID)
		}

		class := ClassResult{ID: classID, Objects: make([]ObjectResult, 0, len(objectIDs))}
		for _, objectID := range objectIDs {
			itemCount := s.generator.Between(s.plan.ItemsPerObject.Min, s.plan.ItemsPerObject.Max)
			itemIDs := make([]int64, 0, itemCount)
			for k := 1; k <= itemCount; k++ {
				itemID, err := tx.InsertItem(ctx, types.ItemRecord{
					Name:     s.generator.Name(ItemPrefix, k),
					Value:    s.generator.Value(),
					DateTime: s.generator.Timestamp(s.now()),
				})
				if err != nil {
					return insertError(types.TableItems, err)
				}
				report.Counts.Items++
				itemIDs = append(itemIDs, itemID)
			}

			for _, itemID := range itemIDs {
				link := types.ObjectItemLink{ObjectID: objectID, ItemID: itemID}
				if err := tx.LinkObjectItem(ctx, link); err != nil {
					return insertError(types.TableObjectItemLink, err)
				}
				report.Counts.Links++
			}

			class.Objects = append(class.Objects, ObjectResult{ID: objectID, ItemIDs: itemIDs})
		}

		report.Classes = append(report.Classes, class)
		logger.Debug().
			Int64("class_id", classID).
			Int("objects", len(objectIDs)).
			Msg("class seeded")
		color.Green("  ✅ %s seeded (%d objects)", s.generator.Name(ClassPrefix, i), len(objectIDs))
	}

	return nil
}
