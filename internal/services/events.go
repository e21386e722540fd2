package services

import (
	"context"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/rs/zerolog/log"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/observability/metrics"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/observability/tracing"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
)

// processNotification classifies a raw deploy notification and applies each
// resulting domain event in order. Events are independent: a failure on one
// does not prevent applying the next.
func (s *Service) processNotification(ctx context.Context, notification *types.DeployNotification) {
	ctx = tracing.InjectTraceID(ctx)

	events := s.classifier.Classify(notification)
	if len(events) == 0 {
		return
	}

	for _, event := range events {
		start := time.Now()
		err := s.applyEvent(ctx, event)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).
				Str("event_type", event.Type().String()).
				Str("deploy_hash", event.Hash()).
				Msg("Failed to apply event")
		}
		metrics.RecordEventProcessingDuration(time.Since(start), event.Type().String(), err != nil)
	}
}

func (s *Service) applyEvent(ctx context.Context, event types.DomainEvent) error {
	switch e := event.(type) {
	case types.DepositEvent:
		return s.processDeposit(ctx, e)
	case types.WithdrawalEvent:
		return s.processWithdrawal(ctx, e)
	case types.RebalanceEvent:
		return s.processRebalance(ctx, e)
	default:
		log.Ctx(ctx).Warn().
			Str("event_type", event.Type().String()).
			Msg("Unhandled event type")
		return nil
	}
}

func (s *Service) processDeposit(ctx context.Context, event types.DepositEvent) error {
	amount := normalizeMotes(event.AmountMotes)
	shares := normalizeMotes(event.SharesMotes)

	tx := &model.Transaction{
		DeployHash:  event.DeployHash,
		UserAddress: event.User,
		Type:        types.EventTypeDeposit,
		Amount:      amount,
		Shares:      &shares,
		Timestamp:   event.Timestamp,
		BlockHash:   optional(event.BlockHash),
		Status:      types.TxStatusSuccess,
	}
	if err := s.db.SaveTransaction(ctx, tx); err != nil {
		if db.IsDuplicateKeyError(err) {
			log.Ctx(ctx).Debug().
				Str("deploy_hash", event.DeployHash).
				Msg("Deploy already indexed, skipping")
			return nil
		}
		return err
	}

	if err := s.db.ApplyDeposit(ctx, event.User, amount, shares); err != nil {
		return err
	}

	return s.RecomputeStats(ctx)
}

func (s *Service) processWithdrawal(ctx context.Context, event types.WithdrawalEvent) error {
	amount := normalizeMotes(event.AmountMotes)
	shares := normalizeMotes(event.SharesMotes)

	tx := &model.Transaction{
		DeployHash:  event.DeployHash,
		UserAddress: event.User,
		Type:        types.EventTypeWithdraw,
		Amount:      amount,
		Shares:      &shares,
		Timestamp:   event.Timestamp,
		BlockHash:   optional(event.BlockHash),
		Status:      types.TxStatusSuccess,
	}
	if err := s.db.SaveTransaction(ctx, tx); err != nil {
		if db.IsDuplicateKeyError(err) {
			log.Ctx(ctx).Debug().
				Str("deploy_hash", event.DeployHash).
				Msg("Deploy already indexed, skipping")
			return nil
		}
		return err
	}

	if err := s.db.ApplyWithdrawal(ctx, event.User, shares); err != nil {
		return err
	}

	return s.RecomputeStats(ctx)
}

// processRebalance records the pool movement under the system address.
// Rebalances shift funds between strategies and never touch user positions.
func (s *Service) processRebalance(ctx context.Context, event types.RebalanceEvent) error {
	amount := normalizeMotes(event.AmountMotes)

	tx := &model.Transaction{
		DeployHash:  event.DeployHash,
		UserAddress: types.SystemAddress,
		Type:        types.EventTypeRebalance,
		Amount:      amount,
		Timestamp:   event.Timestamp,
		BlockHash:   optional(event.BlockHash),
		Status:      types.TxStatusSuccess,
	}
	if err := s.db.SaveTransaction(ctx, tx); err != nil {
		if db.IsDuplicateKeyError(err) {
			log.Ctx(ctx).Debug().
				Str("deploy_hash", event.DeployHash).
				Msg("Deploy already indexed, skipping")
			return nil
		}
		return err
	}

	log.Ctx(ctx).Info().
		Str("from_pool", event.FromPool).
		Str("to_pool", event.ToPool).
		Str("amount", amount).
		Msg("Pool rebalanced")

	return s.RecomputeStats(ctx)
}

// normalizeMotes validates a decimal mote amount coming off the wire.
// Malformed or negative values fold to "0" so a single bad transform cannot
// poison the ledger arithmetic.
func normalizeMotes(raw string) string {
	value, ok := sdkmath.NewIntFromString(raw)
	if !ok || value.IsNegative() {
		return "0"
	}
	return value.String()
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
