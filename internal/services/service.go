package services

import (
	"context"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/classifier"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/clients/casperclient"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/model"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/types"
)

// Service ties the stream, classifier and ledger together: it is the only
// writer of transactions and positions, and the only publisher of pool stats.
type Service struct {
	cfg        *config.Config
	db         db.DbInterface
	stream     casperclient.StreamInterface
	classifier classifier.Classifier
}

func NewService(
	cfg *config.Config,
	db db.DbInterface,
	stream casperclient.StreamInterface,
	classifier classifier.Classifier,
) *Service {
	return &Service{
		cfg:        cfg,
		db:         db,
		stream:     stream,
		classifier: classifier,
	}
}

// StartIngestion subscribes to the deploy stream and feeds every
// notification through the classify/apply pipeline.
func (s *Service) StartIngestion(ctx context.Context) error {
	return s.stream.Start(ctx, func(notification *types.DeployNotification) {
		s.processNotification(ctx, notification)
	})
}

// StopIngestion tears down the stream subscription. An apply already in
// progress runs to completion independently.
func (s *Service) StopIngestion() error {
	return s.stream.Stop()
}

// GetPosition returns the user's folded position, or the zero-valued default
// when the user has never deposited.
func (s *Service) GetPosition(ctx context.Context, userAddress string) (*model.UserPosition, error) {
	pos, err := s.db.GetUserPosition(ctx, userAddress)
	if err != nil {
		if db.IsNotFoundError(err) {
			return model.ZeroPosition(userAddress), nil
		}
		return nil, err
	}
	return pos, nil
}

// GetUserTransactions returns the user's transaction history, newest first.
func (s *Service) GetUserTransactions(ctx context.Context, userAddress string, limit int) ([]model.Transaction, error) {
	return s.db.GetUserTransactions(ctx, userAddress, limit)
}

// GetRecentTransactions returns the latest transactions across all users.
func (s *Service) GetRecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	return s.db.GetRecentTransactions(ctx, limit)
}
