package service

import (
	"github.com/okian/wrestlegm/internal/game"
	"github.com/okian/wrestlegm/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSeed sets the seed every new game starts from.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithGameOptions forwards options to every game.State the service creates.
func WithGameOptions(opts ...game.Option) Option {
	return func(s *Service) {
		s.gameOpts = append(s.gameOpts, opts...)
	}
}
