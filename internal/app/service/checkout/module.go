package checkout

import "go.uber.org/fx"

// Module exposes the checkout service via Fx.
var Module = fx.Options(
	fx.Provide(NewSessionCreator),
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Creator { return s }),
)
