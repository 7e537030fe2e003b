package caresetting

import "go.uber.org/fx"

// Module exposes the care setting service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Manager { return s }),
	fx.Provide(func(s *Service) Finder { return s }),
)
