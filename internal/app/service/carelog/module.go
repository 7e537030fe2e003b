package carelog

import "go.uber.org/fx"

// Module exposes the care log service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Manager { return s }),
)
