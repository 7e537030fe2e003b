package user

import "go.uber.org/fx"

// Module exposes the user service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Manager { return s }),
)
