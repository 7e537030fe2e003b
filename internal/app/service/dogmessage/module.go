package dogmessage

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Generator { return s }),
)
