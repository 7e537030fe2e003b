package reflection

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Manager { return s }),
)
