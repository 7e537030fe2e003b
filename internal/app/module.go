package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/pawcare/backend/internal/app/api/server"
	"github.com/pawcare/backend/internal/app/service/carelog"
	"github.com/pawcare/backend/internal/app/service/caresetting"
	"github.com/pawcare/backend/internal/app/service/checkout"
	"github.com/pawcare/backend/internal/app/service/dogmessage"
	"github.com/pawcare/backend/internal/app/service/reflection"
	"github.com/pawcare/backend/internal/app/service/user"
	"github.com/pawcare/backend/internal/app/service/webhook"
	"github.com/pawcare/backend/internal/platform/cache"
	"github.com/pawcare/backend/internal/platform/db"
	"github.com/pawcare/backend/internal/platform/firebase"
	"github.com/pawcare/backend/internal/platform/llm"
	"github.com/pawcare/backend/pkg/config"
	"github.com/pawcare/backend/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	cache.Module,
	firebase.Module,
	llm.Module,
	webhook.Module,
	user.Module,
	checkout.Module,
	caresetting.Module,
	carelog.Module,
	reflection.Module,
	dogmessage.Module,
	server.Module,
)
