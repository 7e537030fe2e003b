package main

// @title           PawCare Backend API
// @version         1.0
// @description     Users, care records, checkout and payment webhook reconciliation for the PawCare app.

// @host      localhost:8000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"os"
	_ "time/tzdata"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/pawcare/backend/internal/app"
)

func main() {
	exitCode := 0
	defer func() { os.Exit(exitCode) }()

	a := fx.New(app.Module)
	startCtx, cancel := context.WithTimeout(context.Background(), app.DefaultStartTimeout)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		// the app logger may not exist yet
		zap.NewExample().Sugar().Errorf("failed to start app: %v", err)
		exitCode = 1
		return
	}

	<-a.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.DefaultStopTimeout)
	defer stopCancel()
	if err := a.Stop(stopCtx); err != nil {
		zap.S().Errorf("failed to stop app: %v", err)
		exitCode = 1
	}
}
