package main

import (
	"context"
	"errors"

	"github.com/fsdevblog/shortkeep/internal/app"
	"github.com/fsdevblog/shortkeep/internal/config"
)

func main() {
	appConf := config.MustLoadConfig()

	a := app.Must(app.New(*appConf))

	a.Logger.WithField("address", appConf.ServerAddress).Info("Starting server")
	if err := a.Run(); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
