package main

import (
	"context"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase"
	"github.com/relaxedbase/relaxedbase/api/restapi"
	"github.com/relaxedbase/relaxedbase/cmd/relaxedbase/config"
	"github.com/relaxedbase/relaxedbase/internal/logger"
	"github.com/relaxedbase/relaxedbase/internal/version"
)

func main() {
	var configFile string
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}
	config.Load(configFile)
	logger.Init()
	log.WithField("version", version.VERSION).Info("Loaded Config")
	c := config.Get()

	responseCache, err := config.NewCache(context.Background(), c)
	if err != nil {
		log.WithError(err).Fatal("could not init response cache")
	}

	warehouse, backs, err := config.LoadStorageBackends(c)
	if err != nil {
		log.Fatal(err)
	}
	defer warehouse.Close()

	server, err := relaxedbase.NewServer(
		c.Server, backs, relaxedbase.ServerOptions{
			API: &restapi.Options{
				AppName:      c.API.AppName,
				UsersEnabled: c.API.UsersEnabled,
				Tokens: restapi.NewTokenIssuer(
					c.Security.Secret(),
					c.Security.TokenValidity.Duration(),
					c.Security.TokenValidityForRememberMe.Duration(),
				),
				Cache:    responseCache,
				CacheTTL: c.Caching.MaxLifetime.Duration(),
			},
			AccessLog: logger.AccessLogger(),
		},
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Info("Added Endpoints")

	server.Start()
}
