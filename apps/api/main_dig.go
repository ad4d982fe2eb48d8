package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	dig_container "github.com/trezcool/academia/apps/api/di/dig"
	echoapi "github.com/trezcool/academia/apps/api/echo"
	"github.com/trezcool/academia/core"
)

func startWithDig(conf *core.Config) {
	c := dig_container.New(conf)

	must(c.Invoke(func(
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		dbParam dig_container.DBParam,
		server *echoapi.Server,
	) {
		apiLogger.Info(fmt.Sprintf("Academia %s starting with the %s record store", conf.Build, conf.Database.Storage))
		defer apiLogger.Info("Academia stopped")

		if db := dbParam.DB; db != nil {
			defer func() {
				if err := db.Close(); err != nil {
					dbLoggerParam.Logger.Error(fmt.Sprintf("closing postgres: %v", err), err)
				}
			}()
		}

		startDebugServer(conf, apiLogger)

		go func() {
			apiLogger.Info(fmt.Sprintf("API listening on %s", server.Addr))
			server.Start()
		}()
		serveUntilShutdown(conf, server, apiLogger)
	}))
}

// startDebugServer serves pprof and expvar on the debug host.
func startDebugServer(conf *core.Config, logger core.Logger) {
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Database.Storage)
	expvar.NewString("attendance_locks").Set(lockBackend(conf))

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()
}

func lockBackend(conf *core.Config) string {
	if conf.Redis.Address == "" {
		return "in-process"
	}
	return "redis " + conf.Redis.Address
}

// serveUntilShutdown blocks until the server fails or a shutdown is requested, then drains in-flight requests.
func serveUntilShutdown(conf *core.Config, server *echoapi.Server, logger core.Logger) {
	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: shutting down", sig))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not drain requests: %v", err), err)
			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
