package main

import (
	"context"
	"flag"
	"net"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"

	"github.com/ethpandaops/slotscope/handlers"
	"github.com/ethpandaops/slotscope/metrics"
	"github.com/ethpandaops/slotscope/services"
	"github.com/ethpandaops/slotscope/static"
	"github.com/ethpandaops/slotscope/templates"
	"github.com/ethpandaops/slotscope/types"
	"github.com/ethpandaops/slotscope/utils"
)

func main() {
	configPath := flag.String("config", "", "Path to the config file, if empty string defaults will be used")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &types.Config{}
	err := utils.ReadConfig(cfg, *configPath)
	if err != nil {
		logrus.Fatalf("error reading config file: %v", err)
	}
	utils.Config = cfg
	logWriter, logger := utils.InitLogger()
	defer logWriter.Dispose()

	logger.WithFields(logrus.Fields{
		"config":  *configPath,
		"version": utils.BuildVersion,
		"release": utils.BuildRelease,
	}).Printf("starting")

	err = services.StartBeaconService()
	if err != nil {
		utils.LogFatal(err, "error starting beacon service", 0)
	}

	err = services.StartExecutionService(ctx)
	if err != nil {
		utils.LogFatal(err, "error starting execution service", 0)
	}

	services.StartConnectionStatus(ctx, 30*time.Second)
	services.GlobalValidatorNames.LoadValidatorNames(ctx)

	if cfg.Metrics.Enabled && !cfg.Metrics.Public {
		err = metrics.StartMetricsServer(logger.WithField("module", "metrics"), cfg.Metrics.Host, cfg.Metrics.Port)
		if err != nil {
			logger.Fatalf("error starting metrics server: %v", err)
		}
	}

	if cfg.RateLimit.Enabled {
		err = services.StartCallRateLimiter(cfg.RateLimit.ProxyCount, cfg.RateLimit.Rate, cfg.RateLimit.Burst)
		if err != nil {
			logger.Fatalf("error starting call rate limiter: %v", err)
		}
	}

	var webserver *http.Server
	if cfg.Frontend.Enabled {
		err = services.StartFrontendCache()
		if err != nil {
			utils.LogFatal(err, "error starting frontend cache service", 0)
		}

		if err := templates.CompileTimeCheck(templates.Files); err != nil {
			logger.Fatalf("error parsing templates: %v", err)
		}

		webserver, err = startWebserver(logger)
		if err != nil {
			utils.LogFatal(err, "error starting webserver", 0)
		}
	}

	utils.WaitForCtrlC()
	logger.Println("exiting...")

	if webserver != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := webserver.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("error shutting down webserver")
		}
	}
}

func startWebserver(logger logrus.FieldLogger) (*http.Server, error) {
	router := handlers.NewRouter()

	if utils.Config.Frontend.Pprof {
		// add pprof handler
		router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
		router.Handle("/debug/metrics", metrics.GetMetricsHandler())
	}

	if utils.Config.Metrics.Enabled && utils.Config.Metrics.Public {
		router.Handle("/metrics", metrics.GetMetricsHandler())
	}

	if utils.Config.Frontend.Debug {
		// serve files from local directory when debugging, instead of from go embed file
		cssHandler := http.FileServer(http.Dir("static/css"))
		router.PathPrefix("/css").Handler(http.StripPrefix("/css/", cssHandler))

		jsHandler := http.FileServer(http.Dir("static/js"))
		router.PathPrefix("/js").Handler(http.StripPrefix("/js/", jsHandler))
	}

	// serve static files from go embed, everything else is not found
	fileSys := http.FS(static.Files)
	handlers.HandleNotFound(router, handlers.CustomFileServer(http.FileServer(fileSys), fileSys, handlers.NotFound))

	n := newMiddlewareChain(router, services.GlobalCallRateLimiter)

	if utils.Config.Frontend.HttpWriteTimeout == 0 {
		utils.Config.Frontend.HttpWriteTimeout = time.Second * 15
	}
	if utils.Config.Frontend.HttpReadTimeout == 0 {
		utils.Config.Frontend.HttpReadTimeout = time.Second * 15
	}
	if utils.Config.Frontend.HttpIdleTimeout == 0 {
		utils.Config.Frontend.HttpIdleTimeout = time.Second * 60
	}
	srv := &http.Server{
		Addr:              net.JoinHostPort(utils.Config.Server.Host, utils.Config.Server.Port),
		WriteTimeout:      utils.Config.Frontend.HttpWriteTimeout,
		ReadTimeout:       utils.Config.Frontend.HttpReadTimeout,
		IdleTimeout:       utils.Config.Frontend.HttpIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		Handler:           n,
	}

	listener, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, err
	}

	logger.Printf("http server listening on %v", srv.Addr)
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Error serving frontend")
		}
	}()

	return srv, nil
}

// newMiddlewareChain wraps the router with panic recovery and the optional call rate limiter
func newMiddlewareChain(router http.Handler, rateLimiter *services.CallRateLimiter) *negroni.Negroni {
	n := negroni.New()
	n.Use(negroni.NewRecovery())
	if rateLimiter != nil {
		n.Use(rateLimiter)
	}
	n.UseHandler(router)
	return n
}
