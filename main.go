package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/floresvictoria/shopbackend/lib/myauth"
	"github.com/floresvictoria/shopbackend/lib/myconfig"
	"github.com/floresvictoria/shopbackend/lib/myhttp"
	"github.com/floresvictoria/shopbackend/lib/mylog"
	"github.com/floresvictoria/shopbackend/lib/mypublisher"
	"github.com/floresvictoria/shopbackend/lib/mypubsub"
	"github.com/floresvictoria/shopbackend/lib/mystore"
	"github.com/floresvictoria/shopbackend/lib/mytime"
	"github.com/floresvictoria/shopbackend/lib/myuuid"
	"github.com/floresvictoria/shopbackend/services/basket"
	"github.com/floresvictoria/shopbackend/services/health"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "optional config file")
	flag.Parse()

	err := run(*configFile)
	if err != nil {
		log.Fatalf("Error running basket service: %s", err)
	}
}

// run returns instead of exiting so that deferred cleanups always happen.
func run(configFile string) error {
	cfg, err := myconfig.Load(configFile)
	if err != nil {
		return fmt.Errorf("error loading configuration: %s", err)
	}

	err = mylog.SetLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("error setting log level %s: %s", cfg.LogLevel, err)
	}

	c, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := mylog.New("main")
	nower := mytime.RealNower{}
	uuider := myuuid.RealUUIDer{}

	store, storeCleanup, err := mystore.New(c, cfg, nower)
	if err != nil {
		return fmt.Errorf("error creating store: %s", err)
	}
	defer storeCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return fmt.Errorf("error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	router := mux.NewRouter()
	router.Use(myhttp.RequestLogger(mylog.New("http"), uuider))

	health.NewService(store).RegisterEndpoints(c, router)

	basketService := basket.NewService(store, cfg.Store.TTL, myauth.NewVerifier(cfg.JWTSecret), mypublisher.New(pubsub, nower, uuider), nower)
	err = basketService.RegisterEndpoints(c, router)
	if err != nil {
		return fmt.Errorf("error registering basket endpoints: %s", err)
	}

	return serve(c, cfg, router, logger)
}

func serve(c context.Context, cfg myconfig.Config, router *mux.Router, logger mylog.Logger) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	g, groupCtx := errgroup.WithContext(c)

	g.Go(func() error {
		logger.Log(c, "", mylog.SeverityInfo, "Starting webserver on port %s (try http://localhost:%s/health)", cfg.Port, cfg.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting webserver on port %s: %s", cfg.Port, err)
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()

		logger.Log(c, "", mylog.SeverityInfo, "Shutting down webserver")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
