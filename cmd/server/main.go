// Command server runs the CivicLedger API: request lifecycle, share
// sessions, document processing, and the demo OTP login flow behind one
// HTTP listener.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"civicledger/internal/audit"
	"civicledger/internal/document"
	dochandler "civicledger/internal/document/handler"
	docstore "civicledger/internal/document/store"
	"civicledger/internal/issuer"
	issuerhandler "civicledger/internal/issuer/handler"
	issuerservice "civicledger/internal/issuer/service"
	issuerstore "civicledger/internal/issuer/store"
	"civicledger/internal/jwttoken"
	"civicledger/internal/ledger"
	"civicledger/internal/otp"
	otphandler "civicledger/internal/otp/handler"
	otpstore "civicledger/internal/otp/store"
	"civicledger/internal/platform/config"
	"civicledger/internal/platform/httpserver"
	"civicledger/internal/platform/logger"
	"civicledger/internal/platform/metrics"
	redisplatform "civicledger/internal/platform/redis"
	"civicledger/internal/request"
	requesthandler "civicledger/internal/request/handler"
	requestservice "civicledger/internal/request/service"
	requeststore "civicledger/internal/request/store"
	"civicledger/internal/share"
	sharehandler "civicledger/internal/share/handler"
	shareservice "civicledger/internal/share/service"
	sharestore "civicledger/internal/share/store"
	httptransport "civicledger/internal/transport/http"
	"civicledger/internal/userregistry"
	userstore "civicledger/internal/userregistry/store"
	"civicledger/internal/verify"
	verifyhandler "civicledger/internal/verify/handler"
)

const auditBuffer = 256

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info("redis connected", "url", cfg.Redis.URL)
	}

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err == nil {
			err = db.PingContext(ctx)
		}
		if err != nil {
			log.Error("postgres connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()
		log.Info("postgres connected")
	}

	// Stores degrade gracefully: Postgres and Redis when configured,
	// in-memory otherwise so the demo runs with zero infrastructure.
	var requestStore request.Store = requeststore.NewMemoryStore()
	var issuerStore issuer.Store = issuerstore.NewMemoryStore()
	if db != nil {
		if err := requeststore.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err.Error())
			os.Exit(1)
		}
		if err := issuerstore.EnsureSchema(ctx, db); err != nil {
			log.Error("schema migration failed", "error", err.Error())
			os.Exit(1)
		}
		requestStore = requeststore.NewPostgresStore(db)
		issuerStore = issuerstore.NewPostgresStore(db)
	}
	var shareStore share.Store = sharestore.NewMemoryStore()
	var otpStore otp.Store = otpstore.NewMemoryStore()
	if redisClient != nil {
		shareStore = sharestore.NewRedisStore(redisClient.Client)
		otpStore = otpstore.NewRedisStore(redisClient.Client)
	}

	var auditStore audit.Store = audit.NewMemoryStore()
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka connection failed", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("kafka audit sink connected", "topic", cfg.Kafka.Topic)
	}
	auditPub := audit.NewPublisher(auditBuffer, log)
	auditWorker := audit.NewWorker(auditStore, auditPub.Inbox(), log)

	chain := ledger.NewMemoryLedger()

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, "civicledger", "civicledger")
	jwtValidator := jwttoken.NewJWTServiceAdapter(jwtService)

	users := userregistry.NewService(userstore.NewMemoryStore(), userregistry.NewKeyBox(cfg.EncryptionSecret), chain, log)
	issuers := issuerservice.New(issuerStore, chain)
	requests := requestservice.New(requestStore, issuerStore, auditPub, log, m)
	records := docstore.NewMemoryRecordStore()
	shares := shareservice.New(shareStore, records, auditPub, log, m)
	verifier := verify.New(shares, chain, auditPub, log, m)
	pipeline := document.NewPipeline(records, chain, log, m)
	otpService := otp.NewService(otpStore, otp.LogSender{Logger: log}, users, jwtService, auditPub, log)

	router := httptransport.NewRouter(httptransport.Dependencies{
		Logger:  log,
		Metrics: m,
		Handlers: []httptransport.ModuleHandler{
			requesthandler.New(requests, log, jwtValidator),
			sharehandler.New(shares, log, jwtValidator),
			verifyhandler.New(verifier, log),
			dochandler.New(pipeline, users, log, jwtValidator),
			issuerhandler.New(issuers, log),
			otphandler.New(otpService, log),
		},
		Health: func() map[string]string {
			checks := map[string]string{"server": "ok"}
			if redisClient != nil {
				checks["redis"] = "ok"
				if err := redisClient.Health(ctx); err != nil {
					checks["redis"] = err.Error()
				}
			}
			if db != nil {
				checks["postgres"] = "ok"
				if err := db.PingContext(ctx); err != nil {
					checks["postgres"] = err.Error()
				}
			}
			return checks
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return auditWorker.Run(gctx)
	})
	g.Go(func() error {
		log.Info("starting civicledger", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
