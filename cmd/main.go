// @title                       Reclaim boost control API
// @version                     1.0
// @description                 Telemetry, boost control and history for a Reclaim heat-pump water heater.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	_ "reclaim_control/docs"
	"reclaim_control/internal/config"
	"reclaim_control/internal/gateway"
	mqttgw "reclaim_control/internal/gateway/mqtt"
	"reclaim_control/internal/gateway/simulator"
	"reclaim_control/internal/handlers"
	"reclaim_control/internal/logger"
	"reclaim_control/internal/repository"
	"reclaim_control/internal/repository/db"
	"reclaim_control/internal/server"
	"reclaim_control/internal/service"
	"reclaim_control/internal/telemetry"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load("configs", ".")
	if err != nil {
		logger.New(logger.InfoLevel, logger.ConsoleEncoding).Fatalw("config_load_failed", "err", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatalw("reclaim_exited", "err", err)
	}
	log.Infow("reclaim_stopped")
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	repos, closeDB, err := openRepository(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	defer closeDB()

	g, gctx := errgroup.WithContext(ctx)

	gw, err := newGateway(gctx, g, cfg.Device, log)
	if err != nil {
		return err
	}
	listener := telemetry.NewListener()
	if err := gw.Connect(ctx, listener); err != nil {
		return fmt.Errorf("connect device: %w", err)
	}
	defer gw.Disconnect()

	state := telemetry.NewSynchronizer(gw, listener, cfg.Device.RefreshTimeout, log)

	signingKey := cfg.Auth.SigningKey
	if signingKey == "" {
		// Tokens from this key do not survive a restart.
		signingKey = uuid.NewString()
		log.Warnw("auth_ephemeral_signing_key")
	}
	services := service.NewService(repos, state, gw, service.Options{
		MaxWaterTempC: cfg.Boost.MaxWaterTempC,
		SigningKey:    signingKey,
		TokenTTL:      cfg.Auth.TokenTTL,
	}, log)

	if cfg.Recorder.AutostartInterval > 0 {
		if err := services.Recorder.Start(cfg.Recorder.AutostartInterval); err != nil {
			return fmt.Errorf("start recorder: %w", err)
		}
	}
	defer func() {
		if err := services.Recorder.Stop(); err != nil && !errors.Is(err, service.ErrRecorderStopped) {
			log.Warnw("recorder_stop_failed", "err", err)
		}
	}()

	retention, err := service.NewRetentionJob(services.History, cfg.History.Retention, cfg.History.CleanupCron, log)
	if err != nil {
		return err
	}
	retention.Start()
	defer retention.Stop()

	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	})
	api := handlers.NewHandler(services, log, cfg.Auth.Enabled)

	g.Go(func() error {
		log.Infow("http_listening", "port", cfg.Port, "device_driver", cfg.Device.Driver, "db_driver", cfg.DB.Driver)
		return srv.Run(cfg.Port, api.InitRoutes())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openRepository opens the configured store and returns a matching close func.
func openRepository(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*repository.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := db.InitPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("init postgres: %w", err)
		}
		log.Infow("db_opened", "driver", cfg.Driver)
		return repository.NewPostgresRepository(pool), pool.Close, nil
	default:
		sqlDB, err := db.InitDB(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite: %w", err)
		}
		log.Infow("db_opened", "driver", cfg.Driver, "path", cfg.Path)
		return repository.NewRepository(sqlDB), func() {
			if err := sqlDB.Close(); err != nil {
				log.Errorw("db_close_failed", "err", err)
			}
		}, nil
	}
}

// newGateway builds the device connection. The simulator's physics loop joins g.
func newGateway(ctx context.Context, g *errgroup.Group, cfg config.DeviceConfig, log *logger.Logger) (gateway.Gateway, error) {
	switch cfg.Driver {
	case config.GatewayMQTT:
		return mqttgw.New(mqttgw.Config{
			BrokerURL:      cfg.MQTT.Broker,
			ClientID:       cfg.MQTT.ClientID,
			DeviceID:       cfg.ID,
			BaseTopic:      cfg.MQTT.BaseTopic,
			QoS:            byte(cfg.MQTT.QoS),
			EchoRequestID:  cfg.MQTT.EchoRequestID,
			Username:       cfg.MQTT.Username,
			Password:       cfg.MQTT.Password,
			CAFile:         cfg.MQTT.CAFile,
			CertFile:       cfg.MQTT.CertFile,
			KeyFile:        cfg.MQTT.KeyFile,
			PublishTimeout: cfg.RefreshTimeout,
		}, log)
	default:
		dev := simulator.New(simulator.Config{
			InitialWaterC: cfg.Simulator.InitialWaterC,
			EchoRequestID: cfg.Simulator.EchoRequestID,
			Latency:       cfg.Simulator.Latency,
		}, log)
		tick := cfg.Simulator.Tick
		if tick <= 0 {
			tick = time.Second
		}
		g.Go(func() error {
			dev.Run(ctx, tick)
			return nil
		})
		return dev, nil
	}
}
