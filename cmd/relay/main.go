package main

import (
	"context"
	"encoding/json"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/utkarsh-1912/TradeLab/config"
	"github.com/utkarsh-1912/TradeLab/pkg/infra"
	postgres_wrapper "github.com/utkarsh-1912/TradeLab/pkg/infra/postgres"
	redis_wrapper "github.com/utkarsh-1912/TradeLab/pkg/infra/redis"
	"github.com/utkarsh-1912/TradeLab/pkg/relay"
	"github.com/utkarsh-1912/TradeLab/pkg/stream"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/repo"
)

func main() {
	var configFile string
	var migrateOnStart bool
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.BoolVar(&migrateOnStart, "migrate", false, "Run schema migrations before serving")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	configBytes, err := json.MarshalIndent(cfg, "", "   ")
	if err != nil {
		zap.S().Warnf("could not convert config to JSON: %v", err)
	} else {
		zap.S().Debugf("load config %s", string(configBytes))
	}

	go func() {
		http.ListenAndServe("localhost:6060", nil)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	if migrateOnStart {
		infra.GetMigrateTool().Migrate("file://migration/sql", cfg.WorkflowDB.MigrationConnURL)
	}

	wf := workflow.NewWorkflow(&workflow.Config{EventTopic: cfg.Kafka.EventTopic})

	db := postgres_wrapper.InitPostgresWithBackoff(cfg.WorkflowDB)
	wf.AddRepo(repo.NewRepo(db))

	if cfg.Redis != nil {
		cache, err := redis_wrapper.InitRedis(cfg.Redis)
		if err != nil {
			zap.S().Errorf("init redis fail with err: %v", err)
			panic(err)
		}
		wf.AddCache(cache)
	}

	producer := stream.NewProducer(stream.ProducerConfig{Brokers: cfg.Kafka.Brokers})
	wf.AddPublisher(producer)

	srv := relay.NewServer(*cfg.Relay)
	wf.AddGateway(srv)

	go func() {
		if err := srv.Start(); err != nil {
			zap.S().Errorf("relay server stopped: %v", err)
			sigs <- syscall.SIGTERM
		}
	}()

	api := newAPI(wf)
	go func() {
		if err := api.serve(":8091"); err != nil {
			zap.S().Errorf("api server stopped: %v", err)
		}
	}()

	<-sigs
	zap.S().Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
	_ = producer.Close(shutdownCtx)

	zap.S().Info("exited cleanly")
}
