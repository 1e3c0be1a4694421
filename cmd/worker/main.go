package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/utkarsh-1912/TradeLab/config"
	postgres_wrapper "github.com/utkarsh-1912/TradeLab/pkg/infra/postgres"
	"github.com/utkarsh-1912/TradeLab/pkg/stream"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/repo"
	"github.com/utkarsh-1912/TradeLab/pkg/workflow/worker"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	db := postgres_wrapper.InitPostgresWithBackoff(cfg.WorkflowDB)
	sqlRepo := repo.NewRepo(db)

	cg := stream.NewConsumerGroup(stream.ConsumerConfig{
		Brokers:    cfg.Kafka.Brokers,
		GroupID:    cfg.Kafka.GroupID,
		Topic:      cfg.Kafka.EventTopic,
		MaxRetries: 5,
	})
	defer cg.Close()

	w := worker.NewWorker(sqlRepo)
	if err := w.Run(ctx, cg); err != nil {
		zap.S().Errorf("worker stopped with err: %v", err)
		os.Exit(1)
	}
}
