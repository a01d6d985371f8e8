package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"hooparchives_server/access"
	"hooparchives_server/config"
	"hooparchives_server/logging"
	"hooparchives_server/queue"
	"hooparchives_server/routes"
	"hooparchives_server/services"
	"hooparchives_server/worker"
)

func main() {
	config.LoadEnv()
	log := logging.NewWithService("hooparchives")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Leaf clients first: object store, metadata store, queue. Everything
	// downstream gets explicit references, no ambient globals.
	dynamoClient, s3Client, err := services.NewAWSClients(ctx, cfg.AWSRegion)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize AWS clients")
	}
	dynamo := &services.DynamoService{Client: dynamoClient}

	policy := access.DefaultPolicy()

	trimQueue, err := queue.Open(cfg.QueueDataDir, queue.Config{
		VisibilityTimeout:   cfg.VisibilityTimeout,
		RetentionPeriod:     cfg.RetentionPeriod,
		MaxDeliveryAttempts: cfg.MaxDeliveryAttempts,
	}, policy, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open trim queue")
	}
	defer trimQueue.Close()

	// Worker-side stores carry the clip-worker identity; the policy layer
	// keeps them inside their grants.
	workerObjects := services.NewS3Service(s3Client, cfg.UploadsBucket, policy, access.PrincipalClipWorker)
	workerGames := &services.GameService{Dynamo: dynamo, Table: cfg.GamesTable, Policy: policy, Principal: access.PrincipalClipWorker}
	workerClips := &services.ClipService{Dynamo: dynamo, Table: cfg.ClipsTable, Policy: policy, Principal: access.PrincipalClipWorker}

	clipWorker := &worker.Worker{
		Objects:        workerObjects,
		Clips:          workerClips,
		Games:          workerGames,
		Transform:      &worker.FFmpeg{Bin: cfg.FFmpegPath, Log: log},
		ScratchDir:     cfg.ScratchDir,
		ScratchCeiling: cfg.ScratchCeiling,
		Log:            log,
	}
	consumer := &worker.Consumer{
		Queue:        trimQueue,
		Worker:       clipWorker,
		Concurrency:  cfg.Concurrency,
		PollInterval: cfg.PollInterval,
		JobTimeout:   cfg.JobTimeout,
		Log:          log,
	}

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		consumer.Run(ctx)
	}()
	log.WithField("concurrency", cfg.Concurrency).Info("trim consumer started")

	// Reporting and record write paths run as the operator identity, the
	// producer surface as the producer identity.
	operatorGames := &services.GameService{Dynamo: dynamo, Table: cfg.GamesTable, Policy: policy, Principal: access.PrincipalOperator}
	operatorClips := &services.ClipService{Dynamo: dynamo, Table: cfg.ClipsTable, Policy: policy, Principal: access.PrincipalOperator}
	operatorPlayers := &services.PlayerService{Dynamo: dynamo, Table: cfg.PlayersTable, Policy: policy, Principal: access.PrincipalOperator}
	operatorDrafts := &services.DraftService{Dynamo: dynamo, Table: cfg.DraftsTable, Policy: policy, Principal: access.PrincipalOperator}
	operatorStats := &services.StatService{Dynamo: dynamo, Table: cfg.StatsTable, Policy: policy, Principal: access.PrincipalOperator}
	producerUploads := services.NewS3Service(s3Client, cfg.UploadsBucket, policy, access.PrincipalProducer)
	operatorUploads := services.NewS3Service(s3Client, cfg.UploadsBucket, policy, access.PrincipalOperator)

	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods("GET")

	routes.RegisterTrimRoutes(r, trimQueue, log)
	routes.RegisterDLQRoutes(r, trimQueue, log)
	routes.RegisterUploadRoutes(r, producerUploads, operatorUploads, log)
	routes.RegisterClipRoutes(r, operatorClips, log)
	routes.RegisterGameRoutes(r, operatorGames, log)
	routes.RegisterPlayerRoutes(r, operatorPlayers, log)
	routes.RegisterDraftRoutes(r, operatorDrafts, log)
	routes.RegisterStatRoutes(r, operatorStats, log)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: corsHandler,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown failed")
	}
	<-consumerDone
}
