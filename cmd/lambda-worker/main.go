package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"storefront-backend/internal/recommend"
	"storefront-backend/internal/shared/config"
	"storefront-backend/internal/shared/metrics"
	"storefront-backend/internal/shared/storage/db"
	"storefront-backend/internal/shared/telemetry"
	"storefront-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	sink     recommend.Recorder
)

func initSink() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		initErr = errors.New("DATABASE_URL is required")
		return
	}
	sqlDB, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		initErr = err
		return
	}
	sink = &recommend.PGRecorder{DB: sqlDB}
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initSink)
	if initErr != nil {
		log.Printf("worker init error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return processBatch(ctx, sink, event), nil
}

// processBatch stores each record's event. Only sink failures are reported
// back for redelivery; malformed records are dropped.
func processBatch(ctx context.Context, sink recommend.Recorder, event events.SQSEvent) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		metrics.IncEventJobsReceived()
		err := workerproc.HandleMessage(ctx, sink, record.Body)
		if err == nil {
			metrics.IncEventJobsCompleted()
			continue
		}

		fields := map[string]any{
			"sqs_message_id": record.MessageId,
			"error":          err.Error(),
		}
		var procErr workerproc.ErrProcess
		if errors.As(err, &procErr) {
			fields["event_id"] = procErr.EventID
			telemetry.Error("worker.event.failed", fields)
			metrics.IncEventJobsFailed()
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
			continue
		}
		telemetry.Error("worker.event.decode_failed", fields)
		metrics.IncEventJobsDeletedUnrecoverable()
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
