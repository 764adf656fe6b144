package oracle

import (
	"context"

	"iot-ledger-backend/internal/logger"
)

// Fulfiller receives the oracle verdict for a dispatched request. Implemented
// by the oracle usecase; the worker's account is the capability under which
// the fulfillment runs.
type Fulfiller interface {
	FulfillVerification(caller, requestID string, isValid bool) error
}

// Worker drains the dispatch queue and bridges external verification results
// back into the ledger. A job that fails stays unresolved; the admin timeout
// override is the only recovery path for a dead endpoint.
type Worker struct {
	jobs      chan Job
	client    *Client
	fulfiller Fulfiller
	account   string // address holding the oracle role
}

func NewWorker(client *Client, fulfiller Fulfiller, account string, buffer int) *Worker {
	return &Worker{
		jobs:      make(chan Job, buffer),
		client:    client,
		fulfiller: fulfiller,
		account:   account,
	}
}

// Enqueue hands a job to the worker. Returns false when the queue is full;
// the request stays pending and can still be resolved by the admin override.
func (w *Worker) Enqueue(job Job) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		logger.Warnf("oracle queue full, dropping dispatch for request %s", job.RequestID)
		return false
	}
}

func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-w.jobs:
			isValid, err := w.client.Verify(ctx, job)
			if err != nil {
				logger.Warnf("verification call for request %s failed: %v", job.RequestID, err)
				continue
			}
			if err := w.fulfiller.FulfillVerification(w.account, job.RequestID, isValid); err != nil {
				logger.Errorf("fulfillment for request %s rejected: %v", job.RequestID, err)
				continue
			}
			logger.Infof("request %s fulfilled, valid=%v", job.RequestID, isValid)
		}
	}
}
