// internal/workers/entry-reminder/handler.go
package entryreminder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xeipuuv/gojsonschema"

	errs "finance-notifier/internal/common/errors"
	"finance-notifier/internal/common/logger"
	"finance-notifier/internal/queue"
	notifsvc "finance-notifier/internal/service/notification"
)

// Sender is the delivery use case the handler resolves when a job fires.
type Sender interface {
	Send(ctx context.Context, notificationID, entryID, userID uuid.UUID) (notifsvc.SendResult, error)
}

// Handler is the job-runner-side entry point for reminder jobs. It validates
// the payload contract, invokes the delivery use case, and surfaces failures
// so the runner's retry policy can act on them.
type Handler struct {
	sender  Sender
	log     logger.Logger
	timeout time.Duration
}

func NewHandler(sender Sender, log logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		sender:  sender,
		log:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
		timeout: timeout,
	}
}

// Handle processes one firing. The returned error's retryability decides
// whether the runner backs off and retries or drops the job.
func (h *Handler) Handle(ctx context.Context, job queue.Job) error {
	h.log.Info("processing job", map[string]interface{}{
		"jobId":   job.ID,
		"attempt": job.Attempt,
	})

	payload, err := parsePayload(job.Payload)
	if err != nil {
		h.log.WithError(err).Error("rejecting corrupt job", map[string]interface{}{"jobId": job.ID})
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result, err := h.sender.Send(ctx, payload.NotificationID, payload.EntryID, payload.UserID)
	if err != nil {
		code := errs.CodeOf(err)
		if errs.IsRetryable(err) {
			h.log.WithError(err).Warn("delivery failed, eligible for retry", map[string]interface{}{
				"jobId":          job.ID,
				"notificationId": payload.NotificationID.String(),
				"errorCode":      string(code),
			})
		} else {
			h.log.WithError(err).Error("delivery failed permanently", map[string]interface{}{
				"jobId":          job.ID,
				"notificationId": payload.NotificationID.String(),
				"errorCode":      string(code),
			})
		}
		return err
	}

	if !result.Sent {
		h.log.Info("reminder skipped", map[string]interface{}{
			"jobId":          job.ID,
			"notificationId": payload.NotificationID.String(),
		})
		return nil
	}

	h.log.Info("reminder delivered", map[string]interface{}{
		"jobId":          job.ID,
		"notificationId": payload.NotificationID.String(),
		"messageId":      result.MessageID,
	})
	return nil
}

// parsePayload validates the raw payload against the wire contract before
// unmarshalling it.
func parsePayload(raw []byte) (*queue.Payload, error) {
	schemaLoader := gojsonschema.NewStringLoader(payloadSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, errs.NewJobPayloadInvalidError(err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, errs.NewJobPayloadInvalidError(strings.Join(details, "; "))
	}

	var payload queue.Payload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errs.NewJobPayloadInvalidError(fmt.Sprintf("unmarshal: %v", err))
	}
	return &payload, nil
}
