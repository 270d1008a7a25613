package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"maturity_backend/internal/assessment"
	"maturity_backend/internal/email"
	"maturity_backend/internal/metrics"
	"maturity_backend/internal/report"
	"maturity_backend/internal/storage"
	"maturity_backend/platform/apperr"
	"maturity_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const reportFileName = "diagnostico-maturidade-vendas.pdf"

// ReportSource loads a stored lead and its scored result.
type ReportSource interface {
	Report(ctx context.Context, id uuid.UUID) (report.Lead, assessment.Result, error)
}

// ReportDeliverer renders the stored result of a lead, archives the PDF and
// emails it. It implements asynq.Handler for TaskReportDelivery.
type ReportDeliverer struct {
	source     ReportSource
	renderer   *report.Renderer
	archive    storage.ReportArchive // optional
	sender     email.Sender
	deliveries DeliveryStore // optional
	log        *logger.Logger
}

// DeliveryDeps groups the collaborators of a ReportDeliverer.
type DeliveryDeps struct {
	Source     ReportSource
	Renderer   *report.Renderer
	Archive    storage.ReportArchive
	Sender     email.Sender
	Deliveries DeliveryStore
	Log        *logger.Logger
}

func NewReportDeliverer(d DeliveryDeps) *ReportDeliverer {
	sender := d.Sender
	if sender == nil {
		sender = email.NoopSender{}
	}
	return &ReportDeliverer{
		source:     d.Source,
		renderer:   d.Renderer,
		archive:    d.Archive,
		sender:     sender,
		deliveries: d.Deliveries,
		log:        d.Log,
	}
}

// ProcessTask handles one reports.deliver task. Malformed payloads and
// leads deleted since enqueue are not retried.
func (d *ReportDeliverer) ProcessTask(ctx context.Context, task *asynq.Task) (err error) {
	start := time.Now()
	leadID := ""
	defer func() {
		metrics.ObserveJob(TaskReportDelivery, start, err)
		d.log.JobEvent(TaskReportDelivery, leadID, err)
	}()

	payload, err := ParseReportDeliveryPayload(task)
	if err != nil {
		return fmt.Errorf("parse payload: %v: %w", err, asynq.SkipRetry)
	}
	leadID = payload.LeadID
	id, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return fmt.Errorf("parse lead id: %v: %w", err, asynq.SkipRetry)
	}

	return d.Deliver(ctx, id)
}

// Deliver runs the delivery for one lead.
func (d *ReportDeliverer) Deliver(ctx context.Context, id uuid.UUID) error {
	lead, result, err := d.source.Report(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return fmt.Errorf("lead %s: %w", id, asynq.SkipRetry)
		}
		return fmt.Errorf("load lead %s: %w", id, err)
	}

	view := d.renderer.View(result, &lead)
	pdf, err := d.renderer.PDF(ctx, view)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	key := ""
	if d.archive != nil {
		key, err = d.archive.PutReport(ctx, id, pdf)
		if err != nil {
			return fmt.Errorf("archive report: %w", err)
		}
	}

	_, noop := d.sender.(email.NoopSender)
	err = d.sender.SendReportEmail(ctx, lead.Email, email.ReportEmail{
		Name:         lead.Name,
		Company:      lead.Company,
		LevelHeading: view.LevelHeading(),
		OverallScore: strconv.FormatFloat(result.Scores.Overall, 'f', 1, 64),
		ShareURL:     view.ShareURL(),
		BrandName:    view.Settings.BrandName,
	}, email.Attachment{
		Content:  pdf,
		FileName: reportFileName,
		MIMEType: "application/pdf",
	})
	if err != nil {
		return fmt.Errorf("email report: %w", err)
	}

	// The email is out; a retry here would send it again.
	if d.deliveries != nil {
		if err := d.deliveries.MarkDelivered(ctx, id, key, !noop); err != nil {
			d.log.WithContext(ctx).Warn("record report delivery failed", "leadId", id, "error", err)
		}
	}
	return nil
}

var _ asynq.Handler = (*ReportDeliverer)(nil)
