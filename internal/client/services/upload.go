package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/h2non/filetype"

	"github.com/dmitrijs2005/securevision/internal/client/client"
	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/client/notify"
	"github.com/dmitrijs2005/securevision/internal/common"
	"github.com/dmitrijs2005/securevision/internal/logging"
)

// UploadService submits a batch of files one at a time. File N+1 is sent
// only after file N, including any review it triggers, is fully handled.
//
// Every file yields at least one Outcome. Submit returns an error only for
// re-entrant calls (ErrBatchInProgress) or when ctx ends; in the latter case
// the outcomes gathered so far are returned too.
type UploadService interface {
	Submit(ctx context.Context, subs []models.FileSubmission) ([]models.Outcome, error)
	SubmitTo(ctx context.Context, subs []models.FileSubmission, c Collector) ([]models.Outcome, error)
}

type uploadService struct {
	client    client.Client
	reviewer  ReviewService
	notifier  notify.Service
	collector Collector
	log       logging.Logger
	busy      atomic.Bool
}

// NewUploadService wires the orchestrator. collector receives stored
// results unless SubmitTo names another.
func NewUploadService(c client.Client, r ReviewService, n notify.Service, collector Collector, log logging.Logger) UploadService {
	return &uploadService{
		client:    c,
		reviewer:  r,
		notifier:  n,
		collector: collector,
		log:       log.With("component", "upload"),
	}
}

func (s *uploadService) Submit(ctx context.Context, subs []models.FileSubmission) ([]models.Outcome, error) {
	return s.SubmitTo(ctx, subs, s.collector)
}

func (s *uploadService) SubmitTo(ctx context.Context, subs []models.FileSubmission, c Collector) ([]models.Outcome, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBatchInProgress
	}
	defer s.busy.Store(false)

	originals := make(map[string]*Original, len(subs))
	outcomes := make([]models.Outcome, 0, len(subs))

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outs, err := s.submitOne(ctx, sub, originals, c)
		outcomes = append(outcomes, outs...)
		if err != nil {
			return outcomes, err
		}
	}

	return outcomes, nil
}

func (s *uploadService) reject(sub models.FileSubmission, title, text string, err error) models.Outcome {
	s.notifier.Error(title, text)
	return models.Outcome{Filename: sub.Name, Kind: models.OutcomeRejected, Err: err}
}

func (s *uploadService) submitOne(ctx context.Context, sub models.FileSubmission, originals map[string]*Original, c Collector) ([]models.Outcome, error) {
	limit := humanize.IBytes(uint64(common.MaxUploadSize))

	if sub.SizeBytes > common.MaxUploadSize {
		s.log.Info(ctx, "file rejected", "file", sub.Name, "size", sub.SizeBytes)
		return []models.Outcome{s.reject(sub, "File too large",
			fmt.Sprintf("%s is %s and exceeds %s.", sub.Name, humanize.IBytes(uint64(sub.SizeBytes)), limit),
			fmt.Errorf("%s: %w", sub.Name, common.ErrFileTooLarge))}, nil
	}

	data, digest, err := readSubmission(sub)
	switch {
	case errors.Is(err, common.ErrFileTooLarge):
		return []models.Outcome{s.reject(sub, "File too large",
			fmt.Sprintf("%s exceeds %s.", sub.Name, limit), err)}, nil
	case err != nil:
		s.log.Warn(ctx, "cannot read file", "file", sub.Name, "err", err)
		return []models.Outcome{s.reject(sub, "Cannot read file", fmt.Sprintf("%s: %v", sub.Name, err), err)}, nil
	}

	kind, _ := filetype.Match(data)
	if !filetype.IsImage(data) && !filetype.IsVideo(data) {
		return []models.Outcome{s.reject(sub, "Unsupported file",
			fmt.Sprintf("%s is not an image or video.", sub.Name),
			fmt.Errorf("%s: %w", sub.Name, common.ErrUnsupportedMedia))}, nil
	}

	orig := &Original{Submission: sub, ContentType: kind.MIME.Value, Digest: digest}
	originals[sub.Name] = orig

	s.notifier.Info("Processing...", sub.Name)
	s.log.Debug(ctx, "uploading", "file", sub.Name, "bytes", len(data), "type", orig.ContentType)

	results, err := s.client.Upload(ctx, models.UploadRequest{
		Filename:    sub.Name,
		ContentType: orig.ContentType,
		Data:        data,
		Mode:        models.ModeNormal,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return []models.Outcome{{Filename: sub.Name, Kind: models.OutcomeFailed, Err: err}}, ctxErr
		}
		s.log.Warn(ctx, "upload failed", "file", sub.Name, "err", err)
		s.notifier.Error("Upload failed", fmt.Sprintf("%s: %v", sub.Name, err))
		return []models.Outcome{{Filename: sub.Name, Kind: models.OutcomeFailed, Err: err}}, nil
	}

	if len(results) == 0 {
		s.notifier.Error("Upload failed", fmt.Sprintf("%s: the server returned no result.", sub.Name))
		return []models.Outcome{{
			Filename: sub.Name, Kind: models.OutcomeFailed,
			Err: fmt.Errorf("%s: %w", sub.Name, common.ErrNotStored),
		}}, nil
	}

	outs := make([]models.Outcome, 0, len(results))
	for _, r := range results {
		out, err := s.handleResult(ctx, r, originals, c)
		outs = append(outs, out)
		if err != nil {
			return outs, err
		}
	}
	return outs, nil
}

func (s *uploadService) handleResult(ctx context.Context, r models.DetectionResult, originals map[string]*Original, c Collector) (models.Outcome, error) {
	switch {
	case r.Sensitive:
		s.log.Info(ctx, "sensitive content detected", "file", r.Filename, "matches", len(r.Matches))
		return s.reviewer.Review(ctx, ReviewRequest{Original: originals[r.Filename], Result: r, Collector: c})

	case r.Stored:
		if c != nil {
			c.Collect(ctx, r)
		}
		s.notifier.Success(fmt.Sprintf("%s uploaded", r.Filename), "")
		return models.Outcome{Filename: r.Filename, Kind: models.OutcomeStored, Result: &r}, nil

	default:
		s.notifier.Error("Upload failed", fmt.Sprintf("%s was not stored.", r.Filename))
		return models.Outcome{
			Filename: r.Filename, Kind: models.OutcomeFailed, Result: &r,
			Err: fmt.Errorf("%s: %w", r.Filename, common.ErrNotStored),
		}, nil
	}
}
