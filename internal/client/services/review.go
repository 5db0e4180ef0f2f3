package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/securevision/internal/client/client"
	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/client/notify"
	"github.com/dmitrijs2005/securevision/internal/client/review"
	"github.com/dmitrijs2005/securevision/internal/common"
	"github.com/dmitrijs2005/securevision/internal/logging"
)

// ReviewRequest hands one flagged result to the review workflow. Original
// is nil when the submission that produced Result cannot be found.
type ReviewRequest struct {
	Original  *Original
	Result    models.DetectionResult
	Collector Collector
}

// ReviewService resolves a flagged result by asking the user to blur and
// re-upload, upload anyway, or cancel.
//
// Reviews for the same filename never interleave: a second review waits
// until the first is resolved. The returned error is non-nil only when ctx
// ends or the workflow reaches an impossible state; per-file failures are
// reported in the Outcome.
type ReviewService interface {
	Review(ctx context.Context, req ReviewRequest) (models.Outcome, error)
}

type reviewService struct {
	client   client.Client
	notifier notify.Service
	log      logging.Logger
	gate     *keyedGate
}

func NewReviewService(c client.Client, n notify.Service, log logging.Logger) ReviewService {
	return &reviewService{client: c, notifier: n, log: log.With("component", "review"), gate: newKeyedGate()}
}

func reviewPrompt(r models.DetectionResult) notify.Prompt {
	return notify.Prompt{
		Kind:    notify.KindWarning,
		Title:   fmt.Sprintf("Sensitive content detected in %s", r.Filename),
		Text:    r.Matches.Summary(),
		Confirm: "Blur & Upload",
		Deny:    "Upload Anyway",
		Cancel:  "Cancel",
	}
}

func choiceEvent(c notify.Choice) review.Event {
	switch c {
	case notify.ChoiceConfirm:
		return review.EventConfirm
	case notify.ChoiceDeny:
		return review.EventDeny
	default:
		return review.EventDismiss
	}
}

func (s *reviewService) Review(ctx context.Context, req ReviewRequest) (models.Outcome, error) {
	res := req.Result
	out := models.Outcome{Filename: res.Filename, Kind: models.OutcomeSkipped, Result: &res}

	release, err := s.gate.Acquire(ctx, res.Filename)
	if err != nil {
		out.Err = err
		return out, err
	}
	defer release()

	state := review.State{}
	ev := review.EventStart
	if req.Original == nil {
		ev = review.EventOriginalMissing
	}

	for state.Phase != review.PhaseResolved {
		next, effects, err := review.Next(state, ev)
		if err != nil {
			out.Err = err
			return out, err
		}
		state = next
		out.Decision = state.Decision

		for _, eff := range effects {
			switch eff {
			case review.EffectPrompt:
				choice, err := s.notifier.Prompt(ctx, reviewPrompt(res))
				if err != nil {
					out.Err = err
					return out, err
				}
				ev = choiceEvent(choice)

			case review.EffectResubmitBlur:
				return s.resubmit(ctx, req, models.ModeBlur, out), nil

			case review.EffectResubmitForce:
				return s.resubmit(ctx, req, models.ModeForce, out), nil

			case review.EffectNotifySkipped:
				s.log.Info(ctx, "review cancelled", "file", res.Filename)
				s.notifier.Info(fmt.Sprintf("%s was skipped", res.Filename), "")
				out.Kind = models.OutcomeSkipped

			case review.EffectReportDefect:
				return s.defect(ctx, out, common.ErrOriginalUnavailable), nil
			}
		}
	}

	return out, nil
}

func (s *reviewService) defect(ctx context.Context, out models.Outcome, err error) models.Outcome {
	s.log.Error(ctx, "original unavailable for flagged file", "file", out.Filename, "err", err)
	s.notifier.Error("Original unavailable",
		fmt.Sprintf("%s can no longer be read; nothing was re-sent.", out.Filename))
	out.Kind = models.OutcomeDefect
	out.Err = err
	return out
}

func (s *reviewService) resubmit(ctx context.Context, req ReviewRequest, mode models.UploadMode, out models.Outcome) models.Outcome {
	data, err := rereadOriginal(req.Original)
	if err != nil {
		return s.defect(ctx, out, err)
	}

	results, err := s.client.Upload(ctx, models.UploadRequest{
		Filename:    out.Filename,
		ContentType: req.Original.ContentType,
		Data:        data,
		Mode:        mode,
	})
	if err != nil {
		s.log.Warn(ctx, "re-upload failed", "file", out.Filename, "mode", mode, "err", err)
		s.notifier.Error("Upload failed", fmt.Sprintf("%s: %v", out.Filename, err))
		out.Kind = models.OutcomeFailed
		out.Err = err
		return out
	}

	stored, ok := pickResult(results, out.Filename)
	if !ok || !stored.Stored {
		s.log.Warn(ctx, "re-upload not stored", "file", out.Filename, "mode", mode)
		s.notifier.Error("Upload failed", fmt.Sprintf("%s was not stored.", out.Filename))
		out.Kind = models.OutcomeFailed
		out.Err = fmt.Errorf("%s: %w", out.Filename, common.ErrNotStored)
		if ok {
			out.Result = &stored
		}
		return out
	}

	if req.Collector != nil {
		req.Collector.Collect(ctx, stored)
	}

	if mode == models.ModeBlur {
		s.notifier.Success(fmt.Sprintf("%s blurred & uploaded", out.Filename), "")
	} else {
		s.notifier.Success(fmt.Sprintf("%s uploaded (forced)", out.Filename), "")
	}
	s.log.Info(ctx, "flagged file re-uploaded", "file", out.Filename, "mode", mode)

	out.Kind = models.OutcomeReviewed
	out.Result = &stored
	return out
}

// pickResult prefers the result naming filename and falls back to the only
// result of a single-file response.
func pickResult(results []models.DetectionResult, filename string) (models.DetectionResult, bool) {
	for _, r := range results {
		if r.Filename == filename {
			return r, true
		}
	}
	if len(results) == 1 {
		return results[0], true
	}
	return models.DetectionResult{}, false
}
