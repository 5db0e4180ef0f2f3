package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/securevision/internal/client/client"
	"github.com/dmitrijs2005/securevision/internal/client/livestream"
	"github.com/dmitrijs2005/securevision/internal/client/models"
	"github.com/dmitrijs2005/securevision/internal/client/notify"
	"github.com/dmitrijs2005/securevision/internal/client/surface"
	"github.com/dmitrijs2005/securevision/internal/common"
	"github.com/dmitrijs2005/securevision/internal/logging"
)

const frameBuffer = 8

var startPrompt = notify.Prompt{
	Kind:    notify.KindInfo,
	Title:   "Start Livestream?",
	Text:    "The camera feed will be scanned and sensitive regions blurred.",
	Confirm: "Yes, start",
	Cancel:  "Cancel",
}

type command struct {
	ctx   context.Context
	ev    livestream.Event
	reply chan error
}

type session struct {
	id     string
	ctx    context.Context
	stream client.Stream
	log    logging.Logger

	frames chan client.Frame
	ctrl   chan command

	opened   chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
	loopDone chan struct{}
	done     chan struct{}
}

func (sess *session) shutdown() {
	sess.quitOnce.Do(func() {
		close(sess.quit)
		_ = sess.stream.Close()
	})
}

// read starts delivering frames once the session is open, so no frame is
// seen before the Opened transition.
func (sess *session) read() error {
	defer close(sess.frames)

	select {
	case <-sess.opened:
	case <-sess.quit:
		return nil
	}

	for {
		f, err := sess.stream.ReadFrame()
		if err != nil {
			sess.log.Debug(sess.ctx, "stream reader stopped", "err", err)
			return nil
		}
		select {
		case sess.frames <- f:
		case <-sess.quit:
			return nil
		}
	}
}

func (sess *session) send(ctx context.Context, ev livestream.Event) error {
	cmd := command{ctx: ctx, ev: ev, reply: make(chan error, 1)}
	select {
	case sess.ctrl <- cmd:
	case <-sess.loopDone:
		return common.ErrAlreadyClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LivestreamService runs at most one livestream session. Its connection
// state is the single source of truth; surface visibility follows it.
//
// Once a session is open, every state change and surface mutation happens
// on the session's event loop goroutine, and frames are rendered strictly
// in arrival order.
type LivestreamService struct {
	client   client.Client
	notifier notify.Service
	surface  surface.Surface
	log      logging.Logger

	mu      sync.Mutex
	state   models.ConnectionState
	session *session
}

func NewLivestreamService(c client.Client, n notify.Service, s surface.Surface, log logging.Logger) *LivestreamService {
	return &LivestreamService{client: c, notifier: n, surface: s, log: log.With("component", "livestream")}
}

func (s *LivestreamService) State() models.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *LivestreamService) fire(ev livestream.Event) ([]livestream.Effect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects, err := livestream.Next(s.state, ev)
	if err != nil {
		return nil, err
	}
	if next != s.state {
		s.log.Debug(context.Background(), "livestream state", "from", s.state, "to", next, "event", ev)
	}
	s.state = next
	return effects, nil
}

// Connect asks for confirmation and opens the feed. An open or opening
// session is disconnected first. Declining leaves the service Disconnected
// and returns nil without touching the network.
func (s *LivestreamService) Connect(ctx context.Context) error {
	if st := s.State(); st == models.StateStreaming || st == models.StateConnecting {
		if err := s.Disconnect(ctx); err != nil && !errors.Is(err, common.ErrAlreadyClosed) {
			return err
		}
	}

	if _, err := s.fire(livestream.EventConnect); err != nil {
		return err
	}

	choice, err := s.notifier.Prompt(ctx, startPrompt)
	if err != nil || choice != notify.ChoiceConfirm {
		_, _ = s.fire(livestream.EventDeclined)
		return err
	}

	if _, err := s.fire(livestream.EventConfirmed); err != nil {
		return err
	}

	stream, err := s.client.OpenStream(ctx)
	if err != nil {
		if _, ferr := s.fire(livestream.EventOpenFailed); ferr == nil {
			s.log.Error(ctx, "livestream open failed", "err", err)
			s.notifier.Error("Could not start the livestream.", err.Error())
		}
		return fmt.Errorf("open livestream: %w", err)
	}

	id := uuid.NewString()
	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	sess := &session{
		id:       id,
		ctx:      gctx,
		stream:   stream,
		log:      s.log.With("session", id),
		frames:   make(chan client.Frame, frameBuffer),
		ctrl:     make(chan command),
		opened:   make(chan struct{}),
		quit:     make(chan struct{}),
		loopDone: make(chan struct{}),
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	if s.state != models.StateConnecting {
		st := s.state
		s.mu.Unlock()
		_ = stream.Close()
		return fmt.Errorf("%w: livestream became %s while connecting", common.ErrInvalidTransition, st)
	}
	s.session = sess
	s.mu.Unlock()

	g.Go(func() error { return s.loop(sess) })
	g.Go(sess.read)
	go func() {
		if err := g.Wait(); err != nil {
			sess.log.Warn(sess.ctx, "livestream session ended with error", "err", err)
		}
		s.mu.Lock()
		if s.session == sess {
			s.session = nil
		}
		s.mu.Unlock()
		close(sess.done)
	}()

	if err := sess.send(ctx, livestream.EventOpened); err != nil {
		sess.shutdown()
		return err
	}
	close(sess.opened)

	return nil
}

func (s *LivestreamService) loop(sess *session) error {
	defer close(sess.loopDone)
	defer sess.shutdown()

	frames := sess.frames
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				frames = nil
				if err := s.handle(sess.ctx, sess, livestream.EventPeerClosed, nil); err != nil {
					return err
				}
				break
			}
			if err := s.handle(sess.ctx, sess, livestream.EventFrame, &f); err != nil {
				return err
			}

		case cmd := <-sess.ctrl:
			cmd.reply <- s.handle(cmd.ctx, sess, cmd.ev, nil)

		case <-sess.quit:
			// Torn down before a transition reached Disconnected, e.g. an
			// abandoned connect.
			if s.State() != models.StateDisconnected {
				_ = s.handle(sess.ctx, sess, livestream.EventPeerClosed, nil)
			}
			return nil
		}

		if s.State() == models.StateDisconnected {
			return nil
		}
	}
}

type ack struct {
	status models.DisconnectStatus
	err    error
}

func (s *LivestreamService) handle(ctx context.Context, sess *session, ev livestream.Event, f *client.Frame) error {
	effects, err := s.fire(ev)
	if err != nil {
		if ev == livestream.EventDisconnect && s.State() == models.StateDisconnected {
			return common.ErrAlreadyClosed
		}
		return err
	}

	// The disconnect request is the last effect of its transition; its
	// answer drives the follow-up Acked event.
	var pending *ack
	for _, eff := range effects {
		switch eff {
		case livestream.EffectShowSurface:
			s.surface.SetVisible(true)
		case livestream.EffectHideSurface:
			s.surface.SetVisible(false)
		case livestream.EffectRender:
			s.render(ctx, sess, *f)
		case livestream.EffectCloseConn:
			if sess != nil {
				sess.shutdown()
			}
		case livestream.EffectSendDisconnect:
			st, err := s.client.DisconnectStream(ctx)
			pending = &ack{status: st, err: err}
		case livestream.EffectNotifyConnected:
			s.log.Info(ctx, "livestream connected")
			s.notifier.Success("Connected!", "")
		case livestream.EffectNotifyPeerClosed:
			s.log.Info(ctx, "livestream closed by server")
			s.notifier.Info("Livestream ended.", "The server closed the connection.")
		}
	}

	if pending == nil {
		return nil
	}

	effects, err = s.fire(livestream.EventAcked)
	if err != nil {
		return err
	}
	for _, eff := range effects {
		if eff == livestream.EffectNotifyDisconnected {
			s.notifyStopped(ctx, *pending)
		}
	}
	return nil
}

func (s *LivestreamService) notifyStopped(ctx context.Context, a ack) {
	switch {
	case a.err != nil:
		s.log.Warn(ctx, "disconnect not acknowledged", "err", a.err)
		s.notifier.Warn("Livestream stopped.", fmt.Sprintf("The server did not confirm: %v", a.err))
	case a.status == models.StatusAlreadyClosed:
		s.notifier.Info("It was already closed.", "")
	default:
		s.notifier.Success("Livestream stopped.", "")
	}
}

func (s *LivestreamService) render(ctx context.Context, sess *session, f client.Frame) {
	img, format, err := livestream.DecodeFrame(f.Payload, f.Encoded)
	if err != nil {
		sess.log.Warn(ctx, "frame dropped", "bytes", len(f.Payload), "err", err)
		return
	}
	if err := s.surface.Render(img); err != nil {
		sess.log.Warn(ctx, "render failed", "format", format, "err", err)
		return
	}
	sess.log.Debug(ctx, "frame rendered", "format", format, "size", img.Bounds().Size())
}

// Disconnect stops the session from Streaming or Connecting and waits
// until it is torn down. It returns common.ErrAlreadyClosed when nothing is
// open.
func (s *LivestreamService) Disconnect(ctx context.Context) error {
	return s.stop(ctx, livestream.EventDisconnect)
}

// Dismiss is the user closing the surface. It tears the session down like
// Disconnect and is a no-op when nothing is open.
func (s *LivestreamService) Dismiss(ctx context.Context) error {
	if err := s.stop(ctx, livestream.EventDismiss); err != nil && !errors.Is(err, common.ErrAlreadyClosed) {
		return err
	}
	return nil
}

func (s *LivestreamService) stop(ctx context.Context, ev livestream.Event) error {
	s.mu.Lock()
	sess, st := s.session, s.state
	s.mu.Unlock()

	if sess == nil {
		if st == models.StateConnecting {
			return s.handle(ctx, nil, ev, nil)
		}
		if ev == livestream.EventDismiss {
			return nil
		}
		return common.ErrAlreadyClosed
	}

	if err := sess.send(ctx, ev); err != nil {
		return err
	}

	select {
	case <-sess.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until the current session, if any, has fully ended.
func (s *LivestreamService) Wait() {
	s.mu.Lock()
	sess := s.session
	s.mu.Unlock()
	if sess != nil {
		<-sess.done
	}
}
