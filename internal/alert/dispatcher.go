package alert

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
)

var ErrQueueFull = errors.New("alert queue is full")

const (
	defaultQueueSize = 16
	defaultTimeout   = 10 * time.Second
)

type Options struct {
	Notifier  Notifier
	Audio     AudioPlayer
	Vibrator  Vibrator
	Logger    *slog.Logger
	Templates map[Event]Template
	QueueSize int
	Timeout   time.Duration
}

// Dispatcher delivers alerts on a single background worker so callers never
// block on audio or notification back-ends. Failures are logged.
type Dispatcher struct {
	notifier  Notifier
	audio     AudioPlayer
	vibrator  Vibrator
	logger    *slog.Logger
	templates map[Event]compiledTemplate
	timeout   time.Duration

	queue     chan func(context.Context)
	done      chan struct{}
	closeOnce sync.Once

	mu      sync.Mutex
	ambient model.AmbientSound
	closed  bool
}

func NewDispatcher(opts Options) (*Dispatcher, error) {
	templates, err := compile(opts.Templates)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Notifier == nil || opts.Audio == nil {
		sink := NewLogSink(opts.Logger)
		if opts.Notifier == nil {
			opts.Notifier = sink
		}
		if opts.Audio == nil {
			opts.Audio = sink
		}
	}
	if opts.Vibrator == nil {
		opts.Vibrator = NoopVibrator{}
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	d := &Dispatcher{
		notifier:  opts.Notifier,
		audio:     opts.Audio,
		vibrator:  opts.Vibrator,
		logger:    opts.Logger,
		templates: templates,
		timeout:   opts.Timeout,
		queue:     make(chan func(context.Context), opts.QueueSize),
		done:      make(chan struct{}),
		ambient:   model.AmbientNone,
	}
	go d.run()
	return d, nil
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for job := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		job(ctx)
		cancel()
	}
}

func (d *Dispatcher) enqueue(job func(context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	select {
	case d.queue <- job:
	default:
		d.logger.Warn("drop alert", "error", ErrQueueFull)
	}
}

// SessionCompleted plays the completion sound, vibrates and shows a desktop
// notification, each according to settings.
func (d *Dispatcher) SessionCompleted(session model.Session, settings model.Settings) {
	d.enqueue(func(ctx context.Context) {
		if settings.NotificationSound != model.SoundNone {
			if err := d.audio.PlaySound(ctx, settings.NotificationSound, settings.NotificationVolume); err != nil {
				d.report(apperrors.Audio("play notification sound", err))
			}
		}
		if settings.EnableVibration {
			if err := d.vibrator.Vibrate(PatternSuccess); err != nil {
				d.report(apperrors.Notification("vibrate", err))
			}
		}
		if settings.EnableDesktopNotifications {
			event := eventFor(session.Type)
			n, err := d.templates[event].render(event, session)
			if err != nil {
				d.report(apperrors.Notification("render notification", err))
				return
			}
			if err := d.notifier.Show(ctx, n); err != nil {
				d.report(apperrors.Notification("show notification", err))
			}
		}
	})
}

// AmbientStart begins the configured ambient loop, replacing any other loop.
func (d *Dispatcher) AmbientStart(settings model.Settings) {
	sound, volume := settings.AmbientSound, settings.AmbientVolume
	d.enqueue(func(ctx context.Context) {
		if sound == model.AmbientNone || volume == 0 {
			d.stopAmbient()
			return
		}
		if err := d.audio.PlayAmbient(ctx, sound, volume); err != nil {
			d.report(apperrors.Audio("play ambient sound", err))
			return
		}
		d.setAmbient(sound)
	})
}

func (d *Dispatcher) AmbientStop() {
	d.enqueue(func(context.Context) {
		d.stopAmbient()
	})
}

// SettingsChanged keeps a playing ambient loop in line with new settings.
func (d *Dispatcher) SettingsChanged(settings model.Settings) {
	d.enqueue(func(ctx context.Context) {
		playing := d.currentAmbient()
		if playing == model.AmbientNone {
			return
		}
		if settings.AmbientSound != playing || settings.AmbientVolume == 0 {
			d.stopAmbient()
			if settings.AmbientSound == model.AmbientNone || settings.AmbientVolume == 0 {
				return
			}
			if err := d.audio.PlayAmbient(ctx, settings.AmbientSound, settings.AmbientVolume); err != nil {
				d.report(apperrors.Audio("play ambient sound", err))
				return
			}
			d.setAmbient(settings.AmbientSound)
			return
		}
		if err := d.audio.SetAmbientVolume(settings.AmbientVolume); err != nil {
			d.report(apperrors.Audio("set ambient volume", err))
		}
	})
}

// Close stops ambient audio and waits for queued alerts to finish.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.enqueue(func(context.Context) { d.stopAmbient() })
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
		<-d.done
	})
}

func (d *Dispatcher) stopAmbient() {
	if d.currentAmbient() == model.AmbientNone {
		return
	}
	if err := d.audio.StopAmbient(); err != nil {
		d.report(apperrors.Audio("stop ambient sound", err))
	}
	d.setAmbient(model.AmbientNone)
}

func (d *Dispatcher) currentAmbient() model.AmbientSound {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ambient
}

func (d *Dispatcher) setAmbient(sound model.AmbientSound) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ambient = sound
}

func (d *Dispatcher) report(err *apperrors.AppError) {
	if errors.Is(err, apperrors.ErrUnsupported) {
		d.logger.Debug("alert unavailable", "kind", err.Kind, "error", err)
		return
	}
	d.logger.Warn("alert failed", "kind", err.Kind, "error", err)
}
