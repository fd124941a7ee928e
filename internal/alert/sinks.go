package alert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	apperrors "focustimer/internal/errors"
	"focustimer/internal/model"
)

// CommandNotifier shows notifications by running an external command such
// as notify-send, with the title and body appended as arguments.
type CommandNotifier struct {
	name string
	args []string
}

func NewCommandNotifier(command string) (*CommandNotifier, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, errors.New("notify command is empty")
	}
	return &CommandNotifier{name: fields[0], args: fields[1:]}, nil
}

func (n *CommandNotifier) Show(ctx context.Context, notification Notification) error {
	args := append(append([]string{}, n.args...), notification.Title, notification.Body)
	out, err := exec.CommandContext(ctx, n.name, args...).CombinedOutput()
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%s: %w", n.name, apperrors.ErrNotificationDenied)
	}
	if err != nil {
		return fmt.Errorf("%s: %w: %s", n.name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// BellPlayer rings the terminal bell for notification sounds. Ambient loops
// are not available on a terminal.
type BellPlayer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBellPlayer(w io.Writer) *BellPlayer {
	return &BellPlayer{w: w}
}

func (p *BellPlayer) PlaySound(_ context.Context, sound model.NotificationSound, volume int) error {
	if sound == model.SoundNone || volume == 0 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := io.WriteString(p.w, "\a")
	return err
}

func (p *BellPlayer) PlayAmbient(context.Context, model.AmbientSound, int) error {
	return apperrors.ErrUnsupported
}

func (p *BellPlayer) StopAmbient() error {
	return nil
}

func (p *BellPlayer) SetAmbientVolume(int) error {
	return apperrors.ErrUnsupported
}

// LogSink records alerts as log lines. It serves headless processes.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Show(_ context.Context, n Notification) error {
	s.logger.Info("notification", "title", n.Title, "body", n.Body)
	return nil
}

func (s *LogSink) PlaySound(_ context.Context, sound model.NotificationSound, volume int) error {
	s.logger.Debug("notification sound", "sound", sound, "volume", volume)
	return nil
}

func (s *LogSink) PlayAmbient(_ context.Context, sound model.AmbientSound, volume int) error {
	s.logger.Debug("ambient start", "sound", sound, "volume", volume)
	return nil
}

func (s *LogSink) StopAmbient() error {
	s.logger.Debug("ambient stop")
	return nil
}

func (s *LogSink) SetAmbientVolume(volume int) error {
	s.logger.Debug("ambient volume", "volume", volume)
	return nil
}

type NoopVibrator struct{}

func (NoopVibrator) Vibrate([]int) error {
	return apperrors.ErrUnsupported
}
