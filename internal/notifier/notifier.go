// Package notifier forwards streak changes to the potd-tray desktop app.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/potd/internal/constants"
	"github.com/julianstephens/potd/internal/events"
	"github.com/julianstephens/potd/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	// ErrTrayNotRunning means there is no tray to deliver to; callers
	// usually ignore it.
	ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")
)

// SecretHeader authenticates requests to the tray webhook.
const SecretHeader = "X-Potd-Secret"

type WebhookPayload struct {
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

// endpoint is the tray's local webhook as advertised in its lockfile.
type endpoint struct {
	port   int
	pid    int
	secret string
}

func (e endpoint) url() string {
	return fmt.Sprintf("http://127.0.0.1:%d", e.port)
}

type Notifier struct {
	client     *http.Client
	retries    int
	retryDelay time.Duration
}

func New() *Notifier {
	return &Notifier{
		client:     &http.Client{Timeout: 3 * time.Second},
		retries:    constants.NotifyMaxRetries,
		retryDelay: constants.NotifyRetryDelay,
	}
}

// Notify shows text in the tray. Transient delivery failures are retried;
// a missing tray is not.
func (n *Notifier) Notify(ctx context.Context, text string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}

	ep, err := findTray(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}

	payload := WebhookPayload{Text: text, DurationMs: constants.NotificationDurationMs}

	var lastErr error
	for attempt := 0; attempt <= n.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.retryDelay * time.Duration(attempt)):
			}
		}
		if lastErr = n.send(ctx, ep, payload); lastErr == nil {
			return nil
		}
		logger.Debug("Tray notification attempt failed", "attempt", attempt+1, "error", lastErr)
	}
	return lastErr
}

// Attach notifies on every streak update published on bus and returns the
// unsubscribe function.
func (n *Notifier) Attach(ctx context.Context, bus *events.Bus[events.StreakUpdated]) func() {
	return bus.Subscribe(func(ev events.StreakUpdated) {
		if err := n.Notify(ctx, StreakMessage(ev)); err != nil {
			if errors.Is(err, ErrTrayNotRunning) {
				logger.Debug("Tray not running, skipping notification")
				return
			}
			logger.Warn("Tray notification failed", "error", err)
		}
	})
}

// StreakMessage renders a streak update for a desktop notification.
func StreakMessage(ev events.StreakUpdated) string {
	rec := ev.Record
	if ev.Recovered {
		return fmt.Sprintf("Streak restored from the leaderboard: %d days (best %d)", rec.Count, rec.Max)
	}
	if rec.Count == 1 {
		return fmt.Sprintf("Problem of the day solved! Streak started (best %d)", rec.Max)
	}
	if rec.Count == rec.Max {
		return fmt.Sprintf("Problem of the day solved! %d-day streak, a new best", rec.Count)
	}
	return fmt.Sprintf("Problem of the day solved! %d-day streak (best %d)", rec.Count, rec.Max)
}

// GetTrayAppConfigDir returns the configuration directory used by the tray application.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}

	trayConfigDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	// The tray may move its lockfile via settings.json.
	data, err := os.ReadFile(filepath.Join(trayConfigDir, "settings.json"))
	if err != nil {
		return trayConfigDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir *string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err == nil {
		if dir := store.Settings.LockfileDir; dir != nil && *dir != "" {
			return *dir, nil
		}
	}
	return trayConfigDir, nil
}

// parseLockfile reads "port|pid|secret".
func parseLockfile(content string) (endpoint, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return endpoint{}, errors.New("lockfile is malformed")
	}

	if strings.TrimSpace(parts[0]) == "" {
		return endpoint{}, errors.New("port in lockfile is empty")
	}
	port, err := strconv.Atoi(parts[0])
	if err != nil {
		return endpoint{}, errors.New("invalid port number in lockfile")
	}
	if port < 1 || port > 65535 {
		return endpoint{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}

	pid, err := strconv.Atoi(parts[1])
	if err != nil {
		return endpoint{}, errors.New("invalid process ID in lockfile")
	}

	secret := parts[2]
	if strings.TrimSpace(secret) == "" {
		return endpoint{}, errors.New("secret in lockfile is empty")
	}
	return endpoint{port: port, pid: pid, secret: secret}, nil
}

// findTray parses the lockfile and checks that its PID is a live tray process.
func findTray(lockfilePath string) (endpoint, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return endpoint{}, ErrTrayNotRunning
	}

	ep, err := parseLockfile(string(content))
	if err != nil {
		return endpoint{}, err
	}

	process, err := findProcessFunc(ep.pid)
	if err != nil || process == nil {
		return endpoint{}, ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return endpoint{}, fmt.Errorf("process with PID %d is not %s (is %s)", ep.pid, constants.TrayExecutablePrefix, process.Executable())
	}
	return ep, nil
}

func (n *Notifier) send(ctx context.Context, ep endpoint, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.url(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, ep.secret)

	res, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, string(msg))
}
