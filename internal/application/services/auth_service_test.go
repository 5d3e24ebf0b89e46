package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FleetPulse/fleetpulse-go/internal/infrastructure/observability/logging"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	require.NoError(t, err)
	return logger
}

func TestAuthServiceLoginAndValidate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("fleet-admin"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(string(hash), "test-secret", time.Hour, newTestLogger(t))

	token, err := svc.Login("fleet-admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	role, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", role)
}

func TestAuthServiceRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("fleet-admin"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := NewAuthService(string(hash), "test-secret", time.Hour, newTestLogger(t))

	_, err = svc.Login("wrong")
	assert.Error(t, err)
}

func TestAuthServiceRejectsWhenUnconfigured(t *testing.T) {
	svc := NewAuthService("", "test-secret", time.Hour, newTestLogger(t))

	_, err := svc.Login("anything")
	assert.Error(t, err)
}

func TestAuthServiceRejectsForeignToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("fleet-admin"), bcrypt.MinCost)
	require.NoError(t, err)

	issuer := NewAuthService(string(hash), "secret-a", time.Hour, newTestLogger(t))
	verifier := NewAuthService(string(hash), "secret-b", time.Hour, newTestLogger(t))

	token, err := issuer.Login("fleet-admin")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err, "a token signed with a different secret must not validate")
}
