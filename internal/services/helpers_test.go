package services

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"kupanga_backend/database"
	"kupanga_backend/internal/auth"
	"kupanga_backend/internal/email"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/repositories"
)

const (
	testPassword = "correct-horse"
	asyncWait    = 2 * time.Second
	asyncTick    = 10 * time.Millisecond
)

// newTestDB opens a fresh in-memory database migrated with the full schema.
// The DSN is derived from the test name so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// createUser inserts a user with the given role and testPassword.
func createUser(t *testing.T, db *gorm.DB, emailAddr string, role models.UserRole) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)

	user := &models.User{
		Email:        NormalizeEmail(emailAddr),
		PasswordHash: hash,
		Role:         role,
	}
	require.NoError(t, repositories.NewUserRepository(db).Create(user))
	return user
}

// sentMail is one recorded notification.
type sentMail struct {
	Kind    string
	To      string
	Payload string
}

// recordingMailer captures notifications instead of sending them. Sends
// happen on goroutines, so reads go through the mutex and tests wait with
// waitForMail.
type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

var _ email.Provider = (*recordingMailer)(nil)

func (m *recordingMailer) record(kind, to, payload string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{Kind: kind, To: to, Payload: payload})
}

func (m *recordingMailer) Send(msg *email.Message) error {
	to := ""
	if len(msg.To) > 0 {
		to = msg.To[0]
	}
	m.record("raw", to, msg.Subject)
	return nil
}

func (m *recordingMailer) SendProvisionalPassword(to, password string) error {
	m.record("provisional", to, password)
	return nil
}

func (m *recordingMailer) SendPasswordResetLink(to, resetURL string) error {
	m.record("reset", to, resetURL)
	return nil
}

func (m *recordingMailer) SendPasswordUpdatedConfirmation(to string) error {
	m.record("updated", to, "")
	return nil
}

func (m *recordingMailer) SendWelcome(to, firstName string) error {
	m.record("welcome", to, firstName)
	return nil
}

func (m *recordingMailer) byKind(kind string) []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []sentMail
	for _, s := range m.sent {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

// waitForMail blocks until at least n notifications of the kind arrived.
func waitForMail(t *testing.T, m *recordingMailer, kind string, n int) []sentMail {
	t.Helper()

	deadline := time.Now().Add(asyncWait)
	for time.Now().Before(deadline) {
		if got := m.byKind(kind); len(got) >= n {
			return got
		}
		time.Sleep(asyncTick)
	}
	got := m.byKind(kind)
	require.GreaterOrEqual(t, len(got), n, "timed out waiting for %q notification", kind)
	return got
}
