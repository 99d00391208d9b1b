package auditlogplugin_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deploystackio/deploystack-sub002/internal/logger"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	auditlogplugin "github.com/deploystackio/deploystack-sub002/internal/plugins/auditlog"
	"github.com/deploystackio/deploystack-sub002/internal/server"
)

func newAuditHost(t *testing.T, databasePath string) *server.Host {
	t.Helper()

	h := server.NewHost(server.Config{
		Factories:    []plugin.Factory{auditlogplugin.New},
		DatabasePath: databasePath,
		Logger:       logger.NewNop(),
	})
	require.NoError(t, h.Start(context.Background()))
	t.Cleanup(func() { _ = h.Shutdown(context.Background()) })
	return h
}

func listEvents(t *testing.T, h *server.Host) []auditlogplugin.Event {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/audit/events", nil)
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var events []auditlogplugin.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	return events
}

func TestInitializeRecordsStartupEvent(t *testing.T) {
	h := newAuditHost(t, filepath.Join(t.TempDir(), "deploystack.db"))

	events := listEvents(t, h)
	require.NotEmpty(t, events)
	require.Equal(t, "plugin.initialized", events[0].Action)
}

func TestEventsPersistWhenDatabasePresent(t *testing.T) {
	h := newAuditHost(t, filepath.Join(t.TempDir(), "deploystack.db"))

	rows, err := h.Database().List(auditlogplugin.TableName)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
}

func TestBufferedEventsFlushOnSetup(t *testing.T) {
	h := newAuditHost(t, "")

	// Recorded during initialize, buffered because no store exists yet.
	require.NotEmpty(t, listEvents(t, h))

	path := filepath.Join(t.TempDir(), "deploystack.db")
	require.NoError(t, h.SetupDatabase(context.Background(), path))

	rows, err := h.Database().List(auditlogplugin.TableName)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
}

func TestRetentionSettingIsDefined(t *testing.T) {
	h := newAuditHost(t, filepath.Join(t.TempDir(), "deploystack.db"))

	value, err := h.Settings().Get(auditlogplugin.SettingRetentionDays)
	require.NoError(t, err)
	require.Equal(t, "30", value)

	require.Error(t, h.Settings().Set(auditlogplugin.SettingRetentionDays, "soon"))
	require.NoError(t, h.Settings().Set(auditlogplugin.SettingRetentionDays, "7"))
}
