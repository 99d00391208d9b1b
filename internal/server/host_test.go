package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deploystackio/deploystack-sub002/internal/database"
	"github.com/deploystackio/deploystack-sub002/internal/logger"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/settings"
)

// serverTestPlugin exercises the full backend contribution surface.
type serverTestPlugin struct {
	id          string
	tables      []database.TableSpec
	definitions []settings.Definition
	routes      map[string]http.HandlerFunc

	initialized bool
	attachedDB  *database.DB
	attachErr   error
	cleanedUp   bool
	seenDB      *database.DB
}

func (p *serverTestPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          p.id,
		Name:        p.id,
		Version:     "1.0.0",
		Description: "server test plugin",
	}
}

func (p *serverTestPlugin) Initialize(_ context.Context, caps plugin.Capabilities) error {
	bridge, ok := caps.(*Capabilities)
	if !ok {
		return errors.New("unexpected capability bridge type")
	}
	p.initialized = true
	p.seenDB = bridge.Database()
	for pattern, handler := range p.routes {
		parts := strings.SplitN(pattern, " ", 2)
		if err := bridge.Routes().Handle(parts[0], parts[1], handler); err != nil {
			return err
		}
	}
	return nil
}

func (p *serverTestPlugin) Cleanup(context.Context) error {
	p.cleanedUp = true
	return nil
}

func (p *serverTestPlugin) Tables() []database.TableSpec { return p.tables }

func (p *serverTestPlugin) Settings() []settings.Definition { return p.definitions }

func (p *serverTestPlugin) AttachDatabase(_ context.Context, db *database.DB) error {
	if p.attachErr != nil {
		return p.attachErr
	}
	p.attachedDB = db
	return nil
}

func newServerHost(t *testing.T, cfg Config) *Host {
	t.Helper()
	cfg.Logger = logger.NewNop()
	h := NewHost(cfg)
	t.Cleanup(func() { _ = h.Shutdown(context.Background()) })
	return h
}

func TestHostStartWithoutDatabase(t *testing.T) {
	p := &serverTestPlugin{id: "probe"}
	h := newServerHost(t, Config{
		Factories: []plugin.Factory{func() plugin.Plugin { return p }},
	})

	require.NoError(t, h.Start(context.Background()))
	require.True(t, p.initialized)
	require.Nil(t, p.seenDB, "no database handle should be visible before setup")
	require.Nil(t, h.Database())
}

func TestHostAppliesContributionsBeforeInitialize(t *testing.T) {
	p := &serverTestPlugin{
		id:          "gitops",
		tables:      []database.TableSpec{{Name: "deploy_targets"}},
		definitions: []settings.Definition{{Key: "gitops.sync_interval", Type: settings.TypeNumber, Default: "60"}},
	}
	h := newServerHost(t, Config{
		Factories:    []plugin.Factory{func() plugin.Plugin { return p }},
		DatabasePath: filepath.Join(t.TempDir(), "store"),
	})

	require.NoError(t, h.Start(context.Background()))
	require.NotNil(t, p.seenDB, "database handle must be available during Initialize when configured at boot")

	value, err := h.Settings().Get("gitops.sync_interval")
	require.NoError(t, err)
	require.Equal(t, "60", value)

	specs := h.Database().Tables()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		names = append(names, spec.Name)
	}
	require.Contains(t, names, "deploy_targets")
	require.Contains(t, names, settings.TableName)
}

func TestHostSkipsDisabledPluginContributions(t *testing.T) {
	off := false
	p := &serverTestPlugin{
		id:          "dormant",
		definitions: []settings.Definition{{Key: "dormant.flag", Default: "x"}},
	}
	h := newServerHost(t, Config{
		Factories: []plugin.Factory{func() plugin.Plugin { return p }},
		Options:   plugin.OptionSet{"dormant": {Enabled: &off}},
	})

	require.NoError(t, h.Start(context.Background()))
	require.False(t, p.initialized)

	_, err := h.Settings().Get("dormant.flag")
	require.ErrorIs(t, err, settings.ErrUndefined)
}

func TestHostSetupDatabaseRunsAttachHooks(t *testing.T) {
	p := &serverTestPlugin{
		id:     "audit",
		tables: []database.TableSpec{{Name: "audit_events"}},
	}
	h := newServerHost(t, Config{
		Factories: []plugin.Factory{func() plugin.Plugin { return p }},
	})
	require.NoError(t, h.Start(context.Background()))
	require.Nil(t, p.seenDB)

	path := filepath.Join(t.TempDir(), "late-store")
	require.NoError(t, h.SetupDatabase(context.Background(), path))

	require.NotNil(t, p.attachedDB)
	require.Equal(t, path, p.attachedDB.Path())

	// Declared table was ensured before the hook ran.
	require.NoError(t, p.attachedDB.Put("audit_events", "e1", []byte("boot")))
}

func TestHostSetupDatabaseFailureIsFatal(t *testing.T) {
	p := &serverTestPlugin{id: "flaky", attachErr: errors.New("migration failed")}
	h := newServerHost(t, Config{
		Factories: []plugin.Factory{func() plugin.Plugin { return p }},
	})
	require.NoError(t, h.Start(context.Background()))

	err := h.SetupDatabase(context.Background(), filepath.Join(t.TempDir(), "store"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "flaky")
	require.Contains(t, err.Error(), "migration failed")
}

func TestHostSetupDatabaseTwiceFails(t *testing.T) {
	h := newServerHost(t, Config{
		DatabasePath: filepath.Join(t.TempDir(), "store"),
	})
	require.NoError(t, h.Start(context.Background()))

	err := h.SetupDatabase(context.Background(), filepath.Join(t.TempDir(), "other"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "already configured")
}

func TestHostCoreEndpoints(t *testing.T) {
	p := &serverTestPlugin{id: "visible"}
	off := false
	hidden := &serverTestPlugin{id: "switched-off"}

	h := newServerHost(t, Config{
		Factories: []plugin.Factory{
			func() plugin.Plugin { return p },
			func() plugin.Plugin { return hidden },
		},
		Options: plugin.OptionSet{"switched-off": {Enabled: &off}},
	})
	require.NoError(t, h.Start(context.Background()))

	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"database":false`)

	rec = httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/plugins", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var infos []pluginInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 2)
	require.Equal(t, "visible", infos[0].ID)
	require.True(t, infos[0].Enabled)
	require.Equal(t, "switched-off", infos[1].ID)
	require.False(t, infos[1].Enabled)
}

func TestHostSetupEndpoint(t *testing.T) {
	h := newServerHost(t, Config{})
	require.NoError(t, h.Start(context.Background()))

	body := strings.NewReader(`{"path":"` + filepath.ToSlash(filepath.Join(t.TempDir(), "store")) + `"}`)
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/setup/database", body))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, h.Database())

	rec = httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/setup/database", strings.NewReader(`{}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHostShutdownCleansPlugins(t *testing.T) {
	p := &serverTestPlugin{id: "closable"}
	h := NewHost(Config{
		Factories: []plugin.Factory{func() plugin.Plugin { return p }},
		Logger:    logger.NewNop(),
	})
	require.NoError(t, h.Start(context.Background()))

	require.NoError(t, h.Shutdown(context.Background()))
	require.True(t, p.cleanedUp)
}

func TestCapabilitiesValidation(t *testing.T) {
	svc := settings.NewService(logger.NewNop())
	router := NewRouter(logger.NewNop())

	caps := NewCapabilities(svc, router)
	require.NoError(t, caps.Validate())

	require.Error(t, NewCapabilities(nil, router).Validate())
	require.Error(t, NewCapabilities(svc, nil).Validate())

	require.Nil(t, caps.Database())
	db, err := database.Open(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	caps.SetDatabase(db)
	require.Same(t, db, caps.Database())
}
