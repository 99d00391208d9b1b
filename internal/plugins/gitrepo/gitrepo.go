package gitrepoplugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/deploystackio/deploystack-sub002/internal/database"
	"github.com/deploystackio/deploystack-sub002/internal/plugin"
	"github.com/deploystackio/deploystack-sub002/internal/server"
	"github.com/deploystackio/deploystack-sub002/internal/settings"
)

const (
	// TableName holds the tracked repository records.
	TableName = "repositories"

	// SettingDefaultBranch is applied to tracked repositories that do not
	// name a branch themselves.
	SettingDefaultBranch = "gitrepo.default_branch"
)

// Repository is a tracked deployment source repository. Path is optional; when
// it points at a local clone the plugin resolves its current HEAD.
type Repository struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Branch string `json:"branch"`
	Path   string `json:"path,omitempty"`
	Head   string `json:"head,omitempty"`
}

type gitrepoPlugin struct {
	mu      sync.Mutex
	caps    *server.Capabilities
	tracked map[string]Repository
}

// New creates the git repository tracking plugin.
func New() plugin.Plugin {
	return &gitrepoPlugin{tracked: make(map[string]Repository)}
}

func init() {
	plugin.MustRegisterBuiltin(plugin.RealmServer, New)
}

var (
	_ plugin.Plugin              = (*gitrepoPlugin)(nil)
	_ plugin.Cleaner             = (*gitrepoPlugin)(nil)
	_ server.TableContributor    = (*gitrepoPlugin)(nil)
	_ server.SettingsContributor = (*gitrepoPlugin)(nil)
	_ server.DatabaseAware       = (*gitrepoPlugin)(nil)
)

func (p *gitrepoPlugin) Descriptor() plugin.Descriptor {
	return plugin.Descriptor{
		ID:          "gitrepo",
		Name:        "Git Repositories",
		Version:     "1.0.0",
		Description: "Tracks deployment source repositories and their current HEADs.",
		Author:      "DeployStack",
	}
}

func (p *gitrepoPlugin) Tables() []database.TableSpec {
	return []database.TableSpec{
		{Name: TableName, Description: "Tracked deployment source repositories."},
	}
}

func (p *gitrepoPlugin) Settings() []settings.Definition {
	return []settings.Definition{
		{
			Key:         SettingDefaultBranch,
			Type:        settings.TypeString,
			Default:     "main",
			Description: "Branch assumed for repositories that do not specify one.",
		},
	}
}

func (p *gitrepoPlugin) Initialize(ctx context.Context, caps plugin.Capabilities) error {
	bridge, ok := caps.(*server.Capabilities)
	if !ok {
		return fmt.Errorf("gitrepo requires the server capability bridge")
	}
	p.caps = bridge

	routes := bridge.Routes()
	if err := routes.Handle(http.MethodGet, "/api/gitrepo/repositories", p.handleList); err != nil {
		return err
	}
	if err := routes.Handle(http.MethodPost, "/api/gitrepo/repositories", p.handleTrack); err != nil {
		return err
	}
	if err := routes.Handle(http.MethodGet, "/api/gitrepo/repositories/{name}", p.handleGet); err != nil {
		return err
	}

	if db := bridge.Database(); db != nil {
		if err := p.reload(db); err != nil {
			return fmt.Errorf("load tracked repositories: %w", err)
		}
	}
	return nil
}

// AttachDatabase persists repositories tracked before the database existed,
// then reloads the tracked set from the table.
func (p *gitrepoPlugin) AttachDatabase(ctx context.Context, db *database.DB) error {
	p.mu.Lock()
	pending := make([]Repository, 0, len(p.tracked))
	for _, repo := range p.tracked {
		pending = append(pending, repo)
	}
	p.mu.Unlock()

	for _, repo := range pending {
		if err := persist(db, repo); err != nil {
			return err
		}
	}
	return p.reload(db)
}

func (p *gitrepoPlugin) Cleanup(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tracked = make(map[string]Repository)
	return nil
}

// Track records a repository. The default branch setting fills in a missing
// branch, and a local path has its HEAD resolved immediately.
func (p *gitrepoPlugin) Track(repo Repository) (Repository, error) {
	if repo.Name == "" {
		return Repository{}, fmt.Errorf("repository name is required")
	}
	if repo.URL == "" {
		return Repository{}, fmt.Errorf("repository url is required")
	}

	if repo.Branch == "" {
		branch, err := p.caps.Settings().Get(SettingDefaultBranch)
		if err != nil {
			return Repository{}, err
		}
		repo.Branch = branch
	}

	if repo.Path != "" {
		head, err := resolveHead(repo.Path)
		if err != nil {
			return Repository{}, err
		}
		repo.Head = head
	}

	p.mu.Lock()
	p.tracked[repo.Name] = repo
	p.mu.Unlock()

	if db := p.caps.Database(); db != nil {
		if err := persist(db, repo); err != nil {
			return Repository{}, err
		}
	}
	return repo, nil
}

// Tracked returns the tracked repositories sorted by name.
func (p *gitrepoPlugin) Tracked() []Repository {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Repository, 0, len(p.tracked))
	for _, repo := range p.tracked {
		out = append(out, repo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (p *gitrepoPlugin) reload(db *database.DB) error {
	rows, err := db.List(TableName)
	if err != nil {
		return err
	}

	tracked := make(map[string]Repository, len(rows))
	for name, raw := range rows {
		var repo Repository
		if err := json.Unmarshal(raw, &repo); err != nil {
			return fmt.Errorf("decode repository %q: %w", name, err)
		}
		tracked[name] = repo
	}

	p.mu.Lock()
	p.tracked = tracked
	p.mu.Unlock()
	return nil
}

func persist(db *database.DB, repo Repository) error {
	raw, err := json.Marshal(repo)
	if err != nil {
		return err
	}
	return db.Put(TableName, repo.Name, raw)
}

// resolveHead opens a local clone and returns the short name of its HEAD. An
// empty repository resolves to an empty head rather than an error.
func resolveHead(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", path, err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve HEAD of %s: %w", path, err)
	}
	return head.Name().Short(), nil
}

func (p *gitrepoPlugin) handleList(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, p.Tracked())
}

func (p *gitrepoPlugin) handleTrack(w http.ResponseWriter, r *http.Request) {
	var repo Repository
	if err := json.NewDecoder(r.Body).Decode(&repo); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	tracked, err := p.Track(repo)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	respond(w, http.StatusCreated, tracked)
}

func (p *gitrepoPlugin) handleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	p.mu.Lock()
	repo, ok := p.tracked[name]
	p.mu.Unlock()

	if !ok {
		respondError(w, http.StatusNotFound, errors.New("repository is not tracked"))
		return
	}
	respond(w, http.StatusOK, repo)
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respond(w, status, map[string]string{"error": err.Error()})
}
