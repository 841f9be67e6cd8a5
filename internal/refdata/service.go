// Package refdata manages the two small reference lists behind the settings
// screen: homes and note (bikou) templates. Lists are cached locally with a
// short TTL; every mutation invalidates the cache.
package refdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/himawari-care/shiftboard/internal/session"
)

// CacheTTL matches the five-minute freshness window of the original screen.
const CacheTTL = 5 * time.Minute

// Home is a facility/unit a staff member or shift belongs to.
type Home struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Template is a reusable note snippet.
type Template struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Gateway is the slice of the upstream client the service needs.
type Gateway interface {
	Get(ctx context.Context, endpoint string, params url.Values, out interface{}) error
	Post(ctx context.Context, endpoint string, body, out interface{}) error
	Put(ctx context.Context, endpoint string, body, out interface{}) error
	Delete(ctx context.Context, endpoint string, out interface{}) error
}

type Service struct {
	api     Gateway
	storage session.Storage
	logger  *zap.Logger
	ttl     time.Duration
}

func NewService(api Gateway, storage session.Storage, logger *zap.Logger) *Service {
	return &Service{api: api, storage: storage, logger: logger, ttl: CacheTTL}
}

// ---- Homes ----

type homesResponse struct {
	Success bool   `json:"success"`
	Homes   []Home `json:"homes"`
	Error   string `json:"error"`
}

// Homes lists homes, cache-first unless force is set.
func (s *Service) Homes(ctx context.Context, force bool) ([]Home, error) {
	if !force {
		var cached []Home
		if s.readCache(ctx, session.KeyHomes, &cached) {
			return cached, nil
		}
	}
	var resp homesResponse
	if err := s.api.Get(ctx, "/api/homes", nil, &resp); err != nil {
		return nil, fmt.Errorf("list homes: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("list homes rejected: %s", resp.Error)
	}
	s.writeCache(ctx, session.KeyHomes, resp.Homes)
	return resp.Homes, nil
}

// AddHome creates a home. Names are single short identifiers, uppercased.
func (s *Service) AddHome(ctx context.Context, name string) error {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("home name is required")
	}
	var resp struct {
		Success bool   `json:"success"`
		HomeID  string `json:"home_id"`
		Error   string `json:"error"`
	}
	if err := s.api.Post(ctx, "/api/homes", map[string]string{"name": name}, &resp); err != nil {
		return fmt.Errorf("add home: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("add home rejected: %s", resp.Error)
	}
	s.invalidate(ctx, session.KeyHomes)
	s.logger.Info("🏠 home added", zap.String("name", name), zap.String("id", resp.HomeID))
	return nil
}

// DeleteHome removes a home by id.
func (s *Service) DeleteHome(ctx context.Context, id string) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := s.api.Delete(ctx, "/api/homes/"+id, &resp); err != nil {
		return fmt.Errorf("delete home: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("delete home rejected: %s", resp.Error)
	}
	s.invalidate(ctx, session.KeyHomes)
	return nil
}

// RenameHome renames by creating the new name and deleting the old entry;
// the backend has no in-place rename. If the delete step fails after the
// create succeeded, both entries remain: that duplicate is logged as a
// warning and deliberately not recovered.
func (s *Service) RenameHome(ctx context.Context, id, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("home name is required")
	}
	if err := s.AddHome(ctx, newName); err != nil {
		return fmt.Errorf("rename home, create step: %w", err)
	}
	if err := s.DeleteHome(ctx, id); err != nil {
		s.logger.Warn("⚠️ rename left a duplicate home: old entry could not be deleted",
			zap.String("old_id", id), zap.String("new_name", newName), zap.Error(err))
	}
	s.invalidate(ctx, session.KeyHomes)
	return nil
}

// ---- Note templates ----

type templatesResponse struct {
	Success   bool       `json:"success"`
	Templates []Template `json:"templates"`
	Error     string     `json:"error"`
}

// Templates lists note templates, cache-first unless force is set.
func (s *Service) Templates(ctx context.Context, force bool) ([]Template, error) {
	if !force {
		var cached []Template
		if s.readCache(ctx, session.KeyTemplates, &cached) {
			return cached, nil
		}
	}
	var resp templatesResponse
	if err := s.api.Get(ctx, "/api/bikou-templates", nil, &resp); err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("list templates rejected: %s", resp.Error)
	}
	s.writeCache(ctx, session.KeyTemplates, resp.Templates)
	return resp.Templates, nil
}

// AddTemplate creates a template; id may be empty to let the backend assign.
func (s *Service) AddTemplate(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("template text is required")
	}
	body := map[string]string{"text": text}
	if id != "" {
		body["id"] = id
	}
	var resp struct {
		Success    bool   `json:"success"`
		TemplateID string `json:"template_id"`
		Error      string `json:"error"`
	}
	if err := s.api.Post(ctx, "/api/bikou-templates", body, &resp); err != nil {
		return fmt.Errorf("add template: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("add template rejected: %s", resp.Error)
	}
	s.invalidate(ctx, session.KeyTemplates)
	return nil
}

// UpdateTemplate edits template text in place.
func (s *Service) UpdateTemplate(ctx context.Context, id, text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("template text is required")
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := s.api.Put(ctx, "/api/bikou-templates/"+id, map[string]string{"text": text}, &resp); err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("update template rejected: %s", resp.Error)
	}
	s.invalidate(ctx, session.KeyTemplates)
	return nil
}

// DeleteTemplate removes a template by id.
func (s *Service) DeleteTemplate(ctx context.Context, id string) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := s.api.Delete(ctx, "/api/bikou-templates/"+id, &resp); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("delete template rejected: %s", resp.Error)
	}
	s.invalidate(ctx, session.KeyTemplates)
	return nil
}

// RenameTemplate gives a template a new id: copy the text under the new id,
// then delete the old entry. Same duplicate-on-partial-failure behavior as
// RenameHome.
func (s *Service) RenameTemplate(ctx context.Context, oldID, newID string) error {
	if strings.TrimSpace(newID) == "" {
		return fmt.Errorf("template id is required")
	}
	templates, err := s.Templates(ctx, true)
	if err != nil {
		return fmt.Errorf("rename template, fetch step: %w", err)
	}
	var old *Template
	for i := range templates {
		if templates[i].ID == oldID {
			old = &templates[i]
			break
		}
	}
	if old == nil {
		return fmt.Errorf("template %q not found", oldID)
	}
	if err := s.AddTemplate(ctx, newID, old.Text); err != nil {
		return fmt.Errorf("rename template, create step: %w", err)
	}
	if err := s.DeleteTemplate(ctx, oldID); err != nil {
		s.logger.Warn("⚠️ rename left a duplicate template: old entry could not be deleted",
			zap.String("old_id", oldID), zap.String("new_id", newID), zap.Error(err))
	}
	s.invalidate(ctx, session.KeyTemplates)
	return nil
}

// ---- Bootstrap ----

var initialHomes = []string{"A", "B", "C", "D", "E"}

var initialTemplates = []Template{
	{ID: "備考1", Text: "備考テンプレート1"},
	{ID: "備考2", Text: "備考テンプレート2"},
	{ID: "備考3", Text: "備考テンプレート3"},
	{ID: "備考4", Text: "備考テンプレート4"},
	{ID: "備考5", Text: "備考テンプレート5"},
}

// EnsureInitialData idempotently seeds the default homes and templates,
// creating only the entries whose names/ids are missing.
func (s *Service) EnsureInitialData(ctx context.Context) error {
	s.logger.Info("📋 checking initial reference data")

	homes, err := s.Homes(ctx, true)
	if err != nil {
		return fmt.Errorf("ensure initial data: %w", err)
	}
	existingHomes := make(map[string]bool, len(homes))
	for _, h := range homes {
		existingHomes[h.Name] = true
	}
	for _, name := range initialHomes {
		if existingHomes[name] {
			continue
		}
		if err := s.AddHome(ctx, name); err != nil {
			s.logger.Warn("seed home failed", zap.String("name", name), zap.Error(err))
		}
	}

	templates, err := s.Templates(ctx, true)
	if err != nil {
		return fmt.Errorf("ensure initial data: %w", err)
	}
	existingTemplates := make(map[string]bool, len(templates))
	for _, t := range templates {
		existingTemplates[t.ID] = true
	}
	for _, tmpl := range initialTemplates {
		if existingTemplates[tmpl.ID] {
			continue
		}
		if err := s.AddTemplate(ctx, tmpl.ID, tmpl.Text); err != nil {
			s.logger.Warn("seed template failed", zap.String("id", tmpl.ID), zap.Error(err))
		}
	}

	s.logger.Info("✅ initial reference data ensured")
	return nil
}

// ---- Cache plumbing ----

func (s *Service) readCache(ctx context.Context, key string, out interface{}) bool {
	data, ok, err := s.storage.Get(ctx, key)
	if err != nil || !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("cache entry unreadable, dropping", zap.String("key", key), zap.Error(err))
		s.invalidate(ctx, key)
		return false
	}
	return true
}

func (s *Service) writeCache(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.storage.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.storage.Delete(ctx, keys...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}
