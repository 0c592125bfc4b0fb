// Copyright (c) 2026 n8n Dashboard Team
// n8n Dashboard - workflow template browser and installer
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/altafpasha/n8n-dashboard/internal/blob"
	"github.com/altafpasha/n8n-dashboard/internal/config"
	"github.com/altafpasha/n8n-dashboard/internal/db"
	"github.com/altafpasha/n8n-dashboard/internal/engine"
	"github.com/altafpasha/n8n-dashboard/internal/model"
	"github.com/altafpasha/n8n-dashboard/internal/security"
)

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	mu        sync.Mutex
	host      string
	key       string
	workflows []model.Workflow
	listErr   error
	createID  string
	createErr error
	updateErr error
	created   []engine.CreatePayload
	updated   []engine.UpdatePayload
	listCtx   context.Context
}

func (f *fakeEngine) List(ctx context.Context) ([]model.Workflow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCtx = ctx
	return f.workflows, f.listErr
}

func (f *fakeEngine) Create(ctx context.Context, p engine.CreatePayload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	return f.createID, f.createErr
}

func (f *fakeEngine) Update(ctx context.Context, id string, p engine.UpdatePayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, p)
	return f.updateErr
}

// factoryFor returns an EngineFactory that hands out f and remembers the
// credentials it was called with. It keeps engine.New's not-configured rule.
func factoryFor(f *fakeEngine) EngineFactory {
	return func(host string, key security.Secret) (EngineClient, error) {
		if host == "" || len(key) == 0 {
			return nil, engine.ErrNotConfigured
		}
		f.mu.Lock()
		f.host, f.key = host, key.Reveal()
		f.mu.Unlock()
		return f, nil
	}
}

type fakeTemplates struct {
	refs    []model.TemplateRef
	tpls    []model.Template
	bodies  map[string]string
	listErr error
}

func (f *fakeTemplates) List(ctx context.Context) ([]model.TemplateRef, error) {
	return f.refs, f.listErr
}

func (f *fakeTemplates) ListWithContent(ctx context.Context) ([]model.Template, error) {
	return f.tpls, f.listErr
}

func (f *fakeTemplates) FetchWorkflow(ctx context.Context, url string) (json.RawMessage, error) {
	b, ok := f.bodies[url]
	if !ok {
		return nil, errors.New("failed to fetch workflow: 404")
	}
	return json.RawMessage(b), nil
}

// recordingBlobs wraps a Store and counts writes.
type recordingBlobs struct {
	blob.Store
	puts    []string
	deletes []string
}

func (r *recordingBlobs) Put(ctx context.Context, key string, data []byte) error {
	r.puts = append(r.puts, key)
	return r.Store.Put(ctx, key, data)
}

func (r *recordingBlobs) Delete(ctx context.Context, key string) error {
	r.deletes = append(r.deletes, key)
	return r.Store.Delete(ctx, key)
}

// failingLibrary fails every insert.
type failingLibrary struct {
	db.LibraryStore
}

func (failingLibrary) CreateLibraryEntry(ctx context.Context, e model.LibraryEntry) (model.LibraryEntry, error) {
	return model.LibraryEntry{}, errors.New("insert failed")
}

func newTestStore(t *testing.T) db.Store {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	s, err := db.NewStoreFromDSN("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewStoreFromDSN: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestBlobs(t *testing.T) *recordingBlobs {
	t.Helper()
	fs, err := blob.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore: %v", err)
	}
	return &recordingBlobs{Store: fs}
}

var testNow = time.Date(2026, 4, 5, 6, 7, 8, 0, time.UTC)

type testEnv struct {
	store  db.Store
	blobs  *recordingBlobs
	engine *fakeEngine
	tpls   *fakeTemplates
	svc    *Services
}

func newTestEnv(t *testing.T, fallback config.EngineConfig) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  newTestStore(t),
		blobs:  newTestBlobs(t),
		engine: &fakeEngine{createID: "wf-1"},
		tpls:   &fakeTemplates{bodies: map[string]string{}},
	}
	env.svc = InitializeServices(Deps{
		Store:     env.store,
		Blobs:     env.blobs,
		Templates: env.tpls,
		Engine:    fallback,
		NewEngine: factoryFor(env.engine),
		Clock:     FixedClock{T: testNow},
	})
	return env
}

const sampleWorkflow = `{"name":"Sample","nodes":[{"name":"Hook","type":"n8n-nodes-base.webhook"}],"connections":{"Hook":{}},"settings":{"timezone":"Europe/Berlin","executionOrder":"v1"},"staticData":{"x":1},"tags":[{"id":"1","name":"ops"}],"active":true,"pinData":{}}`
