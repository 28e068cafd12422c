package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/scholar/internal/history"
)

var _ history.KV = (*KVRepo)(nil)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{kvTable, llmEventTable} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
	}

	var idx string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name=?", "llm_request_events_purpose",
	).Scan(&idx)
	if err != nil {
		t.Fatalf("purpose index missing: %v", err)
	}
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.KVRepo().Put(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, ok, err := s.KVRepo().Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("get after reopen: ok=%v err=%v", ok, err)
	}
	if string(got) != "v1" {
		t.Errorf("value = %q, want v1", got)
	}
}

func TestTables_FromEntSchema(t *testing.T) {
	tables, err := Tables()
	if err != nil {
		t.Fatalf("Tables: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}

	kv := tables[0]
	if len(kv.PrimaryKey) != 1 || kv.PrimaryKey[0].Name != "key" {
		t.Errorf("kv primary key = %+v, want [key]", kv.PrimaryKey)
	}

	ev := tables[1]
	if len(ev.PrimaryKey) != 1 || ev.PrimaryKey[0].Name != "id" || !ev.PrimaryKey[0].Increment {
		t.Errorf("event primary key should be auto-increment id")
	}
	want := map[string]bool{}
	for _, c := range llmEventColumns {
		want[c] = true
	}
	for _, c := range ev.Columns {
		delete(want, c.Name)
	}
	if len(want) != 0 {
		t.Errorf("event table missing columns: %v", want)
	}
}

func TestKVRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.KVRepo()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, history.DefaultKey)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if ok {
		t.Fatal("expected missing key")
	}

	if err := repo.Put(ctx, history.DefaultKey, []byte(`[1]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, history.DefaultKey, []byte(`[1,2]`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := repo.Get(ctx, history.DefaultKey)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `[1,2]` {
		t.Errorf("value = %s, want [1,2]", got)
	}

	if err := repo.Delete(ctx, history.DefaultKey); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, history.DefaultKey); ok {
		t.Error("expected key to be deleted")
	}
}

func TestKVRepo_HistoryStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	hs := history.NewStore(s.KVRepo())

	results := []history.Result{
		{ID: "a", Score: 6, Total: 20, Topic: "The Living World", MissedTopics: []string{"x..."}, Timestamp: 1},
		{ID: "b", Score: 20, Total: 20, Topic: "Units and Measurement", MissedTopics: []string{}, Timestamp: 2},
	}
	for _, r := range results {
		if err := hs.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	got, err := hs.LoadAll(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("LoadAll = %+v", got)
	}
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-3-flash-preview", Purpose: "notes", InputTokens: 100, OutputTokens: 400, LatencyMs: 800, Success: true, RequestBody: "[user]\nEvolution", ResponseBody: `{"topic":"Evolution"}`},
		{Provider: "gemini", Model: "gemini-3-pro-preview", Purpose: "quiz", InputTokens: 200, OutputTokens: 900, LatencyMs: 2000, Success: true},
		{Provider: "gemini", Model: "gemini-3-pro-preview", Purpose: "quiz", InputTokens: 50, LatencyMs: 1000, Success: false, ErrorMessage: "rate limited"},
	}
	before := time.Now().Add(-time.Second)
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	if all[0].ID <= all[2].ID {
		t.Error("events should be newest first")
	}
	if all[2].Timestamp.Before(before) {
		t.Errorf("timestamp %v too early", all[2].Timestamp)
	}

	quiz, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "quiz", Limit: 1})
	if err != nil {
		t.Fatalf("query quiz: %v", err)
	}
	if len(quiz) != 1 || quiz[0].Success {
		t.Errorf("expected the most recent failed quiz event, got %+v", quiz)
	}
	if quiz[0].ErrorMessage != "rate limited" {
		t.Errorf("error message = %q", quiz[0].ErrorMessage)
	}

	e, err := repo.GetLLMEvent(ctx, all[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.ResponseBody != `{"topic":"Evolution"}` || e.RequestBody == "" {
		t.Errorf("GetLLMEvent = %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing event")
	}
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "gemini", Model: "flash", Purpose: "notes", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "gemini", Model: "pro", Purpose: "quiz", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "gemini", Model: "pro", Purpose: "quiz", InputTokens: 50, OutputTokens: 60, LatencyMs: 500, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	q := byPurpose[1]
	if q.Purpose != "quiz" || q.Calls != 2 || q.InputTokens != 80 || q.OutputTokens != 100 || q.AvgLatencyMs != 400 {
		t.Errorf("quiz usage = %+v", q)
	}

	byModel, err := repo.LLMUsageByPurposeModel(ctx)
	if err != nil {
		t.Fatalf("usage by purpose and model: %v", err)
	}
	if len(byModel) != 2 {
		t.Fatalf("got %d rows, want 2: %+v", len(byModel), byModel)
	}
	if byModel[0].Purpose != "notes" || byModel[0].Model != "flash" {
		t.Errorf("first row = %+v", byModel[0])
	}
	if byModel[1].Purpose != "quiz" || byModel[1].Calls != 2 || byModel[1].InputTokens != 80 {
		t.Errorf("quiz row = %+v", byModel[1])
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(dir, "custom", "x.db")
		t.Setenv("SCHOLAR_DB", want)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})

	t.Run("xdg", func(t *testing.T) {
		t.Setenv("SCHOLAR_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		if err != nil {
			t.Fatalf("DefaultDBPath: %v", err)
		}
		if want := filepath.Join(dir, "scholar", "scholar.db"); got != want {
			t.Errorf("path = %q, want %q", got, want)
		}
	})
}
