package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/base-angewandte/baseauth/pkg/concepts"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/skosmos/skosmostest"
)

func writeConfig(t *testing.T, apiBase string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "baseauth.yaml")
	content := "log_mode: production\n" +
		"skosmos:\n  api_base: " + apiBase + "\n" +
		"cache:\n  backend: sqlite\n  path: " + filepath.Join(t.TempDir(), "cache.db") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLookupCommand(t *testing.T) {
	fake := skosmostest.NewServer()
	defer fake.Close()
	fake.AddGraph("", concepts.BaseKeywordsCollection.URI,
		skosmostest.Concept("http://base.uni-ak.ac.at/recherche/keywords/k1", "en", "Ceramics"),
		skosmostest.Concept("http://base.uni-ak.ac.at/recherche/keywords/k2", "en", "Animation"),
	)
	cfgPath := writeConfig(t, fake.Config().APIBase)

	out, err := run(t, "lookup", "expertise", "-c", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	var records []models.ConceptRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(records) != 2 || records[0].Label["en"] != "Animation" {
		t.Errorf("unexpected records: %+v", records)
	}

	out, err = run(t, "lookup", "expertise", "cera", "-c", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Ceramics") || strings.Contains(out, "Animation") {
		t.Errorf("unexpected search output: %s", out)
	}

	if _, err := run(t, "lookup", "nope", "-c", cfgPath); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLabelCommand(t *testing.T) {
	fake := skosmostest.NewServer()
	defer fake.Close()
	cfg := fake.Config()
	fake.AddGraph(cfg.VocID, cfg.VocGraph+"author", skosmostest.Concept(cfg.VocGraph+"author", "de", "Autor*in"))
	cfgPath := writeConfig(t, cfg.APIBase)

	out, err := run(t, "label", "author", "--lang", "en", "-c", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "Autor*in" {
		t.Errorf("unexpected label output: %q", out)
	}

	if _, err := run(t, "label", "author", "--kind", "bogus", "-c", cfgPath); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestCacheCommands(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1/rest/v1/")

	out, err := run(t, "cache", "stats", "-c", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Backend: sqlite") || !strings.Contains(out, "Entries: 0") {
		t.Errorf("unexpected stats output: %s", out)
	}

	out, err = run(t, "cache", "clear", "--expired", "-c", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Expired") {
		t.Errorf("unexpected clear output: %s", out)
	}
}

func TestShowroomDisabled(t *testing.T) {
	cfgPath := writeConfig(t, "http://127.0.0.1:1/rest/v1/")
	data := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(data, []byte(`{"name":"Jane"}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := run(t, "showroom", "push", "jdoe", "--data", data, "-c", cfgPath)
	if err == nil || !strings.Contains(err.Error(), "disabled") {
		t.Errorf("expected disabled error, got %v", err)
	}
}
