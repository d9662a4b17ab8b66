package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/relaxedbase/relaxedbase"
	"github.com/relaxedbase/relaxedbase/api/restapi"
	"github.com/relaxedbase/relaxedbase/client"
	"github.com/relaxedbase/relaxedbase/storage"
)

var testHash = storage.Argon2idParams{
	Time:        1,
	MemoryKiB:   8 * 1024,
	Parallelism: 1,
	KeyLen:      32,
	SaltLen:     16,
}

func startServer(t *testing.T, dataDir string, api *restapi.Options) string {
	t.Helper()
	s, err := storage.NewStorage(
		storage.Config{
			Driver:    storage.DriverSQLite,
			DataDir:   dataDir,
			UsersHash: testHash,
		},
	)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	server, err := relaxedbase.NewServer(relaxedbase.ServerConf{}, s.Backends(), relaxedbase.ServerOptions{API: api})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(server.HttpHandlerFunc())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestEntityCommands(t *testing.T) {
	url := startServer(t, t.TempDir(), nil)

	out, err := run(t, "", "employees", "create", "firstName=Ada", "team=Core", "-s", url, "-o", "json")
	if err != nil {
		t.Fatalf("create employee: %v\n%s", err, out)
	}
	var ada struct {
		ID int64 `json:"id"`
	}
	if err = json.Unmarshal([]byte(out), &ada); err != nil || ada.ID == 0 {
		t.Fatalf("unexpected output %q: %v", out, err)
	}

	out, err = run(
		t, "", "events", "create", "title=Retro", fmt.Sprintf("host=%d", ada.ID), "startDate=2024-05-01T10:00",
		"-s", url, "-o", "json",
	)
	if err != nil {
		t.Fatalf("create event: %v\n%s", err, out)
	}
	var event struct {
		ID   int64 `json:"id"`
		Host struct {
			ID int64 `json:"id"`
		} `json:"host"`
	}
	if err = json.Unmarshal([]byte(out), &event); err != nil || event.Host.ID != ada.ID {
		t.Fatalf("unexpected output %q: %v", out, err)
	}

	out, err = run(t, "", "events", "list", "--sort", "title,asc", "-s", url, "-o", "table")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Retro") || !strings.Contains(out, "page 1 of 1, 1 records (page=1&sort=title,asc)") {
		t.Fatalf("unexpected listing:\n%s", out)
	}

	id := fmt.Sprint(event.ID)
	if out, err = run(t, "", "events", "update", id, "title=Planning", "-s", url, "-o", "yaml"); err != nil {
		t.Fatalf("update: %v\n%s", err, out)
	}
	out, err = run(t, "", "events", "get", id, "-s", url, "-o", "yaml")
	if err != nil || !strings.Contains(out, "title: Planning") {
		t.Fatalf("get: %v\n%s", err, out)
	}

	if out, err = run(t, "n\n", "events", "delete", id, "-s", url, "-o", "yaml"); err != nil || strings.Contains(out, "deleted") {
		t.Fatalf("declined delete must keep the record: %v\n%s", err, out)
	}
	if out, err = run(t, "y\n", "events", "delete", id, "-s", url); err != nil || !strings.Contains(out, "deleted "+id) {
		t.Fatalf("delete: %v\n%s", err, out)
	}
	if _, err = run(t, "", "events", "get", id, "-s", url); !client.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	if _, err = run(t, "", "events", "create", "color=blue", "-s", url); err == nil {
		t.Fatalf("expected unknown field to fail")
	}
}

func TestUsersAddClosesOpenAPI(t *testing.T) {
	tests := []struct {
		name string
		api  *restapi.Options
	}{
		{name: "basic auth only", api: nil},
		{
			name: "token login",
			api: &restapi.Options{
				UsersEnabled: true,
				Tokens:       restapi.NewTokenIssuer(bytes.Repeat([]byte("k"), 64), time.Hour, 24*time.Hour),
			},
		},
	}
	for _, test := range tests {
		t.Run(
			test.name, func(t *testing.T) {
				usersAddClosesOpenAPI(t, test.api)
			},
		)
	}
}

func usersAddClosesOpenAPI(t *testing.T, api *restapi.Options) {
	dir := t.TempDir()
	url := startServer(t, dir, api)
	conf := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(
		conf, []byte(fmt.Sprintf(
			`storage:
  driver: sqlite
  data_dir: %s
api:
  password_hashing:
    time: 1
    memory_kib: 8192
    parallelism: 1
    key_len: 32
    salt_len: 16
`, dir,
		)), 0o600,
	)
	if err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err = run(t, "", "employees", "list", "-s", url, "-u", "", "-p", ""); err != nil {
		t.Fatalf("expected open API: %v", err)
	}

	out, err := run(t, "", "users", "add", "bob", "--admin", "-p", "secret", "-c", conf)
	if err != nil || !strings.Contains(out, "added bob") {
		t.Fatalf("users add: %v\n%s", err, out)
	}
	if out, err = run(t, "", "users", "list", "-c", conf); err != nil || !strings.Contains(out, "bob") {
		t.Fatalf("users list: %v\n%s", err, out)
	}

	if _, err = run(t, "", "employees", "list", "-s", url, "-u", "", "-p", ""); err == nil {
		t.Fatalf("expected credentials to be required")
	}
	if _, err = run(t, "", "employees", "list", "-s", url, "-u", "bob", "-p", "secret"); err != nil {
		t.Fatalf("authenticated list: %v", err)
	}
	if _, err = run(t, "", "employees", "list", "-s", url, "-u", "bob", "-p", "wrong"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}
}
