package restapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/relaxedbase/relaxedbase/storage"
)

const (
	alertHeaderName  = "X-relaxedbaseApp-alert"
	paramsHeaderName = "X-relaxedbaseApp-params"
	errorHeaderName  = "X-relaxedbaseApp-error"
)

type testEnv struct {
	app     *fiber.App
	storage *storage.Storage
}

func newTestEnv(t *testing.T, opts *Options) *testEnv {
	t.Helper()
	s, err := storage.NewStorage(
		storage.Config{
			Driver:  storage.DriverSQLite,
			DataDir: t.TempDir(),
			UsersHash: storage.Argon2idParams{
				Time:        1,
				MemoryKiB:   8 * 1024,
				Parallelism: 1,
				KeyLen:      32,
				SaltLen:     16,
			},
		},
	)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(opts.appName())})
	app.Use(recover.New())
	if err = Register(app.Group("/api"), s.Backends(), opts); err != nil {
		t.Fatalf("Register: %v", err)
	}
	RegisterManagement(app.Group("/management"), s.Backends(), opts)
	return &testEnv{
		app:     app,
		storage: s,
	}
}

type response struct {
	*http.Response
	body []byte
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.body, v); err != nil {
		t.Fatalf("decode %q: %v", r.body, err)
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, headers ...string) response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			reader = bytes.NewBuffer(data)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	_ = resp.Body.Close()
	return response{
		Response: resp,
		body:     data,
	}
}

func basicAuth(login, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(login+":"+password))
}

func testTokens() *TokenIssuer {
	return NewTokenIssuer(bytes.Repeat([]byte("s"), 64), time.Hour, 24*time.Hour)
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
