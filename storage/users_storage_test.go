package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

func TestUsersStorage(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()
	users := s.UsersStorage()

	count, err := users.Count(ctx)
	if err != nil || count != 0 {
		t.Fatalf("expected no users: %d %v", count, err)
	}
	u, err := users.Create(
		ctx, model.User{
			Login: "admin",
			Admin: true,
		}, "secret",
	)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.PasswordHash != "" || !u.Activated {
		t.Fatalf("unexpected created user: %+v", u)
	}
	if _, err = users.Create(ctx, model.User{Login: "admin"}, "other"); err == nil {
		t.Fatalf("expected duplicate login to fail")
	} else {
		var exists model.AlreadyExistsError
		if !errors.As(err, &exists) {
			t.Fatalf("expected AlreadyExistsError, got %v", err)
		}
	}

	if _, err = users.Authenticate(ctx, "admin", "secret"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if _, err = users.Authenticate(ctx, "admin", "wrong"); err == nil {
		t.Fatalf("expected wrong password to fail")
	}

	newPassword := "changed"
	deactivate := false
	if _, err = users.Update(ctx, "admin", model.UserUpdate{Password: &newPassword}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err = users.Authenticate(ctx, "admin", "changed"); err != nil {
		t.Fatalf("authenticate with new password: %v", err)
	}
	if _, err = users.Update(ctx, "admin", model.UserUpdate{Activated: &deactivate}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err = users.Authenticate(ctx, "admin", "changed"); err == nil {
		t.Fatalf("deactivated user must not authenticate")
	}

	if err = users.Delete(ctx, "admin"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	var notFound model.NotFoundError
	if err = users.Delete(ctx, "admin"); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestArgon2idHashFormat(t *testing.T) {
	p := defaultArgon2idParams()
	hash, err := hashPasswordArgon2id("pw", p)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}
	stored, err := extractArgon2idParams(hash)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !argon2idParamsEqual(stored, p) {
		t.Fatalf("params not preserved: %+v != %+v", stored, p)
	}
	ok, err := verifyPasswordArgon2id(hash, "pw")
	if err != nil || !ok {
		t.Fatalf("verify failed: %v", err)
	}
}
