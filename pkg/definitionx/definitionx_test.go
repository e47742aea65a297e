package definitionx_test

import (
	"context"
	"testing"

	"github.com/dmichel1/vigil/pkg/actionx"
	"github.com/dmichel1/vigil/pkg/definitionx"
	"github.com/dmichel1/vigil/pkg/fsx/fsxlocal"
	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/templatex"
)

type nullService struct{}

func (nullService) Send(ctx context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile) (*mailx.Sent, error) {
	return &mailx.Sent{Email: email}, nil
}

func (nullService) SendAs(ctx context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile, account string) (*mailx.Sent, error) {
	return &mailx.Sent{Account: account, Email: email}, nil
}

func newFactory() *actionx.Factory {
	return actionx.NewFactory(nullService{}, templatex.NewGoEngine())
}

func writeDefinitions(t *testing.T, files map[string]string) *fsxlocal.LocalFileSystem {
	t.Helper()
	fs, err := fsxlocal.NewLocalFileSystem(t.TempDir())
	if err != nil {
		t.Fatalf("filesystem: %v", err)
	}
	ctx := context.Background()
	for name, body := range files {
		if err := fs.WriteFile(ctx, "definitions/"+name, []byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return fs
}

func TestLoadDirectory(t *testing.T) {
	fs := writeDefinitions(t, map[string]string{
		"watch1.email_admin.json": `{"account":"ops","to":"admin@example.com"}`,
		"watch1.email_oncall.json": `{"account":"ops","to":"oncall@example.com",` +
			`"subject":"{{.ctx.watch_id}} fired"}`,
		"watch2.email_admin.json": `{"account":"ops","to":"admin@example.com"}`,
		"notes.txt":               "not a definition",
	})

	defs, err := definitionx.LoadDirectory(context.Background(), fs, "definitions", newFactory())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(defs) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(defs))
	}

	registry := definitionx.NewRegistry(defs)
	if registry.Get("watch1", "email_admin") == nil {
		t.Fatal("expected watch1/email_admin")
	}
	if registry.Get("watch1", "missing") != nil {
		t.Fatal("expected nil for unknown action")
	}
	if len(registry.Actions("watch1")) != 2 {
		t.Fatalf("expected 2 actions for watch1, got %d", len(registry.Actions("watch1")))
	}
	if len(registry.Actions("watch3")) != 0 {
		t.Fatal("expected no actions for unknown watch")
	}
}

func TestLoadDirectory_BadDocumentFailsLoad(t *testing.T) {
	fs := writeDefinitions(t, map[string]string{
		"watch1.good.json": `{"account":"ops"}`,
		"watch1.bad.json":  `{"account":"ops","unknown_field":1}`,
	})

	if _, err := definitionx.LoadDirectory(context.Background(), fs, "definitions", newFactory()); err == nil {
		t.Fatal("expected load to fail on the broken definition")
	}
}

func TestLoadDirectory_BadFileName(t *testing.T) {
	fs := writeDefinitions(t, map[string]string{
		"noseparator.json": `{"account":"ops"}`,
	})

	if _, err := definitionx.LoadDirectory(context.Background(), fs, "definitions", newFactory()); err == nil {
		t.Fatal("expected error for file name without action id")
	}
}

func TestRegistry_AddReplaces(t *testing.T) {
	factory := newFactory()
	first, err := factory.ParseExecutableJSON("w", "a", []byte(`{"account":"one"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	second, err := factory.ParseExecutableJSON("w", "a", []byte(`{"account":"two"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	registry := definitionx.NewRegistry(nil)
	registry.Add(definitionx.Definition{WatchID: "w", ActionID: "a", Executable: first})
	registry.Add(definitionx.Definition{WatchID: "w", ActionID: "a", Executable: second})

	if got := registry.Get("w", "a"); got.Action().Account != "two" {
		t.Fatalf("expected replacement, got account %q", got.Action().Account)
	}
}
