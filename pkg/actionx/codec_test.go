package actionx_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/dmichel1/vigil/pkg/actionx"
	"github.com/dmichel1/vigil/pkg/errx"
	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/templatex"
)

func newFactory() *actionx.Factory {
	return actionx.NewFactory(&fakeService{}, templatex.NewGoEngine())
}

func TestParseExecutable_Full(t *testing.T) {
	doc := map[string]interface{}{
		"account":  "_account",
		"profile":  "standard",
		"user":     "_user",
		"password": "_passwd",
		"from":     "from@domain",
		"priority": "high",
		"to":       "to1@domain,to2@domain",
	}

	executable, err := newFactory().ParseExecutable("watch1", "action1", doc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	action := executable.Action()

	if action.Account != "_account" {
		t.Fatalf("unexpected account %q", action.Account)
	}
	if action.Profile != mailx.ProfileStandard {
		t.Fatalf("unexpected profile %q", action.Profile)
	}
	if action.Auth == nil || action.Auth.User != "_user" {
		t.Fatalf("unexpected auth %+v", action.Auth)
	}
	if action.Auth.Password == nil || action.Auth.Password.Reveal() != "_passwd" {
		t.Fatal("password was not captured")
	}
	if len(action.Email.From) != 1 || action.Email.From[0].Source != "from@domain" {
		t.Fatalf("unexpected from %v", action.Email.From)
	}
	if len(action.Email.To) != 2 {
		t.Fatalf("expected comma-split to, got %v", action.Email.To)
	}
	if action.Email.To[0].Source != "to1@domain" || action.Email.To[1].Source != "to2@domain" {
		t.Fatalf("unexpected to sources %v", action.Email.To)
	}
	if action.Email.Priority == nil || action.Email.Priority.Source != "high" {
		t.Fatalf("unexpected priority %v", action.Email.Priority)
	}
	if action.AttachData != actionx.DataAttachmentNone {
		t.Fatalf("unexpected attach policy %q", action.AttachData)
	}
}

func TestParseExecutable_UnknownFieldFails(t *testing.T) {
	doc := map[string]interface{}{
		"account":       "a",
		"unknown_field": "value",
	}
	_, err := newFactory().ParseExecutable("watch1", "action1", doc)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	var e *errx.Error
	if !errx.As(err, &e) {
		t.Fatalf("expected errx error, got %T", err)
	}
	if e.Details["field"] != "unknown_field" {
		t.Fatalf("error does not name the field: %+v", e.Details)
	}
}

func TestParseExecutable_MissingAccountFails(t *testing.T) {
	doc := map[string]interface{}{
		"to": "to@example.com",
	}
	if _, err := newFactory().ParseExecutable("watch1", "action1", doc); err == nil {
		t.Fatal("expected error for missing account")
	}
}

func TestParseExecutable_PasswordWithoutUserFails(t *testing.T) {
	doc := map[string]interface{}{
		"account":  "a",
		"password": "secret",
	}
	if _, err := newFactory().ParseExecutable("watch1", "action1", doc); err == nil {
		t.Fatal("expected error for password without user")
	}
}

func TestParseExecutable_UserWithoutPassword(t *testing.T) {
	// A redacted document keeps the user and drops the password; it must
	// still parse.
	doc := map[string]interface{}{
		"account": "a",
		"user":    "_user",
	}
	executable, err := newFactory().ParseExecutable("watch1", "action1", doc)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	auth := executable.Action().Auth
	if auth == nil || auth.User != "_user" || auth.Password != nil {
		t.Fatalf("unexpected auth %+v", auth)
	}
}

func TestParseExecutable_InvalidValues(t *testing.T) {
	cases := map[string]map[string]interface{}{
		"bad profile":       {"account": "a", "profile": "thunderbird"},
		"bad priority":      {"account": "a", "priority": "urgent"},
		"upcased priority":  {"account": "a", "priority": "HIGH"},
		"bad attach policy": {"account": "a", "attach_data": "xml"},
		"bad address":       {"account": "a", "to": "not an address"},
		"numeric subject":   {"account": "a", "subject": 42},
		"bad body key":      {"account": "a", "body": map[string]interface{}{"markdown": "x"}},
		"bad sanitize":      {"account": "a", "body": map[string]interface{}{"html": map[string]interface{}{"source": "<p>x</p>", "sanitize": "yes"}}},
	}
	factory := newFactory()
	for name, doc := range cases {
		if _, err := factory.ParseExecutable("watch1", "action1", doc); err == nil {
			t.Fatalf("%s: expected parse error", name)
		}
	}
}

func TestParseExecutable_AttachDataForms(t *testing.T) {
	factory := newFactory()

	for value, want := range map[interface{}]actionx.DataAttachment{
		true:   actionx.DataAttachmentJSON,
		false:  actionx.DataAttachmentNone,
		"json": actionx.DataAttachmentJSON,
		"yaml": actionx.DataAttachmentYAML,
	} {
		executable, err := factory.ParseExecutable("w", "a", map[string]interface{}{
			"account":     "a",
			"attach_data": value,
		})
		if err != nil {
			t.Fatalf("attach_data=%v: %v", value, err)
		}
		if got := executable.Action().AttachData; got != want {
			t.Fatalf("attach_data=%v: expected %q, got %q", value, want, got)
		}
	}
}

func TestParseExecutable_BodyForms(t *testing.T) {
	factory := newFactory()

	// Scalar body is the text body.
	executable, err := factory.ParseExecutable("w", "a", map[string]interface{}{
		"account": "a",
		"body":    "plain text",
	})
	if err != nil {
		t.Fatalf("scalar body: %v", err)
	}
	action := executable.Action()
	if action.Email.TextBody == nil || action.Email.TextBody.Source != "plain text" {
		t.Fatalf("unexpected text body %v", action.Email.TextBody)
	}
	if action.Email.HTMLBody != nil {
		t.Fatal("scalar body must not set html")
	}

	// Object body with scalar html defaults to sanitized.
	executable, err = factory.ParseExecutable("w", "a", map[string]interface{}{
		"account": "a",
		"body": map[string]interface{}{
			"text": "text part",
			"html": "<p>html part</p>",
		},
	})
	if err != nil {
		t.Fatalf("object body: %v", err)
	}
	action = executable.Action()
	if action.Email.HTMLBody == nil || !action.Email.SanitizeHTML {
		t.Fatalf("expected sanitized html body, got %+v", action.Email)
	}

	// Explicit sanitize flag survives.
	executable, err = factory.ParseExecutable("w", "a", map[string]interface{}{
		"account": "a",
		"body": map[string]interface{}{
			"html": map[string]interface{}{"source": "<p>raw</p>", "sanitize": false},
		},
	})
	if err != nil {
		t.Fatalf("html object body: %v", err)
	}
	if executable.Action().Email.SanitizeHTML {
		t.Fatal("explicit sanitize=false was lost")
	}
}

func TestDocument_HideSecrets(t *testing.T) {
	executable, err := newFactory().ParseExecutable("w", "a", map[string]interface{}{
		"account":  "_account",
		"user":     "_user",
		"password": "_passwd",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	doc := executable.Document(actionx.SerializeParams{HideSecrets: true})
	if _, ok := doc["password"]; ok {
		t.Fatal("redacted document carries the password")
	}
	if doc["user"] != "_user" {
		t.Fatal("redaction must keep the user")
	}

	doc = executable.Document(actionx.SerializeParams{})
	if doc["password"] != "_passwd" {
		t.Fatal("unredacted document must carry the password")
	}
}

// randomDocument builds a valid action document with a random subset of
// fields present.
func randomDocument(rng *rand.Rand) map[string]interface{} {
	doc := map[string]interface{}{"account": "account1"}

	if rng.Intn(2) == 0 {
		doc["profile"] = "outlook"
	}
	if rng.Intn(2) == 0 {
		doc["user"] = "_user"
		if rng.Intn(2) == 0 {
			doc["password"] = "_passwd"
		}
	}
	if rng.Intn(2) == 0 {
		doc["from"] = "from@example.com"
	}
	if rng.Intn(2) == 0 {
		doc["to"] = "to1@example.com,to2@example.com"
	}
	if rng.Intn(2) == 0 {
		doc["cc"] = []interface{}{"cc1@example.com", "cc2@example.com"}
	}
	if rng.Intn(2) == 0 {
		doc["bcc"] = "bcc@example.com"
	}
	if rng.Intn(2) == 0 {
		doc["reply_to"] = "reply@example.com"
	}
	if rng.Intn(2) == 0 {
		doc["priority"] = "low"
	}
	if rng.Intn(2) == 0 {
		doc["attach_data"] = "yaml"
	}
	if rng.Intn(2) == 0 {
		doc["subject"] = "{{.ctx.watch_id}} fired"
	}
	if rng.Intn(2) == 0 {
		body := map[string]interface{}{"text": "text body"}
		switch rng.Intn(3) {
		case 0:
			body["html"] = "<p>html body</p>"
		case 1:
			body["html"] = map[string]interface{}{"source": "<p>raw</p>", "sanitize": false}
		}
		doc["body"] = body
	}
	return doc
}

func TestDocument_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	factory := newFactory()

	for i := 0; i < 25; i++ {
		doc := randomDocument(rng)

		parsed, err := factory.ParseExecutable("w", "a", doc)
		if err != nil {
			t.Fatalf("iteration %d: parse failed: %v", i, err)
		}

		reparsed, err := factory.ParseExecutable("w", "a", parsed.Document(actionx.SerializeParams{}))
		if err != nil {
			t.Fatalf("iteration %d: reparse failed: %v", i, err)
		}
		if !parsed.Equal(reparsed) {
			t.Fatalf("iteration %d: round trip changed the action\nfirst:  %+v\nsecond: %+v",
				i, parsed.Action(), reparsed.Action())
		}
	}
}

func TestDocument_RoundTripThroughJSON(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	factory := newFactory()

	for i := 0; i < 25; i++ {
		parsed, err := factory.ParseExecutable("w", "a", randomDocument(rng))
		if err != nil {
			t.Fatalf("iteration %d: parse failed: %v", i, err)
		}

		data, err := parsed.Action().DocumentJSON(actionx.SerializeParams{})
		if err != nil {
			t.Fatalf("iteration %d: marshal failed: %v", i, err)
		}
		reparsed, err := factory.ParseExecutableJSON("w", "a", data)
		if err != nil {
			t.Fatalf("iteration %d: reparse failed: %v\n%s", i, err, data)
		}
		if !parsed.Equal(reparsed) {
			t.Fatalf("iteration %d: JSON round trip changed the action", i)
		}
	}
}

func TestDocument_RedactedRoundTrip(t *testing.T) {
	factory := newFactory()
	parsed, err := factory.ParseExecutable("w", "a", map[string]interface{}{
		"account":  "account1",
		"user":     "_user",
		"password": "_passwd",
		"to":       "to@example.com",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	reparsed, err := factory.ParseExecutable("w", "a", parsed.Document(actionx.SerializeParams{HideSecrets: true}))
	if err != nil {
		t.Fatalf("redacted document failed to reparse: %v", err)
	}
	auth := reparsed.Action().Auth
	if auth == nil || auth.User != "_user" {
		t.Fatal("redacted round trip lost the user")
	}
	if auth.Password != nil {
		t.Fatal("redacted round trip must not resurrect the password")
	}
}

func TestParseExecutableJSON_Invalid(t *testing.T) {
	if _, err := newFactory().ParseExecutableJSON("w", "a", []byte("{not json")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
	if _, err := newFactory().ParseExecutableJSON("w", "a", []byte(`{"account":"a","nope":1}`)); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestDocument_MultiAddressShape(t *testing.T) {
	factory := newFactory()
	parsed, err := factory.ParseExecutable("w", "a", map[string]interface{}{
		"account": "account1",
		"to":      "to1@example.com,to2@example.com",
		"cc":      "only@example.com",
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	doc := parsed.Document(actionx.SerializeParams{})
	if _, ok := doc["to"].([]interface{}); !ok {
		t.Fatalf("expected array for multiple to addresses, got %T", doc["to"])
	}
	if _, ok := doc["cc"].(string); !ok {
		t.Fatalf("expected scalar for single cc address, got %T", doc["cc"])
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	reparsed, err := factory.ParseExecutableJSON("w", "a", data)
	if err != nil {
		t.Fatalf("reparse failed: %v", err)
	}
	if !parsed.Equal(reparsed) {
		t.Fatal("address shape changed the action")
	}
}
