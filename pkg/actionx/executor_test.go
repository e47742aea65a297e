package actionx_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/dmichel1/vigil/pkg/actionx"
	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/templatex"
	"github.com/dmichel1/vigil/pkg/watchx"
)

// fakeService captures the dispatched email so tests can inspect exactly
// what execution produced.
type fakeService struct {
	email   *mailx.Email
	auth    *mailx.Authentication
	profile mailx.Profile
	account string
	viaSend bool
	err     error
}

func (f *fakeService) Send(ctx context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile) (*mailx.Sent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.email = &email
	f.auth = auth
	f.profile = profile
	f.viaSend = true
	return &mailx.Sent{Account: "credentialed", Email: email}, nil
}

func (f *fakeService) SendAs(ctx context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile, account string) (*mailx.Sent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.email = &email
	f.auth = auth
	f.profile = profile
	f.account = account
	return &mailx.Sent{Account: account, Email: email}, nil
}

func newContext(t *testing.T, watchID string, payload watchx.Payload) *watchx.ExecutionContext {
	t.Helper()
	at := time.Date(2026, 5, 20, 12, 30, 0, 0, time.UTC)
	return watchx.NewExecutionContext(watchID, at, payload, map[string]interface{}{"team": "ops"})
}

func TestExecute_RandomizedFields(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	engine := templatex.NewGoEngine()

	for i := 0; i < 20; i++ {
		var email actionx.EmailTemplate

		wantTo := rng.Intn(3) == 0
		if wantTo {
			tmpls, err := actionx.AddressTemplates("to1@example.com, to2@example.com")
			if err != nil {
				t.Fatalf("iteration %d: %v", i, err)
			}
			email.To = tmpls
		}
		wantCC := rng.Intn(2) == 0
		if wantCC {
			tmpls, err := actionx.AddressTemplates("cc@example.com")
			if err != nil {
				t.Fatalf("iteration %d: %v", i, err)
			}
			email.CC = tmpls
		}
		wantSubject := rng.Intn(2) == 0
		if wantSubject {
			tmpl := templatex.Inline("{{.ctx.watch_id}} fired")
			email.Subject = &tmpl
		}
		wantText := rng.Intn(2) == 0
		if wantText {
			tmpl := templatex.Inline("count is {{.ctx.payload.count}}")
			email.TextBody = &tmpl
		}
		wantPriority := rng.Intn(2) == 0
		if wantPriority {
			tmpl := templatex.Default("high")
			email.Priority = &tmpl
		}
		attachData := actionx.DataAttachmentNone
		if rng.Intn(2) == 0 {
			attachData = actionx.DataAttachmentJSON
		}

		action := actionx.NewEmailAction(email, "account1", nil, "", attachData)
		service := &fakeService{}
		executable := actionx.NewExecutable(action, service, engine)

		ectx := newContext(t, "watch1", watchx.Payload{"count": 7})
		result := executable.Execute(context.Background(), "email_me", ectx, nil)

		if !result.OK() {
			t.Fatalf("iteration %d: execution failed: %+v", i, result)
		}
		success, ok := result.(actionx.Success)
		if !ok {
			t.Fatalf("iteration %d: expected Success, got %T", i, result)
		}
		if success.Account != "account1" {
			t.Fatalf("iteration %d: expected account1, got %q", i, success.Account)
		}
		sent := service.email
		if sent == nil {
			t.Fatalf("iteration %d: nothing dispatched", i)
		}
		if sent.ID != ectx.Wid.Value() {
			t.Fatalf("iteration %d: email id %q != execution id %q", i, sent.ID, ectx.Wid.Value())
		}

		if wantTo {
			if len(sent.To) != 2 || sent.To[0].Email != "to1@example.com" || sent.To[1].Email != "to2@example.com" {
				t.Fatalf("iteration %d: unexpected to %v", i, sent.To)
			}
		} else if len(sent.To) != 0 {
			t.Fatalf("iteration %d: expected no to addresses", i)
		}
		if wantCC != (len(sent.CC) == 1) {
			t.Fatalf("iteration %d: unexpected cc %v", i, sent.CC)
		}
		if wantSubject {
			if sent.Subject == nil || *sent.Subject != "watch1 fired" {
				t.Fatalf("iteration %d: unexpected subject %v", i, sent.Subject)
			}
		} else if sent.Subject != nil {
			t.Fatalf("iteration %d: expected absent subject, got %q", i, *sent.Subject)
		}
		if wantText {
			if sent.TextBody == nil || *sent.TextBody != "count is 7" {
				t.Fatalf("iteration %d: unexpected text body %v", i, sent.TextBody)
			}
		} else if sent.TextBody != nil {
			t.Fatalf("iteration %d: expected absent text body", i)
		}
		if wantPriority {
			if sent.Priority != mailx.PriorityHigh {
				t.Fatalf("iteration %d: unexpected priority %q", i, sent.Priority)
			}
		} else if sent.Priority != "" {
			t.Fatalf("iteration %d: expected unset priority, got %q", i, sent.Priority)
		}
		if attachData == actionx.DataAttachmentJSON {
			attachment, ok := sent.Attachments[actionx.DataAttachmentName]
			if !ok {
				t.Fatalf("iteration %d: expected %q attachment", i, actionx.DataAttachmentName)
			}
			if !strings.Contains(string(attachment.Data), `"count": 7`) {
				t.Fatalf("iteration %d: attachment missing payload: %s", i, attachment.Data)
			}
		} else if len(sent.Attachments) != 0 {
			t.Fatalf("iteration %d: expected no attachments", i)
		}
	}
}

func TestExecute_CredentialedDispatch(t *testing.T) {
	engine := templatex.NewGoEngine()
	auth := mailx.NewAuthentication("user", "passwd")
	action := actionx.NewEmailAction(actionx.EmailTemplate{}, "account1", auth, mailx.ProfileGmail, actionx.DataAttachmentNone)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)
	result := executable.Execute(context.Background(), "a1", newContext(t, "w1", nil), nil)

	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	if !service.viaSend {
		t.Fatal("expected credentialed Send dispatch")
	}
	if !auth.Equal(service.auth) {
		t.Fatal("credentials were not forwarded")
	}
	if service.profile != mailx.ProfileGmail {
		t.Fatalf("unexpected profile %q", service.profile)
	}
}

func TestExecute_DefaultAccountDispatch(t *testing.T) {
	engine := templatex.NewGoEngine()
	action := actionx.NewEmailAction(actionx.EmailTemplate{}, "account1", nil, "", actionx.DataAttachmentNone)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)
	result := executable.Execute(context.Background(), "a1", newContext(t, "w1", nil), nil)

	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	if service.viaSend {
		t.Fatal("expected SendAs dispatch for credential-less action")
	}
	if service.account != "account1" {
		t.Fatalf("unexpected account %q", service.account)
	}
	if service.profile != mailx.ProfileStandard {
		t.Fatalf("expected default profile, got %q", service.profile)
	}
}

func TestExecute_RenderFailureIsResult(t *testing.T) {
	engine := templatex.NewGoEngine()
	tmpl := templatex.Inline("{{.ctx.payload.missing}}")
	action := actionx.NewEmailAction(actionx.EmailTemplate{Subject: &tmpl}, "account1", nil, "", actionx.DataAttachmentNone)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)
	result := executable.Execute(context.Background(), "a1", newContext(t, "w1", watchx.Payload{}), nil)

	failure, ok := result.(actionx.Failure)
	if !ok {
		t.Fatalf("expected Failure, got %T", result)
	}
	if !strings.Contains(failure.Reason, "subject") {
		t.Fatalf("reason does not name the field: %q", failure.Reason)
	}
	if service.email != nil {
		t.Fatal("nothing should have been dispatched")
	}
}

func TestExecute_SendFailureIsResult(t *testing.T) {
	engine := templatex.NewGoEngine()
	action := actionx.NewEmailAction(actionx.EmailTemplate{}, "account1", nil, "", actionx.DataAttachmentNone)

	service := &fakeService{err: errors.New("smtp unreachable")}
	executable := actionx.NewExecutable(action, service, engine)
	result := executable.Execute(context.Background(), "a1", newContext(t, "w1", nil), nil)

	failure, ok := result.(actionx.Failure)
	if !ok {
		t.Fatalf("expected Failure, got %T", result)
	}
	if !strings.Contains(failure.Reason, "smtp unreachable") {
		t.Fatalf("reason lost the cause: %q", failure.Reason)
	}
}

func TestExecute_TemplatedPriority(t *testing.T) {
	engine := templatex.NewGoEngine()
	tmpl := templatex.Inline("{{.ctx.payload.urgency}}")
	action := actionx.NewEmailAction(actionx.EmailTemplate{Priority: &tmpl}, "account1", nil, "", actionx.DataAttachmentNone)
	executable := actionx.NewExecutable(action, &fakeService{}, engine)

	result := executable.Execute(context.Background(), "a1",
		newContext(t, "w1", watchx.Payload{"urgency": "highest"}), nil)
	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	if result.(actionx.Success).Email.Priority != mailx.PriorityHighest {
		t.Fatalf("unexpected priority %q", result.(actionx.Success).Email.Priority)
	}

	// A rendered value outside the enumeration fails the execution.
	result = executable.Execute(context.Background(), "a1",
		newContext(t, "w1", watchx.Payload{"urgency": "asap"}), nil)
	if result.OK() {
		t.Fatal("expected failure for unknown rendered priority")
	}
}

func TestExecute_SanitizesHTML(t *testing.T) {
	engine := templatex.NewGoEngine()
	tmpl := templatex.Default(`<p>report</p><script>alert("x")</script>`)
	action := actionx.NewEmailAction(
		actionx.EmailTemplate{HTMLBody: &tmpl, SanitizeHTML: true},
		"account1", nil, "", actionx.DataAttachmentNone)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)
	result := executable.Execute(context.Background(), "a1", newContext(t, "w1", nil), nil)
	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	if strings.Contains(*service.email.HTMLBody, "<script>") {
		t.Fatalf("script survived sanitization: %q", *service.email.HTMLBody)
	}
	if !strings.Contains(*service.email.HTMLBody, "<p>report</p>") {
		t.Fatalf("benign markup was lost: %q", *service.email.HTMLBody)
	}
}

func TestExecute_SanitizeDisabled(t *testing.T) {
	engine := templatex.NewGoEngine()
	source := `<style>.x{color:red}</style><p>raw</p>`
	tmpl := templatex.Default(source)
	action := actionx.NewEmailAction(
		actionx.EmailTemplate{HTMLBody: &tmpl, SanitizeHTML: false},
		"account1", nil, "", actionx.DataAttachmentNone)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)
	result := executable.Execute(context.Background(), "a1", newContext(t, "w1", nil), nil)
	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	if *service.email.HTMLBody != source {
		t.Fatalf("body was altered: %q", *service.email.HTMLBody)
	}
}

func TestExecute_YAMLAttachment(t *testing.T) {
	engine := templatex.NewGoEngine()
	action := actionx.NewEmailAction(actionx.EmailTemplate{}, "account1", nil, "", actionx.DataAttachmentYAML)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)
	result := executable.Execute(context.Background(), "a1",
		newContext(t, "w1", watchx.Payload{"count": 7}), nil)
	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	attachment := service.email.Attachments[actionx.DataAttachmentName]
	if attachment.ContentType != "application/yaml" {
		t.Fatalf("unexpected content type %q", attachment.ContentType)
	}
	if !strings.Contains(string(attachment.Data), "count: 7") {
		t.Fatalf("attachment missing payload: %s", attachment.Data)
	}
}

func TestExecute_TemplatedAddresses(t *testing.T) {
	engine := templatex.NewGoEngine()
	tmpls, err := actionx.AddressTemplates("{{.ctx.metadata.oncall}}, fixed@example.com")
	if err != nil {
		t.Fatalf("address templates: %v", err)
	}
	action := actionx.NewEmailAction(actionx.EmailTemplate{To: tmpls}, "account1", nil, "", actionx.DataAttachmentNone)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)

	at := time.Now()
	ectx := watchx.NewExecutionContext("w1", at, nil, map[string]interface{}{"oncall": "oncall@example.com"})
	result := executable.Execute(context.Background(), "a1", ectx, nil)
	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	if len(service.email.To) != 2 {
		t.Fatalf("expected 2 recipients, got %d", len(service.email.To))
	}
	if service.email.To[0].Email != "oncall@example.com" {
		t.Fatalf("template did not resolve: %v", service.email.To[0])
	}

	// A template rendering to garbage fails address validation at run time.
	bad := watchx.NewExecutionContext("w1", at, nil, map[string]interface{}{"oncall": "not an address"})
	if executable.Execute(context.Background(), "a1", bad, nil).OK() {
		t.Fatal("expected failure for invalid rendered address")
	}
}

func TestExecute_PayloadOverrideWinsAttachment(t *testing.T) {
	engine := templatex.NewGoEngine()
	action := actionx.NewEmailAction(actionx.EmailTemplate{}, "account1", nil, "", actionx.DataAttachmentJSON)

	service := &fakeService{}
	executable := actionx.NewExecutable(action, service, engine)
	ectx := newContext(t, "w1", watchx.Payload{"source": "context"})

	result := executable.Execute(context.Background(), "a1", ectx, watchx.Payload{"source": "override"})
	if !result.OK() {
		t.Fatalf("execution failed: %+v", result)
	}
	data := string(service.email.Attachments[actionx.DataAttachmentName].Data)
	if !strings.Contains(data, "override") {
		t.Fatalf("expected override payload in attachment: %s", data)
	}
}

func TestExecutable_Equal(t *testing.T) {
	engine := templatex.NewGoEngine()
	service := &fakeService{}

	build := func(account string) *actionx.Executable {
		tmpl := templatex.Default("subject")
		action := actionx.NewEmailAction(actionx.EmailTemplate{Subject: &tmpl}, account, nil, "", actionx.DataAttachmentNone)
		return actionx.NewExecutable(action, service, engine)
	}

	if !build("a").Equal(build("a")) {
		t.Fatal("expected equal executables")
	}
	if build("a").Equal(build("b")) {
		t.Fatal("expected different accounts to differ")
	}
}

func ExampleEmailAction_Document() {
	tmpl := templatex.Default("cluster health")
	action := actionx.NewEmailAction(
		actionx.EmailTemplate{Subject: &tmpl},
		"ops", nil, "", actionx.DataAttachmentNone)
	doc := action.Document(actionx.SerializeParams{})
	fmt.Println(doc["account"], doc["subject"])
	// Output: ops cluster health
}
