package mailxses

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/dmichel1/vigil/pkg/mailx"
)

// priorityHeaders maps priorities onto the X-Priority header scale (1 is
// most urgent).
var priorityHeaders = map[mailx.Priority]string{
	mailx.PriorityHighest: "1",
	mailx.PriorityHigh:    "2",
	mailx.PriorityNormal:  "3",
	mailx.PriorityLow:     "4",
	mailx.PriorityLowest:  "5",
}

// buildRawMessage assembles a multipart/mixed MIME message with the body
// parts and every attachment. The profile decides header layout quirks for
// specific mail clients.
func buildRawMessage(email mailx.Email, profile mailx.Profile) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	writeHeader(&buf, "From", sourceAddress(email))
	writeAddressHeader(&buf, "To", email.To)
	writeAddressHeader(&buf, "Cc", email.CC)
	writeAddressHeader(&buf, "Reply-To", email.ReplyTo)
	if email.Subject != nil {
		writeHeader(&buf, "Subject", *email.Subject)
	}
	if email.Priority != "" {
		writeHeader(&buf, "X-Priority", priorityHeaders[email.Priority])
		if profile == mailx.ProfileOutlook {
			// Outlook ignores X-Priority and reads Importance instead.
			writeHeader(&buf, "Importance", importanceHeader(email.Priority))
		}
	}
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", writer.Boundary()))
	buf.WriteString("\r\n")

	if email.TextBody != nil {
		if err := writeBodyPart(writer, "text/plain", *email.TextBody); err != nil {
			return nil, err
		}
	}
	if email.HTMLBody != nil {
		if err := writeBodyPart(writer, "text/html", *email.HTMLBody); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(email.Attachments))
	for name := range email.Attachments {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeAttachment(writer, email.Attachments[name]); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(buf *bytes.Buffer, name, value string) {
	fmt.Fprintf(buf, "%s: %s\r\n", name, value)
}

func writeAddressHeader(buf *bytes.Buffer, name string, addrs []mailx.Address) {
	if len(addrs) == 0 {
		return
	}
	writeHeader(buf, name, strings.Join(addressStrings(addrs), ", "))
}

func importanceHeader(priority mailx.Priority) string {
	switch priority {
	case mailx.PriorityHighest, mailx.PriorityHigh:
		return "High"
	case mailx.PriorityLowest, mailx.PriorityLow:
		return "Low"
	default:
		return "Normal"
	}
}

func writeBodyPart(writer *multipart.Writer, contentType, body string) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", contentType+"; charset=UTF-8")
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write([]byte(body))
	return err
}

func writeAttachment(writer *multipart.Writer, attachment mailx.Attachment) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Type", attachment.ContentType)
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachment.Name))
	header.Set("Content-Transfer-Encoding", "base64")
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(attachment.Data)
	_, err = part.Write([]byte(encoded))
	return err
}
