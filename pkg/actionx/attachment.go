package actionx

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/watchx"
)

// DataAttachment decides whether and how the execution payload is attached
// to the outgoing email.
type DataAttachment string

const (
	// DataAttachmentNone attaches nothing.
	DataAttachmentNone DataAttachment = ""
	// DataAttachmentJSON attaches the payload serialized as JSON.
	DataAttachmentJSON DataAttachment = "json"
	// DataAttachmentYAML attaches the payload serialized as YAML.
	DataAttachmentYAML DataAttachment = "yaml"
)

// DataAttachmentDefault is the policy selected by a bare `"attach_data": true`.
const DataAttachmentDefault = DataAttachmentJSON

// DataAttachmentName is the fixed attachment key the payload is stored under.
const DataAttachmentName = "data"

// ParseDataAttachment interprets the `attach_data` document value: booleans
// select the default policy or none, strings name a policy explicitly.
func ParseDataAttachment(value interface{}) (DataAttachment, error) {
	switch v := value.(type) {
	case bool:
		if v {
			return DataAttachmentDefault, nil
		}
		return DataAttachmentNone, nil
	case string:
		switch DataAttachment(v) {
		case DataAttachmentJSON:
			return DataAttachmentJSON, nil
		case DataAttachmentYAML:
			return DataAttachmentYAML, nil
		}
		return DataAttachmentNone, actionxErrors.New(ErrUnknownPolicy).WithDetail("attach_data", v)
	default:
		return DataAttachmentNone, actionxErrors.New(ErrUnknownPolicy).WithDetail("attach_data", value)
	}
}

// String returns the policy name.
func (d DataAttachment) String() string {
	return string(d)
}

// Encode serializes payload in the policy's format as a named attachment.
func (d DataAttachment) Encode(payload watchx.Payload) (mailx.Attachment, error) {
	switch d {
	case DataAttachmentJSON:
		data, err := json.MarshalIndent(map[string]interface{}(payload), "", "  ")
		if err != nil {
			return mailx.Attachment{}, actionxErrors.NewWithCause(ErrAttachmentEncode, err).WithDetail("format", "json")
		}
		return mailx.Attachment{Name: DataAttachmentName, ContentType: "application/json", Data: data}, nil
	case DataAttachmentYAML:
		data, err := yaml.Marshal(map[string]interface{}(payload))
		if err != nil {
			return mailx.Attachment{}, actionxErrors.NewWithCause(ErrAttachmentEncode, err).WithDetail("format", "yaml")
		}
		return mailx.Attachment{Name: DataAttachmentName, ContentType: "application/yaml", Data: data}, nil
	default:
		return mailx.Attachment{}, actionxErrors.New(ErrUnknownPolicy).WithDetail("attach_data", string(d))
	}
}
