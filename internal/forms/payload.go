// Package forms models website form payloads as a variant per form type plus
// a bag for fields no variant declares.
package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"

	"github.com/example/zylm/internal/apperr"
)

type Type string

const (
	Contact    Type = "contact"
	Career     Type = "career"
	Vendor     Type = "vendor"
	Inquiry    Type = "inquiry"
	Newsletter Type = "newsletter"
	Legal      Type = "legal"
	Sales      Type = "sales"
	Generic    Type = "generic"
)

// ParseType maps a client formType to a known type. Unknown values are generic.
func ParseType(s string) Type {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case Contact, Career, Vendor, Inquiry, Newsletter, Legal, Sales:
		return t
	case "product", "enquiry":
		return Inquiry
	default:
		return Generic
	}
}

// Row is one labelled value for rendering a submission.
type Row struct {
	Label string
	Value string
}

// Columns are the typed submission fields stored in dedicated columns.
type Columns struct {
	Company    string
	Subject    string
	Message    string
	Department string
	Product    string
	CVPath     string
}

// Payload is a decoded form submission.
type Payload struct {
	Type        Type
	Name        string
	Email       string
	Phone       string
	OTPVerified bool
	Fields      Variant
	Extra       map[string]any
	// Raw is the body exactly as submitted.
	Raw json.RawMessage
}

var commonKeys = []string{"formType", "form_type", "name", "email", "phone", "mobile", "otpVerified"}

// Parse decodes a JSON object into a Payload. It does not validate content;
// see Validate.
func Parse(body []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return nil, apperr.Validation("invalid request body")
	}

	f := fields(m)
	p := &Payload{
		Type:        ParseType(firstNonEmpty(f.str("formType"), f.str("form_type"))),
		Name:        f.str("name"),
		Email:       strings.TrimSpace(f.str("email")),
		Phone:       firstNonEmpty(f.str("phone"), f.str("mobile")),
		OTPVerified: f.boolean("otpVerified"),
		Raw:         json.RawMessage(body),
	}

	p.Fields = newVariant(p.Type)
	p.Fields.decode(f)

	for _, k := range commonKeys {
		delete(f, k)
	}
	if len(f) > 0 {
		p.Extra = map[string]any(f)
	}
	return p, nil
}

// Validate checks the fields every form type requires.
func (p *Payload) Validate() error {
	if p.Email == "" {
		return apperr.Validation("email is required")
	}
	if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
		return apperr.Validation("email is invalid")
	}
	return nil
}

// HasPhone reports whether the client supplied a phone or mobile number.
func (p *Payload) HasPhone() bool {
	return strings.TrimSpace(p.Phone) != ""
}

// Rows lists the submission for display: contact details, the type's own
// fields, then any extra fields in key order.
func (p *Payload) Rows() []Row {
	rows := []Row{
		{Label: "Name", Value: p.Name},
		{Label: "Email", Value: p.Email},
		{Label: "Phone", Value: p.Phone},
	}
	rows = append(rows, p.Fields.Rows()...)

	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, Row{Label: k, Value: stringify(p.Extra[k])})
	}
	return rows
}

// fields is the undecoded remainder of a payload. take removes what it reads
// so that whatever is left over ends up in Payload.Extra.
type fields map[string]any

func (f fields) take(key string) string {
	v := f.str(key)
	delete(f, key)
	return v
}

func (f fields) str(key string) string {
	v, ok := f[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(stringify(v))
}

func (f fields) boolean(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
