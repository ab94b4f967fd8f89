package forms

// Variant holds the fields specific to one form type. The set of
// implementations is closed.
type Variant interface {
	Rows() []Row
	Columns() Columns
	decode(f fields)
}

func newVariant(t Type) Variant {
	switch t {
	case Contact:
		return &ContactFields{}
	case Career:
		return &CareerFields{}
	case Vendor:
		return &VendorFields{}
	case Inquiry:
		return &InquiryFields{}
	case Newsletter:
		return &NewsletterFields{}
	case Legal:
		return &LegalFields{}
	case Sales:
		return &SalesFields{}
	default:
		return &GenericFields{}
	}
}

type ContactFields struct {
	Subject string
	Message string
}

func (v *ContactFields) decode(f fields) {
	v.Subject = f.take("subject")
	v.Message = f.take("message")
}

func (v *ContactFields) Rows() []Row {
	return []Row{{"Subject", v.Subject}, {"Message", v.Message}}
}

func (v *ContactFields) Columns() Columns {
	return Columns{Subject: v.Subject, Message: v.Message}
}

type CareerFields struct {
	Department string
	Message    string
	CVPath     string
}

func (v *CareerFields) decode(f fields) {
	v.Department = f.take("department")
	v.Message = f.take("message")
	v.CVPath = f.take("cvPath")
	if v.CVPath == "" {
		v.CVPath = f.take("cv_path")
	}
}

func (v *CareerFields) Rows() []Row {
	return []Row{{"Department", v.Department}, {"Message", v.Message}, {"CV", v.CVPath}}
}

func (v *CareerFields) Columns() Columns {
	return Columns{Department: v.Department, Message: v.Message, CVPath: v.CVPath}
}

type VendorFields struct {
	Company string
	Message string
}

func (v *VendorFields) decode(f fields) {
	v.Company = f.take("company")
	v.Message = f.take("message")
}

func (v *VendorFields) Rows() []Row {
	return []Row{{"Company", v.Company}, {"Message", v.Message}}
}

func (v *VendorFields) Columns() Columns {
	return Columns{Company: v.Company, Message: v.Message}
}

type InquiryFields struct {
	Product string
	Subject string
	Message string
}

func (v *InquiryFields) decode(f fields) {
	v.Product = f.take("product")
	v.Subject = f.take("subject")
	v.Message = f.take("message")
}

func (v *InquiryFields) Rows() []Row {
	return []Row{{"Product", v.Product}, {"Subject", v.Subject}, {"Message", v.Message}}
}

func (v *InquiryFields) Columns() Columns {
	return Columns{Product: v.Product, Subject: v.Subject, Message: v.Message}
}

// NewsletterFields is empty: a newsletter signup carries contact details only.
type NewsletterFields struct{}

func (v *NewsletterFields) decode(fields) {}

func (v *NewsletterFields) Rows() []Row { return nil }

func (v *NewsletterFields) Columns() Columns { return Columns{} }

type LegalFields struct {
	Subject string
	Message string
}

func (v *LegalFields) decode(f fields) {
	v.Subject = f.take("subject")
	v.Message = f.take("message")
}

func (v *LegalFields) Rows() []Row {
	return []Row{{"Subject", v.Subject}, {"Message", v.Message}}
}

func (v *LegalFields) Columns() Columns {
	return Columns{Subject: v.Subject, Message: v.Message}
}

type SalesFields struct {
	Company string
	Product string
	Message string
}

func (v *SalesFields) decode(f fields) {
	v.Company = f.take("company")
	v.Product = f.take("product")
	v.Message = f.take("message")
}

func (v *SalesFields) Rows() []Row {
	return []Row{{"Company", v.Company}, {"Product Interest", v.Product}, {"Message", v.Message}}
}

func (v *SalesFields) Columns() Columns {
	return Columns{Company: v.Company, Product: v.Product, Message: v.Message}
}

type GenericFields struct {
	Company string
	Subject string
	Message string
}

func (v *GenericFields) decode(f fields) {
	v.Company = f.take("company")
	v.Subject = f.take("subject")
	v.Message = f.take("message")
}

func (v *GenericFields) Rows() []Row {
	return []Row{{"Company", v.Company}, {"Subject", v.Subject}, {"Message", v.Message}}
}

func (v *GenericFields) Columns() Columns {
	return Columns{Company: v.Company, Subject: v.Subject, Message: v.Message}
}
