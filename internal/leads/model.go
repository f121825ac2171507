package leads

import "time"

// Status tracks where a lead sits in the follow-up funnel.
type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusWon, StatusLost:
		return true
	}
	return false
}

// Defaults applied when the form omits the corresponding value.
const (
	DefaultFormID   = "contact_form"
	DefaultLeadType = "contact"
	UnknownValue    = "unknown"
)

// Fields is the contact-form payload after validation. Optional entries are
// nil when the visitor left them blank.
type Fields struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone"`
	Company          *string `json:"company"`
	Budget           *string `json:"budget"`
	ServiceInterest  *string `json:"serviceInterest"`
	Message          string  `json:"message"`
	ConsentToContact bool    `json:"consentToContact"`
}

// Lead is a persisted contact-form submission.
type Lead struct {
	ID          string         `json:"id"`
	CreatedAt   time.Time      `json:"createdAt"`
	PagePath    *string        `json:"pagePath"`
	FormID      string         `json:"formId"`
	LeadType    string         `json:"leadType"`
	Status      Status         `json:"status"`
	LeadScore   int            `json:"leadScore"`
	Fields      Fields         `json:"fields"`
	Attribution map[string]any `json:"attribution"`
	UserAgent   string         `json:"userAgent"`
	IP          string         `json:"ip"`
}

// NewLead is what the intake handler hands to the store. The id, the
// timestamp and the initial status are assigned by the store, never by the
// caller.
type NewLead struct {
	PagePath    *string
	FormID      string
	LeadType    string
	LeadScore   int
	Fields      Fields
	Attribution map[string]any
	UserAgent   string
	IP          string
}

// SubmitRequest mirrors the wire shape of POST /leads.
type SubmitRequest struct {
	FormID      string         `json:"form_id"`
	LeadType    string         `json:"lead_type"`
	PagePath    string         `json:"page_path"`
	Attribution map[string]any `json:"attribution"`
	Fields      SubmitFields   `json:"fields"`
}

// SubmitFields carries the raw form values, including the honeypot field.
type SubmitFields struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Company          string `json:"company"`
	Budget           string `json:"budget"`
	ServiceInterest  string `json:"service_interest"`
	Message          string `json:"message"`
	ConsentToContact bool   `json:"consent_to_contact"`
	Website          string `json:"website"`
}
