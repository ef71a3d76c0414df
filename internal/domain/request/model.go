// Package request validates and persists service requests (appointments and
// help requests) on behalf of the authenticated identity. Writes are
// create-only: after creation a request belongs to the triage side, which
// owns all status transitions.
package request

import (
	"time"

	"github.com/carehub/carehub/internal/platform/store"
)

// Kind discriminates the two request flavors.
type Kind string

const (
	KindAppointment Kind = "appointment"
	KindHelp        Kind = "help"
)

// Status is the triage state of a request. This core only ever writes
// StatusPending; the remaining values exist for reading records the triage
// collaborator has advanced.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// HelpType categorizes a help request.
type HelpType string

const (
	HelpFood      HelpType = "Food"
	HelpHealth    HelpType = "Health"
	HelpEducation HelpType = "Education"
	HelpOther     HelpType = "Other"
)

var validHelpTypes = map[HelpType]bool{
	HelpFood: true, HelpHealth: true, HelpEducation: true, HelpOther: true,
}

// OwnerSnapshot carries the submitter's display name and phone as known to
// the caller at submission time. It is stamped onto the record rather than
// re-fetched, so the submission costs a single round trip; the caller is
// responsible for supplying fresh values.
type OwnerSnapshot struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// AppointmentPayload is the kind-specific payload of an appointment request.
type AppointmentPayload struct {
	Reason        string `json:"reason"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`
}

// HelpPayload is the kind-specific payload of a help request.
type HelpPayload struct {
	HelpType    HelpType `json:"helpType"`
	Description string   `json:"description"`
}

// ServiceRequest is a stored request record. Every field is immutable after
// creation; only the triage collaborator advances Status.
type ServiceRequest struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"userId"`
	OwnerName     string    `json:"userName"`
	OwnerPhone    string    `json:"userPhone"`
	Kind          Kind      `json:"type"`
	Title         string    `json:"title"`
	Status        Status    `json:"status"`
	Reason        string    `json:"reason,omitempty"`
	PreferredDate string    `json:"preferredDate,omitempty"`
	PreferredTime string    `json:"preferredTime,omitempty"`
	HelpType      HelpType  `json:"helpType,omitempty"`
	Description   string    `json:"description,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// FromDocument maps a stored request document onto a ServiceRequest.
func FromDocument(doc *store.Document) *ServiceRequest {
	r := &ServiceRequest{ID: doc.ID, CreatedAt: doc.CreatedAt}
	r.OwnerID, _ = doc.Fields["userId"].(string)
	r.OwnerName, _ = doc.Fields["userName"].(string)
	r.OwnerPhone, _ = doc.Fields["userPhone"].(string)
	if kind, ok := doc.Fields["type"].(string); ok {
		r.Kind = Kind(kind)
	}
	r.Title, _ = doc.Fields["title"].(string)
	if status, ok := doc.Fields["status"].(string); ok {
		r.Status = Status(status)
	}
	r.Reason, _ = doc.Fields["reason"].(string)
	r.PreferredDate, _ = doc.Fields["preferredDate"].(string)
	r.PreferredTime, _ = doc.Fields["preferredTime"].(string)
	if ht, ok := doc.Fields["helpType"].(string); ok {
		r.HelpType = HelpType(ht)
	}
	r.Description, _ = doc.Fields["description"].(string)
	return r
}

// collectionFor maps a request kind onto its backing collection.
func collectionFor(kind Kind) string {
	if kind == KindHelp {
		return store.CollectionRequests
	}
	return store.CollectionAppointments
}
