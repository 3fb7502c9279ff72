package model

import (
	"github.com/anndream/diucse-alumni-admin/internal/editor"
	"github.com/anndream/diucse-alumni-admin/internal/form"
	"github.com/anndream/diucse-alumni-admin/internal/validate"
)

// EventRecord is a committed event. Date fields hold the datetime-local
// value the form submitted; they are parsed only for display.
type EventRecord struct {
	ID                    editor.RecordID
	Name                  string
	StartAt               string
	EndAt                 string
	Location              string
	MapURL                string
	IsOnline              bool
	OnlineURL             string
	Fee                   float64
	RegistrationStartDate string
	RegistrationEndDate   string
	Poster                *string
}

type EventDraft struct {
	ID                    *editor.RecordID
	Name                  *string
	StartAt               *string
	EndAt                 *string
	Location              *string
	MapURL                *string
	IsOnline              *bool
	OnlineURL             *string
	Fee                   *float64
	RegistrationStartDate *string
	RegistrationEndDate   *string
	Poster                *string
}

func (d EventDraft) Values() EventRecord {
	return EventRecord{
		ID:                    deref(d.ID),
		Name:                  deref(d.Name),
		StartAt:               deref(d.StartAt),
		EndAt:                 deref(d.EndAt),
		Location:              deref(d.Location),
		MapURL:                deref(d.MapURL),
		IsOnline:              deref(d.IsOnline),
		OnlineURL:             deref(d.OnlineURL),
		Fee:                   deref(d.Fee),
		RegistrationStartDate: deref(d.RegistrationStartDate),
		RegistrationEndDate:   deref(d.RegistrationEndDate),
		Poster:                d.Poster,
	}
}

type EventEditor = editor.Editor[EventRecord, EventDraft]

func NewEventEditor(ids *editor.Sequence) *EventEditor {
	return editor.New[EventRecord, EventDraft](EventKind{}, ids)
}

var eventFields = []form.Field{
	{Name: "name", Type: form.Text},
	{Name: "startAt", Type: form.DateTime},
	{Name: "endAt", Type: form.DateTime},
	{Name: "location", Type: form.Text},
	{Name: "mapUrl", Type: form.URL},
	{Name: "isOnline", Type: form.Checkbox},
	{Name: "onlineUrl", Type: form.URL},
	{Name: "fee", Type: form.Number},
	{Name: "registrationStartDate", Type: form.DateTime},
	{Name: "registrationEndDate", Type: form.DateTime},
}

type eventCandidate struct {
	Name      string  `json:"name" validate:"required"`
	StartAt   string  `json:"startAt" validate:"required"`
	EndAt     string  `json:"endAt" validate:"required"`
	MapURL    string  `json:"mapUrl" validate:"omitempty,url"`
	OnlineURL string  `json:"onlineUrl" validate:"omitempty,url"`
	Fee       float64 `json:"fee" validate:"gte=0"`
}

var eventMessages = validate.Messages{
	"name.required":    "Event name is required",
	"startAt.required": "Start date is required",
	"endAt.required":   "End date is required",
	"fee.gte":          "Fee cannot be negative",
}

// EventKind implements editor.Kind for events.
type EventKind struct{}

func (EventKind) Name() string { return "event" }

func (EventKind) Fields() []form.Field { return eventFields }

// EmptyDraft is the form baseline: every field present with its zero value
// and no poster.
func (EventKind) EmptyDraft() EventDraft {
	return EventDraft{
		Name:                  ptr(""),
		StartAt:               ptr(""),
		EndAt:                 ptr(""),
		Location:              ptr(""),
		MapURL:                ptr(""),
		IsOnline:              ptr(false),
		OnlineURL:             ptr(""),
		Fee:                   ptr(0.0),
		RegistrationStartDate: ptr(""),
		RegistrationEndDate:   ptr(""),
	}
}

func (EventKind) DraftFrom(r EventRecord) EventDraft {
	d := EventDraft{
		ID:                    ptr(r.ID),
		Name:                  ptr(r.Name),
		StartAt:               ptr(r.StartAt),
		EndAt:                 ptr(r.EndAt),
		Location:              ptr(r.Location),
		MapURL:                ptr(r.MapURL),
		IsOnline:              ptr(r.IsOnline),
		OnlineURL:             ptr(r.OnlineURL),
		Fee:                   ptr(r.Fee),
		RegistrationStartDate: ptr(r.RegistrationStartDate),
		RegistrationEndDate:   ptr(r.RegistrationEndDate),
	}
	if r.Poster != nil {
		d.Poster = ptr(*r.Poster)
	}
	return d
}

func (EventKind) DraftID(d EventDraft) (editor.RecordID, bool) {
	if d.ID == nil {
		return 0, false
	}
	return *d.ID, true
}

func (EventKind) SetField(d EventDraft, field string, value any) (EventDraft, error) {
	switch field {
	case "isOnline":
		b, ok := value.(bool)
		if !ok {
			return d, fieldTypeErr(field, value)
		}
		d.IsOnline = &b
		return d, nil
	case "fee":
		f, ok := value.(float64)
		if !ok {
			return d, fieldTypeErr(field, value)
		}
		d.Fee = &f
		return d, nil
	}

	s, err := asString(field, value)
	if err != nil {
		return d, err
	}
	switch field {
	case "name":
		d.Name = &s
	case "startAt":
		d.StartAt = &s
	case "endAt":
		d.EndAt = &s
	case "location":
		d.Location = &s
	case "mapUrl":
		d.MapURL = &s
	case "onlineUrl":
		d.OnlineURL = &s
	case "registrationStartDate":
		d.RegistrationStartDate = &s
	case "registrationEndDate":
		d.RegistrationEndDate = &s
	default:
		return d, editor.ErrUnknownField
	}
	return d, nil
}

func (EventKind) SetImage(d EventDraft, dataURL string) EventDraft {
	d.Poster = &dataURL
	return d
}

// Validate checks the required fields. The online link is only checked when
// the event is online since it is hidden otherwise.
func (EventKind) Validate(d EventDraft) []editor.FieldError {
	c := eventCandidate{
		Name:    deref(d.Name),
		StartAt: deref(d.StartAt),
		EndAt:   deref(d.EndAt),
		MapURL:  deref(d.MapURL),
		Fee:     deref(d.Fee),
	}
	if deref(d.IsOnline) {
		c.OnlineURL = deref(d.OnlineURL)
	}
	return validate.Struct(c, eventMessages)
}

func (EventKind) Create(id editor.RecordID, d EventDraft) EventRecord {
	r := d.Values()
	r.ID = id
	return r
}

func (EventKind) Merge(r EventRecord, d EventDraft) EventRecord {
	mergeInto(&r.Name, d.Name)
	mergeInto(&r.StartAt, d.StartAt)
	mergeInto(&r.EndAt, d.EndAt)
	mergeInto(&r.Location, d.Location)
	mergeInto(&r.MapURL, d.MapURL)
	mergeInto(&r.IsOnline, d.IsOnline)
	mergeInto(&r.OnlineURL, d.OnlineURL)
	mergeInto(&r.Fee, d.Fee)
	mergeInto(&r.RegistrationStartDate, d.RegistrationStartDate)
	mergeInto(&r.RegistrationEndDate, d.RegistrationEndDate)
	if d.Poster != nil {
		r.Poster = d.Poster
	}
	return r
}

func (EventKind) ID(r EventRecord) editor.RecordID { return r.ID }

func mergeInto[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
