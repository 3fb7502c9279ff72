package model

import (
	"slices"

	"github.com/anndream/diucse-alumni-admin/internal/editor"
	"github.com/anndream/diucse-alumni-admin/internal/form"
	"github.com/anndream/diucse-alumni-admin/internal/validate"
)

type NewsRecord struct {
	ID      editor.RecordID
	Title   string
	Content string
	Image   *string
	Tags    []string
}

// NewsDraft is a partial NewsRecord. A nil field is unset and keeps the
// committed value when merged. PendingTag is the tag input box and never
// reaches a record.
type NewsDraft struct {
	ID      *editor.RecordID
	Title   *string
	Content *string
	Image   *string
	Tags    []string

	PendingTag string
}

// Values flattens the draft for form rendering.
func (d NewsDraft) Values() NewsRecord {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return NewsRecord{
		ID:      deref(d.ID),
		Title:   deref(d.Title),
		Content: deref(d.Content),
		Image:   d.Image,
		Tags:    tags,
	}
}

type NewsEditor = editor.Editor[NewsRecord, NewsDraft]

func NewNewsEditor(ids *editor.Sequence) *NewsEditor {
	return editor.New[NewsRecord, NewsDraft](NewsKind{}, ids)
}

var newsFields = []form.Field{
	{Name: "title", Type: form.Text},
	{Name: "content", Type: form.Text},
	{Name: "pendingTag", Type: form.Text},
}

type newsCandidate struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

var newsMessages = validate.Messages{
	"title.required":   "Title is required",
	"content.required": "Content is required",
}

// NewsKind implements editor.Kind for news articles.
type NewsKind struct{}

func (NewsKind) Name() string { return "news" }

func (NewsKind) Fields() []form.Field { return newsFields }

func (NewsKind) EmptyDraft() NewsDraft {
	return NewsDraft{Tags: []string{}}
}

func (NewsKind) DraftFrom(r NewsRecord) NewsDraft {
	d := NewsDraft{
		ID:      ptr(r.ID),
		Title:   ptr(r.Title),
		Content: ptr(r.Content),
		Tags:    slices.Clone(r.Tags),
	}
	if r.Image != nil {
		d.Image = ptr(*r.Image)
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	return d
}

func (NewsKind) DraftID(d NewsDraft) (editor.RecordID, bool) {
	if d.ID == nil {
		return 0, false
	}
	return *d.ID, true
}

func (NewsKind) SetField(d NewsDraft, field string, value any) (NewsDraft, error) {
	if field == "tags" {
		tags, ok := value.([]string)
		if !ok {
			return d, fieldTypeErr(field, value)
		}
		d.Tags = slices.Clone(tags)
		return d, nil
	}

	s, err := asString(field, value)
	if err != nil {
		return d, err
	}
	switch field {
	case "title":
		d.Title = &s
	case "content":
		d.Content = &s
	case "pendingTag":
		d.PendingTag = s
	default:
		return d, editor.ErrUnknownField
	}
	return d, nil
}

func (NewsKind) SetImage(d NewsDraft, dataURL string) NewsDraft {
	d.Image = &dataURL
	return d
}

func (NewsKind) Validate(d NewsDraft) []editor.FieldError {
	return validate.Struct(newsCandidate{
		Title:   deref(d.Title),
		Content: deref(d.Content),
	}, newsMessages)
}

func (NewsKind) Create(id editor.RecordID, d NewsDraft) NewsRecord {
	r := NewsRecord{
		ID:      id,
		Title:   deref(d.Title),
		Content: deref(d.Content),
		Image:   d.Image,
		Tags:    slices.Clone(d.Tags),
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}
	return r
}

func (NewsKind) Merge(r NewsRecord, d NewsDraft) NewsRecord {
	if d.Title != nil {
		r.Title = *d.Title
	}
	if d.Content != nil {
		r.Content = *d.Content
	}
	if d.Image != nil {
		r.Image = d.Image
	}
	if d.Tags != nil {
		r.Tags = slices.Clone(d.Tags)
	}
	return r
}

func (NewsKind) ID(r NewsRecord) editor.RecordID { return r.ID }

// AddPendingTag moves the pending tag into the tag list. The pending input is
// only cleared when the tag was actually added.
func AddPendingTag(d NewsDraft) (NewsDraft, bool) {
	tags, added := form.AddTag(d.Tags, d.PendingTag)
	if !added {
		return d, false
	}
	d.Tags = tags
	d.PendingTag = ""
	return d, true
}

func RemoveTag(d NewsDraft, tag string) NewsDraft {
	d.Tags = form.RemoveTag(d.Tags, tag)
	return d
}
