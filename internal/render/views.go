package render

import (
	"html/template"
	"iter"
	"strconv"
	"strings"
	"time"

	"github.com/anndream/diucse-alumni-admin/internal/editor"
	"github.com/anndream/diucse-alumni-admin/internal/model"
)

// Options control how records are presented.
type Options struct {
	HighlightTheme string
	Location       *time.Location
}

func (o Options) loc() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

type NewsView struct {
	ID      editor.RecordID
	Title   string
	Content template.HTML
	Image   template.URL
	Tags    []string
}

type EventView struct {
	ID           editor.RecordID
	Name         string
	Start        string
	End          string
	Location     string
	OnlineURL    string
	MapURL       string
	Fee          string
	Registration string
	Poster       template.URL
}

// News lazily renders records in collection order.
func News(records []model.NewsRecord, opts Options) iter.Seq[NewsView] {
	return func(yield func(NewsView) bool) {
		for _, r := range records {
			if !yield(NewsItem(r, opts)) {
				return
			}
		}
	}
}

func NewsItem(r model.NewsRecord, opts Options) NewsView {
	return NewsView{
		ID:      r.ID,
		Title:   r.Title,
		Content: template.HTML(RenderMarkdownCached([]byte(r.Content), opts.HighlightTheme)),
		Image:   ImageURL(r.Image),
		Tags:    r.Tags,
	}
}

// Events lazily renders records in collection order.
func Events(records []model.EventRecord, opts Options) iter.Seq[EventView] {
	return func(yield func(EventView) bool) {
		for _, r := range records {
			if !yield(EventItem(r, opts)) {
				return
			}
		}
	}
}

// EventItem formats one event. The online link is only shown for online
// events and the map link only for in-person ones.
func EventItem(r model.EventRecord, opts Options) EventView {
	loc := opts.loc()
	v := EventView{
		ID:    r.ID,
		Name:  r.Name,
		Start: FormatDateTime(r.StartAt, loc),
		End:   FormatDateTime(r.EndAt, loc),
		Fee:   strconv.FormatFloat(r.Fee, 'f', 2, 64),
		Registration: FormatDateTime(r.RegistrationStartDate, loc) + " - " +
			FormatDateTime(r.RegistrationEndDate, loc),
		Poster: ImageURL(r.Poster),
	}

	switch {
	case r.IsOnline:
		v.Location = "Online"
		v.OnlineURL = r.OnlineURL
	case r.Location != "":
		v.Location = r.Location
	default:
		v.Location = NotApplicable
	}
	if !r.IsOnline {
		v.MapURL = r.MapURL
	}
	return v
}

// ImageURL marks an ingested data URL as safe for an img src. Anything that
// is not an image data URL is dropped.
func ImageURL(dataURL *string) template.URL {
	if dataURL == nil || !strings.HasPrefix(*dataURL, "data:image/") {
		return ""
	}
	return template.URL(*dataURL)
}

// CountUpcoming counts events starting after now.
func CountUpcoming(records []model.EventRecord, now time.Time) int {
	n := 0
	for _, r := range records {
		if t, ok := ParseDateTime(r.StartAt, now.Location()); ok && t.After(now) {
			n++
		}
	}
	return n
}
