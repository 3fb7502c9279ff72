package render

import (
	"bytes"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/anndream/diucse-alumni-admin/internal/cache"
	"github.com/anndream/diucse-alumni-admin/internal/model"
	"github.com/anndream/diucse-alumni-admin/internal/util"
)

func TestFormatDateTime(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"datetime-local", "2025-01-01T10:00", "1/1/2025, 10:00:00 AM"},
		{"with seconds", "2025-12-31T23:59:30", "12/31/2025, 11:59:30 PM"},
		{"rfc3339", "2025-06-15T08:05:00Z", "6/15/2025, 8:05:00 AM"},
		{"date only", "2025-03-04", "3/4/2025, 12:00:00 AM"},
		{"empty", "", NotApplicable},
		{"whitespace", "   ", NotApplicable},
		{"garbage", "next tuesday", NotApplicable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDateTime(tc.input, time.UTC); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestEventItem(t *testing.T) {
	testCases := []struct {
		name            string
		record          model.EventRecord
		expectLocation  string
		expectOnlineURL string
		expectMapURL    string
	}{
		{
			name:            "online shows online link only",
			record:          model.EventRecord{IsOnline: true, OnlineURL: "https://x.example", MapURL: "https://maps.example", Location: "Hall"},
			expectLocation:  "Online",
			expectOnlineURL: "https://x.example",
		},
		{
			name:           "in person shows map link only",
			record:         model.EventRecord{Location: "Hall A", MapURL: "https://maps.example", OnlineURL: "https://x.example"},
			expectLocation: "Hall A",
			expectMapURL:   "https://maps.example",
		},
		{
			name:           "no location",
			record:         model.EventRecord{},
			expectLocation: NotApplicable,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v := EventItem(tc.record, Options{Location: time.UTC})
			if v.Location != tc.expectLocation {
				t.Errorf("Expected location %q, got %q", tc.expectLocation, v.Location)
			}
			if v.OnlineURL != tc.expectOnlineURL {
				t.Errorf("Expected online link %q, got %q", tc.expectOnlineURL, v.OnlineURL)
			}
			if v.MapURL != tc.expectMapURL {
				t.Errorf("Expected map link %q, got %q", tc.expectMapURL, v.MapURL)
			}
		})
	}
}

func TestEventItemFormatting(t *testing.T) {
	v := EventItem(model.EventRecord{
		Fee:                   12.5,
		RegistrationStartDate: "2025-01-01T09:00",
	}, Options{Location: time.UTC})

	if v.Fee != "12.50" {
		t.Errorf("Expected fee 12.50, got %q", v.Fee)
	}
	if v.Registration != "1/1/2025, 9:00:00 AM - N/A" {
		t.Errorf("Unexpected registration %q", v.Registration)
	}
	if v.Start != NotApplicable || v.End != NotApplicable {
		t.Errorf("Expected empty dates to render N/A, got %q and %q", v.Start, v.End)
	}
}

func TestGalaEndToEnd(t *testing.T) {
	e := model.NewEventEditor(nil)
	e.OpenCreate()
	e.Set("name", "Gala")
	e.Set("startAt", "2025-01-01T10:00")
	e.Set("endAt", "2025-01-01T12:00")
	e.Set("isOnline", true)
	e.Set("onlineUrl", "https://x.example")
	if _, err := e.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	views := slices.Collect(Events(e.Records(), Options{Location: time.UTC}))
	if len(views) != 1 {
		t.Fatalf("Expected 1 view, got %d", len(views))
	}
	v := views[0]
	if v.Location != "Online" {
		t.Errorf("Expected location Online, got %q", v.Location)
	}
	if v.OnlineURL != "https://x.example" {
		t.Errorf("Expected online link, got %q", v.OnlineURL)
	}
	if v.MapURL != "" {
		t.Errorf("Expected no map link, got %q", v.MapURL)
	}
	if v.Start != "1/1/2025, 10:00:00 AM" {
		t.Errorf("Unexpected start %q", v.Start)
	}
}

func TestNewsViewsAreLazyAndOrdered(t *testing.T) {
	records := []model.NewsRecord{
		{ID: 1, Title: "a", Content: "first"},
		{ID: 2, Title: "b", Content: "second"},
		{ID: 3, Title: "c", Content: "third"},
	}

	var titles []string
	for v := range News(records, Options{HighlightTheme: "github"}) {
		titles = append(titles, v.Title)
		if len(titles) == 2 {
			break
		}
	}
	if !slices.Equal(titles, []string{"a", "b"}) {
		t.Errorf("Expected early stop after two items, got %v", titles)
	}
}

func TestImageURL(t *testing.T) {
	png := "data:image/png;base64,AA=="
	script := "javascript:alert(1)"

	if got := ImageURL(&png); string(got) != png {
		t.Errorf("Expected data URL to pass, got %q", got)
	}
	if got := ImageURL(&script); got != "" {
		t.Errorf("Expected non-image URL to be dropped, got %q", got)
	}
	if got := ImageURL(nil); got != "" {
		t.Errorf("Expected nil image to render empty, got %q", got)
	}
}

func TestCountUpcoming(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	records := []model.EventRecord{
		{StartAt: "2025-01-01T10:00"},
		{StartAt: "2025-07-01T10:00"},
		{StartAt: "2026-01-01T10:00"},
		{StartAt: "not a date"},
	}
	if got := CountUpcoming(records, now); got != 2 {
		t.Errorf("Expected 2 upcoming events, got %d", got)
	}
}

func TestRenderMarkdown(t *testing.T) {
	testCases := []struct {
		name       string
		markdown   string
		contains   []string
		notContain []string
	}{
		{
			name:     "heading and emphasis",
			markdown: "# Reunion\n\nSee *you* there",
			contains: []string{"<h1", "Reunion", "<em>you</em>"},
		},
		{
			name:       "raw html is skipped",
			markdown:   "Hello <script>alert('x')</script> world",
			notContain: []string{"<script>"},
		},
		{
			name:     "fenced code is highlighted",
			markdown: "```go\nfunc main() {}\n```",
			contains: []string{`class="highlight"`, "chroma"},
		},
		{
			name:       "javascript links are not linked",
			markdown:   "[click](javascript:alert(1))",
			notContain: []string{`href="javascript:`},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := string(RenderMarkdown([]byte(tc.markdown), "github"))
			for _, s := range tc.contains {
				if !strings.Contains(out, s) {
					t.Errorf("Expected output to contain %q, got %s", s, out)
				}
			}
			for _, s := range tc.notContain {
				if strings.Contains(out, s) {
					t.Errorf("Expected output not to contain %q, got %s", s, out)
				}
			}
		})
	}
}

func TestRenderMarkdownCached(t *testing.T) {
	cache.ClearRenderedMarkdownCache()

	md := []byte("Some **content**")
	first := RenderMarkdownCached(md, "github")

	cached, found := cache.GetRenderedMarkdown(util.ContentHash(md), "github")
	if !found {
		t.Fatal("Expected rendered markdown to be cached")
	}
	if !bytes.Equal(cached.HTML, first) {
		t.Error("Expected cached HTML to match the rendered output")
	}
	if second := RenderMarkdownCached(md, "github"); !bytes.Equal(first, second) {
		t.Error("Expected identical output on a cache hit")
	}
}

func TestHighlightCodeUnknownLanguage(t *testing.T) {
	out := HighlightCode("plain <text>", "no-such-language", "github")
	if strings.Contains(out, "<text>") {
		t.Errorf("Expected code to be escaped, got %s", out)
	}
}

func TestCount(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		567:     "567",
		1234:    "1,234",
		1000000: "1,000,000",
	}
	for n, want := range tests {
		if got := Count(n); got != want {
			t.Errorf("Count(%d) = %q, want %q", n, got, want)
		}
	}
}
