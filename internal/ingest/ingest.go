// Package ingest turns an uploaded image into a self-contained data URL that
// can be stored on a draft.
package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

var ingestLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	ingestLogger = l
}

var (
	ErrNoFile      = errors.New("no file submitted")
	ErrUnsupported = errors.New("unsupported image type")
	ErrTooLarge    = errors.New("image too large")
)

// Policy is the allow-list for one upload control.
type Policy struct {
	Extensions []string
	MIMETypes  []string

	// MaxBytes bounds the read. Zero means unbounded.
	MaxBytes int64
}

var imageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// NewsImages and EventPosters mirror the pickers on the two screens; only the
// poster picker takes the .jpg spelling.
var (
	NewsImages = Policy{
		Extensions: []string{".jpeg", ".png", ".gif", ".webp"},
		MIMETypes:  imageTypes,
	}
	EventPosters = Policy{
		Extensions: []string{".jpeg", ".png", ".gif", ".webp", ".jpg"},
		MIMETypes:  imageTypes,
	}
)

func (p Policy) WithMaxBytes(n int64) Policy {
	p.MaxBytes = n
	return p
}

// AcceptAttr renders the allow-list for an <input accept="..."> attribute.
func (p Policy) AcceptAttr() string {
	return strings.Join(append(slices.Clone(p.MIMETypes), p.Extensions...), ",")
}

func (p Policy) allowsName(name string) bool {
	return slices.Contains(p.Extensions, strings.ToLower(filepath.Ext(name)))
}

// Outcome is the result of one ingestion. Exactly one of DataURL and Err is
// set.
type Outcome struct {
	DataURL string
	MIME    string
	Err     error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

func fail(err error) Outcome {
	return Outcome{Err: err}
}

// Read consumes src and encodes it as a data URL. The name must carry an
// allowed extension and the content must sniff as an allowed image type.
func Read(ctx context.Context, name string, src io.Reader, p Policy) Outcome {
	if !p.allowsName(name) {
		return fail(fmt.Errorf("%s: %w", name, ErrUnsupported))
	}

	if p.MaxBytes > 0 {
		src = io.LimitReader(src, p.MaxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return fail(fmt.Errorf("reading %s: %w", name, err))
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if p.MaxBytes > 0 && int64(len(data)) > p.MaxBytes {
		return fail(fmt.Errorf("%s: %w", name, ErrTooLarge))
	}

	mtype := mimetype.Detect(data)
	if !slices.ContainsFunc(p.MIMETypes, mtype.Is) {
		return fail(fmt.Errorf("%s is %s: %w", name, mtype.String(), ErrUnsupported))
	}
	mime := mimeBase(mtype.String())

	var buf bytes.Buffer
	buf.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	buf.WriteString("data:")
	buf.WriteString(mime)
	buf.WriteString(";base64,")
	enc := base64.NewEncoder(base64.StdEncoding, &buf)
	enc.Write(data)
	enc.Close()

	ingestLogger.Debug().Str("name", name).Str("mime", mime).Int("bytes", len(data)).Msg("Image ingested")
	return Outcome{DataURL: buf.String(), MIME: mime}
}

// FromRequest reads the first file submitted under field. Any further files
// are ignored.
func FromRequest(r *http.Request, field string, p Policy) Outcome {
	maxMemory := p.MaxBytes
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return fail(ErrNoFile)
		}
		return fail(fmt.Errorf("parsing upload: %w", err))
	}

	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return fail(ErrNoFile)
	}
	if len(files) > 1 {
		ingestLogger.Debug().Int("files", len(files)).Msg("Using only the first dropped file")
	}

	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return fail(fmt.Errorf("opening %s: %w", fh.Filename, err))
	}
	defer f.Close()

	return Read(r.Context(), fh.Filename, f, p)
}

func mimeBase(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		return strings.TrimSpace(m[:i])
	}
	return m
}
