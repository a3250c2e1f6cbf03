// Package mailfmt converts emails to and from RFC 5322 forms.
package mailfmt

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/emersion/go-message/mail"

	"github.com/nhle/mailpane/internal/model"
)

// AttachmentHeader carries attachment references in exported messages.
const AttachmentHeader = "X-Mailpane-Attachment"

// ParseAddress parses "Name <addr>" or a bare address. When no display
// name is given, the local part of the address is used.
func ParseAddress(s string) (model.Person, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	if err != nil {
		return model.Person{}, fmt.Errorf("parsing address %q: %w", s, err)
	}
	p := model.Person{Name: addr.Name, Email: addr.Address}
	if p.Name == "" {
		p.Name = LocalPart(p.Email)
	}
	return p, nil
}

// LocalPart returns the part of an address before the @.
func LocalPart(address string) string {
	local, _, _ := strings.Cut(address, "@")
	return local
}

// FormatAddress renders p for display as "Name <addr>".
func FormatAddress(p model.Person) string {
	switch {
	case p.Name == "":
		return p.Email
	case p.Email == "":
		return p.Name
	default:
		return fmt.Sprintf("%s <%s>", p.Name, p.Email)
	}
}

func header(e model.Email) mail.Header {
	var h mail.Header
	h.SetAddressList("From", []*mail.Address{{Name: e.Sender.Name, Address: e.Sender.Email}})
	h.SetAddressList("To", []*mail.Address{{Name: e.Recipient.Name, Address: e.Recipient.Email}})
	h.SetSubject(e.Subject)
	if t := e.Time(); !t.IsZero() {
		h.SetDate(t)
	}
	if e.ID != "" {
		h.SetMessageID(e.ID + "@mailpane")
	}
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	// Bodies are written as-is so line endings survive export.
	h.Set("Content-Transfer-Encoding", "8bit")
	for _, a := range e.Attachments {
		h.Add(AttachmentHeader, fmt.Sprintf("%q; size=%q; url=%s", a.Filename, a.Size, a.URL))
	}
	return h
}

// WriteEML writes e as a single-part text/plain message.
func WriteEML(w io.Writer, e model.Email) error {
	mw, err := mail.CreateSingleInlineWriter(w, header(e))
	if err != nil {
		return fmt.Errorf("creating message writer: %w", err)
	}
	if _, err := io.WriteString(mw, e.Body); err != nil {
		mw.Close()
		return fmt.Errorf("writing message body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("closing message writer: %w", err)
	}
	return nil
}

// Filename builds a stable, filesystem-safe name for e.
func Filename(e model.Email) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(e.Subject) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if runes := []rune(slug); len(runes) > 40 {
		slug = strings.Trim(string(runes[:40]), "-")
	}
	if slug == "" {
		return e.ID + ".eml"
	}
	return e.ID + "-" + slug + ".eml"
}

// Export writes e into dir and returns the file path.
func Export(dir string, e model.Email) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, Filename(e))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteEML(f, e); err != nil {
		f.Close()
		return "", fmt.Errorf("exporting email %s: %w", e.ID, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}
	return path, nil
}
