package validate

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Pair is a single name/value entry inside a Payload. File is set instead of
// Value for multipart file parts.
type Pair struct {
	Name  string
	Value string
	File  *multipart.FileHeader
}

// Payload is an ordered multi-map of raw form values. It mirrors a structured
// form submission: repeated names are preserved (multi-selects, checkbox
// groups) and iteration follows submission order.
type Payload struct {
	pairs []Pair
	index map[string][]int
}

// NewPayload returns an empty payload.
func NewPayload() *Payload {
	return &Payload{index: make(map[string][]int)}
}

// FromValues builds a payload from url.Values. Go maps carry no order, so
// names are added in sorted order to keep the result deterministic.
func FromValues(values url.Values) *Payload {
	payload := NewPayload()
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range values[name] {
			payload.Add(name, value)
		}
	}
	return payload
}

// FromRequest extracts a payload from an incoming request. URL-encoded bodies
// are parsed directly so pairs retain their wire order; multipart bodies go
// through the standard parser and fall back to sorted-name order, with file
// parts appended after the value parts.
func FromRequest(r *http.Request, maxMemory int64) (*Payload, error) {
	if r == nil {
		return nil, fmt.Errorf("validate: request is nil")
	}
	if maxMemory <= 0 {
		maxMemory = 10 << 20
	}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			return nil, fmt.Errorf("validate: parse multipart form: %w", err)
		}
		payload := FromValues(r.MultipartForm.Value)
		fileNames := make([]string, 0, len(r.MultipartForm.File))
		for name := range r.MultipartForm.File {
			fileNames = append(fileNames, name)
		}
		sort.Strings(fileNames)
		for _, name := range fileNames {
			for _, header := range r.MultipartForm.File[name] {
				payload.AddFile(name, header)
			}
		}
		return payload, nil
	}

	if r.Body == nil {
		return FromValues(r.URL.Query()), nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMemory))
	if err != nil {
		return nil, fmt.Errorf("validate: read form body: %w", err)
	}
	if len(body) == 0 {
		return FromValues(r.URL.Query()), nil
	}
	return parseOrdered(string(body))
}

// parseOrdered decodes an application/x-www-form-urlencoded body while
// preserving the order pairs appeared on the wire.
func parseOrdered(body string) (*Payload, error) {
	payload := NewPayload()
	for _, segment := range strings.Split(body, "&") {
		if segment == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(segment, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("validate: decode field name %q: %w", rawName, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("validate: decode value for %q: %w", name, err)
		}
		payload.Add(name, value)
	}
	return payload, nil
}

// Add appends a value for the named field, preserving any existing entries.
func (p *Payload) Add(name, value string) {
	p.append(Pair{Name: name, Value: value})
}

// AddFile appends a file entry for the named field.
func (p *Payload) AddFile(name string, header *multipart.FileHeader) {
	p.append(Pair{Name: name, File: header})
}

// Set replaces every existing entry for the named field with a single value.
func (p *Payload) Set(name, value string) {
	p.Delete(name)
	p.Add(name, value)
}

// Delete removes every entry for the named field.
func (p *Payload) Delete(name string) {
	if p == nil || len(p.index[name]) == 0 {
		return
	}
	kept := make([]Pair, 0, len(p.pairs))
	for _, pair := range p.pairs {
		if pair.Name == name {
			continue
		}
		kept = append(kept, pair)
	}
	p.pairs = kept
	p.reindex()
}

// Get returns the first value recorded for the named field and whether the
// field is present at all.
func (p *Payload) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	positions := p.index[name]
	if len(positions) == 0 {
		return "", false
	}
	return p.pairs[positions[0]].Value, true
}

// GetAll returns every value recorded for the named field in order.
func (p *Payload) GetAll(name string) []string {
	if p == nil {
		return nil
	}
	positions := p.index[name]
	if len(positions) == 0 {
		return nil
	}
	out := make([]string, 0, len(positions))
	for _, pos := range positions {
		if p.pairs[pos].File != nil {
			continue
		}
		out = append(out, p.pairs[pos].Value)
	}
	return out
}

// File returns the first file header recorded for the named field.
func (p *Payload) File(name string) (*multipart.FileHeader, bool) {
	if p == nil {
		return nil, false
	}
	for _, pos := range p.index[name] {
		if p.pairs[pos].File != nil {
			return p.pairs[pos].File, true
		}
	}
	return nil, false
}

// Has reports whether the named field appears in the payload.
func (p *Payload) Has(name string) bool {
	return p != nil && len(p.index[name]) > 0
}

// Names lists field names in first-seen order without duplicates.
func (p *Payload) Names() []string {
	if p == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(p.index))
	names := make([]string, 0, len(p.index))
	for _, pair := range p.pairs {
		if _, ok := seen[pair.Name]; ok {
			continue
		}
		seen[pair.Name] = struct{}{}
		names = append(names, pair.Name)
	}
	return names
}

// Pairs returns the underlying entries in submission order. The slice is a
// copy; mutating it does not affect the payload.
func (p *Payload) Pairs() []Pair {
	if p == nil {
		return nil
	}
	out := make([]Pair, len(p.pairs))
	copy(out, p.pairs)
	return out
}

// Len returns the number of entries, counting repeats.
func (p *Payload) Len() int {
	if p == nil {
		return 0
	}
	return len(p.pairs)
}

// Values projects the payload into url.Values, dropping file entries.
func (p *Payload) Values() url.Values {
	out := url.Values{}
	if p == nil {
		return out
	}
	for _, pair := range p.pairs {
		if pair.File != nil {
			continue
		}
		out.Add(pair.Name, pair.Value)
	}
	return out
}

// Raw projects the payload into a plain map suitable for JSON transport, for
// example the repopulateFields member of an error response. File entries are
// dropped because they cannot survive a round-trip.
func (p *Payload) Raw() map[string][]string {
	if p == nil || len(p.pairs) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, pair := range p.pairs {
		if pair.File != nil {
			continue
		}
		out[pair.Name] = append(out[pair.Name], pair.Value)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FromRaw rebuilds a payload from the plain map produced by Raw. Names are
// added in sorted order for determinism.
func FromRaw(raw map[string][]string) *Payload {
	return FromValues(url.Values(raw))
}

// Clone returns an independent copy of the payload.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return NewPayload()
	}
	clone := NewPayload()
	for _, pair := range p.pairs {
		clone.append(pair)
	}
	return clone
}

// Encode serialises the payload as application/x-www-form-urlencoded text in
// submission order. File entries are skipped.
func (p *Payload) Encode() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for _, pair := range p.pairs {
		if pair.File != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.Value))
	}
	return b.String()
}

func (p *Payload) append(pair Pair) {
	if p.index == nil {
		p.index = make(map[string][]int)
	}
	p.pairs = append(p.pairs, pair)
	p.index[pair.Name] = append(p.index[pair.Name], len(p.pairs)-1)
}

func (p *Payload) reindex() {
	p.index = make(map[string][]int, len(p.pairs))
	for pos, pair := range p.pairs {
		p.index[pair.Name] = append(p.index[pair.Name], pos)
	}
}
