package poem

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/text/unicode/norm"
)

// DomainRecord is the domain prefix for record fingerprints.
// Version suffix enables future algorithm migration.
const DomainRecord = "stanza/record/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint identifies a record by content, ignoring its id.
// Two records with the same payload fingerprint equally regardless of key
// order, insignificant whitespace or Unicode normalization form.
func (r *Record) Fingerprint() (string, error) {
	body, err := r.canonicalBody()
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(DomainRecord, body), nil
}

// canonicalBody renders every field except id with sorted keys and
// compacted, NFC-normalized values.
func (r *Record) canonicalBody() ([]byte, error) {
	fields := make([]Field, 0, len(r.fields))
	for _, f := range r.fields {
		if f.Key == FieldID {
			continue
		}
		fields = append(fields, f)
	}
	slices.SortFunc(fields, func(a, b Field) int {
		switch {
		case a.Key < b.Key:
			return -1
		case a.Key > b.Key:
			return 1
		}
		return 0
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, f.Key); err != nil {
			return nil, err
		}
		if err := json.Compact(&buf, f.Value); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	buf.WriteByte('}')

	return norm.NFC.Bytes(buf.Bytes()), nil
}
