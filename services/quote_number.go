package services

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	quoteNumberPrefix = "MT"
	suffixLength      = 4
	suffixAlphabet    = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// Uniqueness is probabilistic; a handful of retries against the in-use
	// set is enough to make accidental collisions a non-issue.
	maxSuffixRetries = 5
)

// QuoteNumberGenerator produces human-readable quotation identifiers of the
// form MT{DDMMYY}-{CLEANNAME}-{SUFFIX}. Both the clock and the random source
// are injectable so generated numbers are reproducible in tests.
type QuoteNumberGenerator struct {
	Now  func() time.Time
	Rand io.Reader
}

// NewQuoteNumberGenerator returns a generator backed by the wall clock and
// crypto/rand.
func NewQuoteNumberGenerator() *QuoteNumberGenerator {
	return &QuoteNumberGenerator{Now: time.Now, Rand: rand.Reader}
}

// Generate composes a fresh quote number. The name segment is the client name
// with any parenthesized suffix stripped, uppercased and reduced to A-Z0-9;
// when that leaves nothing the segment is omitted entirely. existing holds
// every number already in use (active and archived); candidates colliding
// with it are regenerated a bounded number of times.
func (g *QuoteNumberGenerator) Generate(clientName string, existing map[string]struct{}) (string, error) {
	stamp := g.Now().Format("020106")
	name := cleanClientName(clientName)

	var candidate string
	for attempt := 0; attempt < maxSuffixRetries; attempt++ {
		suffix, err := g.randomSuffix()
		if err != nil {
			return "", fmt.Errorf("quote number suffix: %w", err)
		}

		if name == "" {
			candidate = fmt.Sprintf("%s%s-%s", quoteNumberPrefix, stamp, suffix)
		} else {
			candidate = fmt.Sprintf("%s%s-%s-%s", quoteNumberPrefix, stamp, name, suffix)
		}

		if _, taken := existing[candidate]; !taken {
			return candidate, nil
		}
	}

	return candidate, nil
}

// cleanClientName strips a trailing parenthesized suffix such as an email
// hint ("Acme (acme@x.com)" becomes "Acme"), uppercases the remainder and
// drops everything outside A-Z and 0-9.
func cleanClientName(name string) string {
	if idx := strings.Index(name, "("); idx >= 0 {
		name = name[:idx]
	}
	name = strings.ToUpper(strings.TrimSpace(name))

	var b strings.Builder
	for _, r := range name {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// randomSuffix draws suffixLength characters from the alphabet. Bytes at or
// above the largest multiple of the alphabet size are rejected so every
// character is equally likely.
func (g *QuoteNumberGenerator) randomSuffix() (string, error) {
	const limit = byte(256 - 256%len(suffixAlphabet))

	out := make([]byte, 0, suffixLength)
	buf := make([]byte, 1)
	for len(out) < suffixLength {
		if _, err := io.ReadFull(g.Rand, buf); err != nil {
			return "", err
		}
		if buf[0] >= limit {
			continue
		}
		out = append(out, suffixAlphabet[int(buf[0])%len(suffixAlphabet)])
	}
	return string(out), nil
}

// StripQuotePrefix removes a leading "QT" (any case) from a quote number.
// Display titles and generated filenames both use the stripped form.
func StripQuotePrefix(quoteNumber string) string {
	if len(quoteNumber) >= 2 && strings.EqualFold(quoteNumber[:2], "QT") {
		return quoteNumber[2:]
	}
	return quoteNumber
}

// QuoteFileName is the download filename for a quotation document.
func QuoteFileName(quoteNumber string) string {
	return StripQuotePrefix(quoteNumber) + ".pdf"
}
