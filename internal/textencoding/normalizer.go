// Package textencoding turns uploaded statement bytes into UTF-8 text.
//
// Card issuers export in Shift_JIS, EUC-JP or UTF-8 depending on the portal
// and the user's browser. Detection runs in three steps: byte-order marks,
// UTF-8 validity, then a statistical guess from chardet. A guess that is not
// confident enough, names a charset no Japanese issuer uses, or decodes with
// replacement characters falls back to trial decoding with every Japanese
// candidate. When no candidate decodes cleanly the input is rejected.
package textencoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"kakeibo/internal/logging"
	"kakeibo/internal/parsererror"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Canonical encoding names reported in Result.Encoding.
const (
	UTF8      = "UTF-8"
	ShiftJIS  = "Shift_JIS"
	EUCJP     = "EUC-JP"
	ISO2022JP = "ISO-2022-JP"
	UTF16LE   = "UTF-16LE"
	UTF16BE   = "UTF-16BE"
)

const bom = "\uFEFF"

// DefaultMinConfidence is used when the normalizer is built with 0.
const DefaultMinConfidence = 50

// supported maps chardet charset names onto the canonical names accepted
// without trial decoding.
var supported = map[string]string{
	"UTF-8":       UTF8,
	"Shift_JIS":   ShiftJIS,
	"EUC-JP":      EUCJP,
	"ISO-2022-JP": ISO2022JP,
	"UTF-16LE":    UTF16LE,
	"UTF-16BE":    UTF16BE,
}

// autoCandidates are tried in order when detection is inconclusive; ties go
// to the earlier entry.
var autoCandidates = []struct {
	name string
	enc  encoding.Encoding
}{
	{ShiftJIS, japanese.ShiftJIS},
	{EUCJP, japanese.EUCJP},
	{ISO2022JP, japanese.ISO2022JP},
}

// Result is the decoded text and how it was obtained.
type Result struct {
	Text     string
	Encoding string
	// Detected is false when trial decoding picked the encoding.
	Detected bool
}

// Normalizer decodes arbitrary statement bytes to UTF-8.
type Normalizer struct {
	minConfidence int
	detector      *chardet.Detector
	logger        logging.Logger
}

// NewNormalizer creates a Normalizer. minConfidence is the chardet score
// (0-100) a guess needs to be trusted.
func NewNormalizer(minConfidence int, logger logging.Logger) *Normalizer {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Normalizer{
		minConfidence: minConfidence,
		detector:      chardet.NewTextDetector(),
		logger:        logger,
	}
}

// Normalize reads r fully and decodes it. Read and decode failures are
// reported as *parsererror.FileReadError. A leading byte-order mark is
// removed. Blank input yields an empty Text and no error; deciding whether
// that is acceptable is up to the caller.
func (n *Normalizer) Normalize(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, &parsererror.FileReadError{Err: err}
	}
	return n.NormalizeBytes(data)
}

// NormalizeBytes is Normalize for an in-memory buffer.
func (n *Normalizer) NormalizeBytes(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{Encoding: UTF8, Detected: true}, nil
	}

	name, enc, detected, err := n.detect(data)
	if err != nil {
		return Result{}, &parsererror.FileReadError{Err: err}
	}
	text, err := decode(data, enc)
	if err != nil {
		return Result{}, &parsererror.FileReadError{Err: fmt.Errorf("decode as %s: %w", name, err)}
	}

	n.logger.Debug("Decoded statement",
		logging.F(logging.FieldEncoding, name),
		logging.F("detected", detected),
		logging.F("bytes", len(data)))

	return Result{
		Text:     strings.TrimPrefix(text, bom),
		Encoding: name,
		Detected: detected,
	}, nil
}

func (n *Normalizer) detect(data []byte) (string, encoding.Encoding, bool, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return UTF8, unicode.UTF8, true, nil
	case bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		return UTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), true, nil
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}):
		return UTF16BE, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), true, nil
	}

	if utf8.Valid(data) {
		if bytes.Contains(data, []byte("\x1b$B")) || bytes.Contains(data, []byte("\x1b$@")) {
			return ISO2022JP, japanese.ISO2022JP, true, nil
		}
		return UTF8, unicode.UTF8, true, nil
	}

	if name, enc, ok := n.guess(data); ok {
		return name, enc, true, nil
	}

	name, enc, err := trialDecode(data)
	if err != nil {
		return "", nil, false, err
	}
	n.logger.Debug("Encoding detection inconclusive, picked by trial decoding",
		logging.F(logging.FieldEncoding, name))
	return name, enc, false, nil
}

// guess asks chardet and accepts the answer only if it is confident and
// names a supported charset.
func (n *Normalizer) guess(data []byte) (string, encoding.Encoding, bool) {
	res, err := n.detector.DetectBest(data)
	if err != nil || res == nil {
		return "", nil, false
	}

	canonical, ok := supported[res.Charset]
	if !ok || res.Confidence < n.minConfidence {
		n.logger.Debug("Ignoring charset guess",
			logging.F(logging.FieldEncoding, res.Charset),
			logging.F(logging.FieldConfidence, res.Confidence))
		return "", nil, false
	}

	enc, _ := charset.Lookup(canonical)
	if enc == nil {
		return "", nil, false
	}
	text, err := decode(data, enc)
	if err != nil {
		return "", nil, false
	}
	if replaced, _ := decodeQuality(text); replaced > 0 {
		n.logger.Debug("Ignoring charset guess that produces replacement characters",
			logging.F(logging.FieldEncoding, canonical))
		return "", nil, false
	}
	return canonical, enc, true
}

// errNoCleanDecoding means every candidate produced replacement characters.
var errNoCleanDecoding = errors.New("no Japanese encoding decodes the data without replacement characters")

// trialDecode decodes data with each Japanese candidate. Only decodings
// without replacement characters qualify; among those the one with the
// fewest half-width katakana wins. EUC-JP read as Shift_JIS decodes cleanly
// but turns most kana into half-width katakana, which the tie-break catches.
func trialDecode(data []byte) (string, encoding.Encoding, error) {
	var (
		bestName  string
		bestEnc   encoding.Encoding
		bestScore = -1
	)
	for _, c := range autoCandidates {
		text, err := decode(data, c.enc)
		if err != nil {
			continue
		}
		replaced, halfWidth := decodeQuality(text)
		if replaced > 0 {
			continue
		}
		if bestScore < 0 || halfWidth < bestScore {
			bestName, bestEnc, bestScore = c.name, c.enc, halfWidth
		}
	}
	if bestEnc == nil {
		return "", nil, errNoCleanDecoding
	}
	return bestName, bestEnc, nil
}

func decode(data []byte, enc encoding.Encoding) (string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// decodeQuality counts replacement characters and half-width katakana.
func decodeQuality(text string) (replaced, halfWidth int) {
	for _, r := range text {
		switch {
		case r == utf8.RuneError:
			replaced++
		case r >= 0xFF61 && r <= 0xFF9F:
			halfWidth++
		}
	}
	return replaced, halfWidth
}
