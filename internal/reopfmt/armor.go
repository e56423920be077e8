package reopfmt

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/reop/reop/internal/reoperr"
)

// ArmorWidth is the maximum line length of an emitted base64 payload line.
const ArmorWidth = 76

// Kind names the four armored block kinds.
type Kind string

const (
	KindPublicKey    Kind = "PUBLIC KEY"
	KindSecretKey    Kind = "SECRET KEY"
	KindSignature    Kind = "SIGNATURE"
	KindEncryptedMsg Kind = "ENCRYPTED MESSAGE"
)

func beginLine(kind Kind) string { return fmt.Sprintf("-----BEGIN REOP %s-----", kind) }
func endLine(kind Kind) string   { return fmt.Sprintf("-----END REOP %s-----", kind) }
func signedBeginLine() string    { return "-----BEGIN REOP SIGNED MESSAGE-----" }
func signedSigBeginLine() string { return "-----BEGIN REOP SIGNATURE-----" }
func signedEndLine() string      { return "-----END REOP SIGNED MESSAGE-----" }

// encryptedDataBeginLine is the literal opener of the second (ciphertext)
// block of an armored encrypted message.
const encryptedDataBeginLine = "-----BEGIN REOP ENCRYPTED MESSAGE DATA-----"

func wrapBase64(payload []byte) string {
	enc := base64.StdEncoding.EncodeToString(payload)
	var b strings.Builder
	for i := 0; i < len(enc); i += ArmorWidth {
		end := i + ArmorWidth
		if end > len(enc) {
			end = len(enc)
		}
		b.WriteString(enc[i:end])
		b.WriteByte('\n')
	}
	return b.String()
}

func validateIdent(ident string) error {
	if len(ident) > MaxIdentBytes {
		return reoperr.New(reoperr.KindFormat, "ident exceeds 63 bytes")
	}
	if strings.ContainsAny(ident, "\r\n") {
		return reoperr.New(reoperr.KindFormat, "ident contains a line break")
	}
	return nil
}

// Encode produces an armored block of the given kind, ident, and payload.
func Encode(kind Kind, ident string, payload []byte) ([]byte, error) {
	if err := validateIdent(ident); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	fmt.Fprintln(&b, beginLine(kind))
	fmt.Fprintf(&b, "ident:%s\n", ident)
	b.WriteString(wrapBase64(payload))
	fmt.Fprintln(&b, endLine(kind))
	return b.Bytes(), nil
}

// Decode parses an armored block of the given kind. expectedSize, if
// nonzero, is checked exactly against the decoded payload length; a
// mismatch (or a base64 error) is a hard rejection.
func Decode(data []byte, kind Kind, expectedSize int) (ident string, payload []byte, err error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), MaxInputSize)

	if !sc.Scan() {
		return "", nil, reoperr.New(reoperr.KindFormat, "empty armored input")
	}
	if strings.TrimRight(sc.Text(), "\r") != beginLine(kind) {
		return "", nil, reoperr.New(reoperr.KindFormat, "missing or wrong BEGIN line for "+string(kind))
	}

	if !sc.Scan() {
		return "", nil, reoperr.New(reoperr.KindFormat, "missing ident line")
	}
	line := strings.TrimRight(sc.Text(), "\r")
	if !strings.HasPrefix(line, "ident:") {
		return "", nil, reoperr.New(reoperr.KindFormat, "missing ident: prefix")
	}
	ident = strings.TrimPrefix(line, "ident:")
	if err := validateIdent(ident); err != nil {
		return "", nil, err
	}

	var b64 strings.Builder
	end := endLine(kind)
	found := false
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if l == end {
			found = true
			break
		}
		b64.WriteString(l)
	}
	if !found {
		return "", nil, reoperr.New(reoperr.KindFormat, "missing END line for "+string(kind))
	}

	payload, err = base64.StdEncoding.DecodeString(b64.String())
	if err != nil {
		return "", nil, reoperr.Wrap(reoperr.KindFormat, "base64 decode", err)
	}
	if expectedSize != 0 && len(payload) != expectedSize {
		return "", nil, reoperr.New(reoperr.KindFormat, "decoded payload size mismatch")
	}
	return ident, payload, nil
}

// EncodeEncryptedMessage produces the two-block armored encrypted-message
// form: a header block (whose decoded length discriminates the envelope
// variant) followed by a DATA block carrying the raw ciphertext.
func EncodeEncryptedMessage(ident string, header, ciphertext []byte) ([]byte, error) {
	if err := validateIdent(ident); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	fmt.Fprintln(&b, beginLine(KindEncryptedMsg))
	fmt.Fprintf(&b, "ident:%s\n", ident)
	b.WriteString(wrapBase64(header))
	fmt.Fprintln(&b, encryptedDataBeginLine)
	b.WriteString(wrapBase64(ciphertext))
	fmt.Fprintln(&b, endLine(KindEncryptedMsg))
	return b.Bytes(), nil
}

// DecodeEncryptedMessage parses the two-block armored encrypted-message
// form produced by EncodeEncryptedMessage.
func DecodeEncryptedMessage(data []byte) (ident string, header, ciphertext []byte, err error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), MaxInputSize)

	if !sc.Scan() || strings.TrimRight(sc.Text(), "\r") != beginLine(KindEncryptedMsg) {
		return "", nil, nil, reoperr.New(reoperr.KindFormat, "missing BEGIN line for encrypted message")
	}
	if !sc.Scan() {
		return "", nil, nil, reoperr.New(reoperr.KindFormat, "missing ident line")
	}
	line := strings.TrimRight(sc.Text(), "\r")
	if !strings.HasPrefix(line, "ident:") {
		return "", nil, nil, reoperr.New(reoperr.KindFormat, "missing ident: prefix")
	}
	ident = strings.TrimPrefix(line, "ident:")
	if err := validateIdent(ident); err != nil {
		return "", nil, nil, err
	}

	var headerB64 strings.Builder
	foundData := false
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if l == encryptedDataBeginLine {
			foundData = true
			break
		}
		headerB64.WriteString(l)
	}
	if !foundData {
		return "", nil, nil, reoperr.New(reoperr.KindFormat, "missing DATA block opener")
	}

	var ctB64 strings.Builder
	foundEnd := false
	end := endLine(KindEncryptedMsg)
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if l == end {
			foundEnd = true
			break
		}
		ctB64.WriteString(l)
	}
	if !foundEnd {
		return "", nil, nil, reoperr.New(reoperr.KindFormat, "missing END line for encrypted message")
	}

	header, err = base64.StdEncoding.DecodeString(headerB64.String())
	if err != nil {
		return "", nil, nil, reoperr.Wrap(reoperr.KindFormat, "base64 decode header", err)
	}
	ciphertext, err = base64.StdEncoding.DecodeString(ctB64.String())
	if err != nil {
		return "", nil, nil, reoperr.Wrap(reoperr.KindFormat, "base64 decode ciphertext", err)
	}
	return ident, header, ciphertext, nil
}

// PadSignedMessage returns message with a separating newline appended if
// it is empty or does not already end in one. This is the exact byte
// string that ends up between the SIGNED MESSAGE opener and the
// SIGNATURE opener in an embedded signed-message file, so callers that
// need to sign what will actually be recovered on verify (rather than
// the caller's original, possibly-unterminated message) must sign the
// result of this function, not message itself.
func PadSignedMessage(message []byte) []byte {
	if len(message) == 0 || message[len(message)-1] != '\n' {
		padded := make([]byte, len(message)+1)
		copy(padded, message)
		padded[len(message)] = '\n'
		return padded
	}
	return message
}

// EncodeSignedMessage wraps message with an embedded signature block,
// producing a single self-contained signed-message file. message must
// already be padded via PadSignedMessage if the signature was computed
// over the padded form; EncodeSignedMessage itself still pads
// defensively so the emitted file is always well-formed.
func EncodeSignedMessage(message []byte, ident string, sigPayload []byte) ([]byte, error) {
	if err := validateIdent(ident); err != nil {
		return nil, err
	}
	var b bytes.Buffer
	fmt.Fprintln(&b, signedBeginLine())
	b.Write(PadSignedMessage(message))
	fmt.Fprintln(&b, signedSigBeginLine())
	fmt.Fprintf(&b, "ident:%s\n", ident)
	b.WriteString(wrapBase64(sigPayload))
	fmt.Fprintln(&b, signedEndLine())
	return b.Bytes(), nil
}

// SplitSignedMessage splits an embedded signed-message file into the
// message span and the trailing signature block. The message span is
// defined as the bytes between the end of the SIGNED MESSAGE opener and
// the LAST occurrence of the SIGNATURE opener in the file: message
// content may legitimately contain a substring that looks like the
// opener, so every occurrence must be found and the final one used.
func SplitSignedMessage(data []byte) (message []byte, ident string, sigPayload []byte, err error) {
	openerLine := signedBeginLine()
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 || string(bytes.TrimRight(data[:nl], "\r")) != openerLine {
		return nil, "", nil, reoperr.New(reoperr.KindFormat, "missing BEGIN REOP SIGNED MESSAGE line")
	}
	body := data[nl+1:]

	// Find every occurrence of the signature-opener line — at the very
	// start of body, or immediately following a newline — and keep the
	// last one: message content may legitimately contain a substring
	// that looks like the opener, so only the final match is authoritative.
	sigMarker := []byte(signedSigBeginLine() + "\n")
	last := -1
	if bytes.HasPrefix(body, sigMarker) {
		last = 0
	}
	withNL := append([]byte("\n"), sigMarker...)
	for search := 0; ; {
		idx := bytes.Index(body[search:], withNL)
		if idx < 0 {
			break
		}
		last = search + idx + 1 // +1 skips the leading \n, landing on the opener itself
		search = last
	}
	if last < 0 {
		return nil, "", nil, reoperr.New(reoperr.KindFormat, "missing BEGIN REOP SIGNATURE line")
	}

	message = body[:last]
	sigBlock := body[last+len(sigMarker):]

	identAndRest := bytes.SplitN(sigBlock, []byte("\n"), 2)
	if len(identAndRest) != 2 {
		return nil, "", nil, reoperr.New(reoperr.KindFormat, "missing ident line in signature block")
	}
	identLine := string(bytes.TrimRight(identAndRest[0], "\r"))
	if !strings.HasPrefix(identLine, "ident:") {
		return nil, "", nil, reoperr.New(reoperr.KindFormat, "missing ident: prefix in signature block")
	}
	ident = strings.TrimPrefix(identLine, "ident:")
	if err := validateIdent(ident); err != nil {
		return nil, "", nil, err
	}

	sc := bufio.NewScanner(bytes.NewReader(identAndRest[1]))
	sc.Buffer(make([]byte, 0, 64*1024), MaxInputSize)
	var b64 strings.Builder
	foundEnd := false
	for sc.Scan() {
		l := strings.TrimRight(sc.Text(), "\r")
		if l == signedEndLine() {
			foundEnd = true
			break
		}
		b64.WriteString(l)
	}
	if !foundEnd {
		return nil, "", nil, reoperr.New(reoperr.KindFormat, "missing END REOP SIGNED MESSAGE line")
	}

	sigPayload, err = base64.StdEncoding.DecodeString(b64.String())
	if err != nil {
		return nil, "", nil, reoperr.Wrap(reoperr.KindFormat, "base64 decode signature", err)
	}
	return message, ident, sigPayload, nil
}
