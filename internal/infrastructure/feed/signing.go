package feed

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"time"
)

// RequestSigner computes per-request HMAC signatures for feeds that
// authenticate with a shared secret over the request line.
type RequestSigner struct {
	Identity string
	Secret   string
}

// Signature is one signed request's authentication material
type Signature struct {
	Signature string
	Date      string
	Identity  string
}

// Sign computes the signature for a request. The signing string is the
// concatenation of the HTTP method, the raw query string, the caller
// identity and the RFC 1123 timestamp; the same timestamp must be sent
// in the Date header or the feed rejects the request.
func (s RequestSigner) Sign(method, rawQuery string, now time.Time) Signature {
	date := now.UTC().Format(time.RFC1123)
	mac := hmac.New(sha1.New, []byte(s.Secret))
	mac.Write([]byte(method + rawQuery + s.Identity + date))
	return Signature{
		Signature: hex.EncodeToString(mac.Sum(nil)),
		Date:      date,
		Identity:  s.Identity,
	}
}
