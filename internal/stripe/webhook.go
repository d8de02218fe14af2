package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance bounds how old a signed webhook payload may be.
const DefaultTolerance = 5 * time.Minute

var (
	ErrNoSignature      = errors.New("no signature header")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrTimestampExpired = errors.New("signature timestamp outside tolerance")
)

// Event is a Stripe webhook event envelope. Data.Object stays raw so each
// event type can be decoded into the matching struct.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// ConstructEvent verifies a Stripe-Signature header ("t=<ts>,v1=<hex>")
// against the shared endpoint secret and returns the parsed event. The
// signed payload is "<ts>.<body>" and is checked with HMAC-SHA256 under a
// constant-time comparison.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	if sigHeader == "" {
		return nil, ErrNoSignature
	}

	var timestamp int64
	var signatures [][]byte
	for _, part := range strings.Split(sigHeader, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			ts, err := strconv.ParseInt(kv[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			sig, err := hex.DecodeString(kv[1])
			if err != nil {
				continue
			}
			signatures = append(signatures, sig)
		}
	}

	if timestamp == 0 || len(signatures) == 0 {
		return nil, ErrInvalidSignature
	}
	age := time.Since(time.Unix(timestamp, 0))
	if age > DefaultTolerance || age < -DefaultTolerance {
		return nil, ErrTimestampExpired
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	expected := mac.Sum(nil)

	verified := false
	for _, sig := range signatures {
		if hmac.Equal(expected, sig) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event: %w", err)
	}

	return &event, nil
}
