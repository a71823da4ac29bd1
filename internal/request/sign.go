package request

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// The platform authenticates write calls with an HMAC-SHA256 over the JSON
// payload, keyed with a constant baked into the app build. Key and version
// must track the app version claimed by the user agent.
const (
	sigKey        = "19ce5f445dbfd9d29c59dc2a78c616a7fc090a8e018b9267bc4240a30244c53b"
	sigKeyVersion = "4"
)

func signPayload(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(sigKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
