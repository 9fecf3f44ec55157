// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// tokenExpiry returns the expiry instant embedded in a JWT access token.
//
// The record store issues tokens in JWT format: three dot-separated base64url
// segments whose middle segment decodes to JSON with an exp field in epoch
// seconds. Tokens that deviate from that shape in any way (wrong segment
// count, undecodable claims, non-JSON claims, missing or non-positive exp)
// are not rejected; they fall back to now plus defaultLifetime so the token
// is still usable for a bounded window.
func tokenExpiry(token string, now time.Time) time.Time {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return now.Add(defaultLifetime)
	}

	claims, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		// Some issuers pad their segments.
		claims, err = base64.URLEncoding.DecodeString(parts[1])
		if err != nil {
			return now.Add(defaultLifetime)
		}
	}

	var body struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(claims, &body); err != nil || body.Exp <= 0 {
		return now.Add(defaultLifetime)
	}

	return time.Unix(body.Exp, 0)
}
