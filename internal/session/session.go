package session

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// TokenKey is the fixed key the bearer token is stored under.
const TokenKey = "jwt_token"

// Store persists a single bearer token.
type Store interface {
	Get(ctx context.Context) (token string, ok bool, err error)
	Set(ctx context.Context, token string) error
}

type Session struct {
	store Store
	log   zerolog.Logger
}

func New(store Store, log zerolog.Logger) *Session {
	return &Session{store: store, log: log}
}

// SaveToken stores token as-is, replacing any previous one.
func (s *Session) SaveToken(ctx context.Context, token string) error {
	if err := s.store.Set(ctx, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Token returns the stored token. Store errors are logged and read as "no token".
func (s *Session) Token(ctx context.Context) (string, bool) {
	token, ok, err := s.store.Get(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session store read failed")
		return "", false
	}
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// AuthHeader returns {"Authorization": "Bearer <token>"}, or an empty map
// when no token is stored.
func (s *Session) AuthHeader(ctx context.Context) map[string]string {
	token, ok := s.Token(ctx)
	if !ok {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// CurrentUserID decodes the user id of the stored token.
func (s *Session) CurrentUserID(ctx context.Context) (string, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return "", false
	}
	return UserIDFromToken(token)
}

var parser = jwt.NewParser(jwt.WithPaddingAllowed())

// UserIDFromToken reads the user_id field from the payload segment of a
// three-part token. Only the payload is decoded: the header and signature
// are not checked. Any malformed input yields ("", false).
func UserIDFromToken(token string) (string, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return "", false
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return "", false
	}

	var claims map[string]any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&claims); err != nil {
		return "", false
	}

	switch v := claims["user_id"].(type) {
	case json.Number:
		return v.String(), true
	case string:
		return v, true
	default:
		return "", false
	}
}

// decodeSegment accepts base64url (as issued by JWT libraries) and standard
// base64, padded or not.
func decodeSegment(seg string) ([]byte, error) {
	if b, err := parser.DecodeSegment(seg); err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "=")); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(seg)
}
