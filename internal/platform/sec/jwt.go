// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, token management and the
// access decisions that guard every protected route.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing and
// Verification, Role checks) from the domain logic. Verification keys and the
// accepted algorithm list come from configuration only, never from the token.
package sec

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taibuivan/cadenza/internal/platform/apperr"
)

var (
	errNoAlgorithms     = errors.New("sec: at least one signing algorithm is required")
	errMissingSubject   = errors.New("sec: token has no subject")
	errUnexpectedMethod = errors.New("sec: signing method does not match the configured key")
)

// Claims is the decoded payload of a verified access token.
// It exists only for the duration of one request.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Algorithm string
}

// # Verification

// TokenVerifier validates bearer tokens against a configured public key and an
// explicit allow-list of asymmetric signing algorithms.
type TokenVerifier struct {
	publicKey  crypto.PublicKey
	algorithms []string
	parser     *jwt.Parser
}

// VerifierOption customises a [TokenVerifier].
type VerifierOption func(*verifierOptions)

type verifierOptions struct {
	issuer string
	now    func() time.Time
}

// WithIssuer requires the 'iss' claim to equal issuer.
func WithIssuer(issuer string) VerifierOption {
	return func(o *verifierOptions) { o.issuer = issuer }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) VerifierOption {
	return func(o *verifierOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// NewTokenVerifier creates a verifier for publicKey accepting only the given
// algorithms.
//
// Every algorithm must be asymmetric and match the key type; HS* and "none"
// are rejected here so that a misconfiguration fails at startup.
func NewTokenVerifier(publicKey crypto.PublicKey, algorithms []string, opts ...VerifierOption) (*TokenVerifier, error) {
	if len(algorithms) == 0 {
		return nil, errNoAlgorithms
	}

	options := verifierOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	accepted := make([]string, 0, len(algorithms))
	for _, alg := range algorithms {
		alg = strings.TrimSpace(alg)
		method := jwt.GetSigningMethod(alg)
		if method == nil {
			return nil, fmt.Errorf("sec: unknown signing algorithm %q", alg)
		}
		if !keyMatchesMethod(publicKey, method) {
			return nil, fmt.Errorf("sec: algorithm %q is not usable with the configured %T key", alg, publicKey)
		}
		accepted = append(accepted, alg)
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods(accepted),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(options.now),
	}
	if options.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(options.issuer))
	}

	return &TokenVerifier{
		publicKey:  publicKey,
		algorithms: accepted,
		parser:     jwt.NewParser(parserOptions...),
	}, nil
}

// Algorithms returns a copy of the accepted algorithm list.
func (verifier *TokenVerifier) Algorithms() []string {
	return append([]string(nil), verifier.algorithms...)
}

// Verify checks signature, algorithm and expiry of tokenString and returns its claims.
//
// Every failure is an Unauthorized [apperr.AppError] carrying the same
// message; the precise reason is kept in Cause for logging.
func (verifier *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, unauthorized(errors.New("sec: token is empty"))
	}

	registered := &jwt.RegisteredClaims{}
	token, err := verifier.parser.ParseWithClaims(tokenString, registered, verifier.keyFunc)
	if err != nil {
		return nil, unauthorized(fmt.Errorf("sec: invalid token: %w", err))
	}
	if !token.Valid {
		return nil, unauthorized(errors.New("sec: token is not valid"))
	}
	if registered.Subject == "" {
		return nil, unauthorized(errMissingSubject)
	}

	claims := &Claims{
		Subject:   registered.Subject,
		Algorithm: token.Method.Alg(),
	}
	if registered.IssuedAt != nil {
		claims.IssuedAt = registered.IssuedAt.Time
	}
	if registered.ExpiresAt != nil {
		claims.ExpiresAt = registered.ExpiresAt.Time
	}

	return claims, nil
}

// keyFunc hands the configured key to the parser after a family check.
// WithValidMethods already filters by name; this guards against a method
// registered under an allowed name but of a different key family.
func (verifier *TokenVerifier) keyFunc(token *jwt.Token) (any, error) {
	if !keyMatchesMethod(verifier.publicKey, token.Method) {
		return nil, fmt.Errorf("%w: %v", errUnexpectedMethod, token.Header["alg"])
	}
	return verifier.publicKey, nil
}

// keyMatchesMethod reports whether method is an asymmetric family usable with key.
func keyMatchesMethod(key crypto.PublicKey, method jwt.SigningMethod) bool {
	switch method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		_, ok := key.(*rsa.PublicKey)
		return ok
	case *jwt.SigningMethodECDSA:
		_, ok := key.(*ecdsa.PublicKey)
		return ok
	case *jwt.SigningMethodEd25519:
		_, ok := key.(ed25519.PublicKey)
		return ok
	default:
		return false
	}
}

func unauthorized(cause error) *apperr.AppError {
	err := apperr.Unauthorized(MsgNotAuthorized)
	err.Cause = cause
	return err
}

// # Issuance

// TokenIssuer signs RS256 access tokens for the login flow.
type TokenIssuer struct {
	privateKey *rsa.PrivateKey
	issuer     string
	now        func() time.Time
}

// NewTokenIssuer creates an issuer signing with privateKey.
func NewTokenIssuer(privateKey *rsa.PrivateKey, issuer string) *TokenIssuer {
	return &TokenIssuer{privateKey: privateKey, issuer: issuer, now: time.Now}
}

// GenerateAccessToken creates a signed access token whose subject is userID.
// The role is deliberately not embedded; it is resolved from the store per request.
func (issuer *TokenIssuer) GenerateAccessToken(userID string, timeToLive time.Duration) (string, time.Time, error) {
	currentTime := issuer.now()
	expiresAt := currentTime.Add(timeToLive)

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   userID,
		Issuer:    issuer.issuer,
		IssuedAt:  jwt.NewNumericDate(currentTime),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(issuer.privateKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// # Key Loading

// LoadPublicKey reads a PEM public key (RSA, ECDSA or Ed25519) from path.
func LoadPublicKey(path string) (crypto.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read public key from %s: %w", path, err)
	}

	if key, err := jwt.ParseRSAPublicKeyFromPEM(data); err == nil {
		return key, nil
	}
	if key, err := jwt.ParseECPublicKeyFromPEM(data); err == nil {
		return key, nil
	}
	if key, err := jwt.ParseEdPublicKeyFromPEM(data); err == nil {
		return key, nil
	}

	return nil, fmt.Errorf("sec: %s does not contain a supported public key", path)
}

// LoadRSAPrivateKey reads a PEM RSA private key from path.
func LoadRSAPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to read private key from %s: %w", path, err)
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return nil, fmt.Errorf("sec: failed to parse private key: %w", err)
	}

	return key, nil
}
