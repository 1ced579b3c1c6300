package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/projectgate/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	// MaxPasswordBytes is the bcrypt input limit, enforced for every
	// algorithm so the policy does not depend on configuration.
	MaxPasswordBytes = 72

	argonMemoryKB = 19 * 1024
	argonThreads  = 1
	argonKeyLen   = 32
	argonSaltLen  = 16
	maxArgonTime  = 16

	dummyPassword = "projectgate-timing-equalizer"
)

// Hasher hashes and verifies passwords with a slow, salted primitive.
// The encoded form is self-describing, so Verify accepts hashes produced
// under either algorithm regardless of the current configuration.
type Hasher struct {
	algorithm  string
	workFactor int
	dummy      string
}

// NewHasher returns a Hasher for algorithm ("bcrypt" or "argon2id").
// workFactor is the bcrypt cost or the argon2id iteration count.
func NewHasher(algorithm string, workFactor int) (*Hasher, error) {
	switch algorithm {
	case AlgorithmBcrypt:
		if workFactor < bcrypt.MinCost || workFactor > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost must be in [%d, %d], got %d", bcrypt.MinCost, bcrypt.MaxCost, workFactor)
		}
	case AlgorithmArgon2id:
		if workFactor < 1 || workFactor > maxArgonTime {
			return nil, fmt.Errorf("argon2id time must be in [1, %d], got %d", maxArgonTime, workFactor)
		}
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}

	h := &Hasher{algorithm: algorithm, workFactor: workFactor}
	dummy, err := h.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	h.dummy = dummy
	return h, nil
}

// Hash returns encoded hash material for password. Two calls with the same
// password return different strings.
func (h *Hasher) Hash(password string) (string, error) {
	if err := validatePassword(password); err != nil {
		return "", err
	}

	switch h.algorithm {
	case AlgorithmArgon2id:
		return h.hashArgon2id(password)
	default:
		hash, err := bcrypt.GenerateFromPassword([]byte(password), h.workFactor)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hash), nil
	}
}

// Verify reports whether password matches encoded. Any mismatch, including
// unparseable hash material, yields false.
func (h *Hasher) Verify(password, encoded string) bool {
	if password == "" || len(password) > MaxPasswordBytes {
		return false
	}

	switch {
	case isBcrypt(encoded):
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	case strings.HasPrefix(encoded, "$"+AlgorithmArgon2id+"$"):
		p, err := decodeArgon2id(encoded)
		if err != nil {
			return false
		}
		candidate := argon2.IDKey([]byte(password), p.salt, p.time, p.memory, p.threads, uint32(len(p.hash)))
		return subtle.ConstantTimeCompare(candidate, p.hash) == 1
	default:
		return false
	}
}

// NeedsRehash reports whether encoded was produced with another algorithm
// or a weaker work factor than h is configured with.
func (h *Hasher) NeedsRehash(encoded string) bool {
	switch h.algorithm {
	case AlgorithmBcrypt:
		if !isBcrypt(encoded) {
			return true
		}
		cost, err := bcrypt.Cost([]byte(encoded))
		return err != nil || cost < h.workFactor
	default:
		p, err := decodeArgon2id(encoded)
		if err != nil {
			return true
		}
		return p.time < uint32(h.workFactor) || p.memory < argonMemoryKB
	}
}

// DummyHash is a valid hash of a fixed password. Verifying against it
// costs the same as verifying a real account, which keeps login timing
// flat for unknown usernames.
func (h *Hasher) DummyHash() string {
	return h.dummy
}

func validatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrorValidation, MaxPasswordBytes)
	}
	return nil
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") || strings.HasPrefix(encoded, "$2b$") || strings.HasPrefix(encoded, "$2y$")
}

func (h *Hasher) hashArgon2id(password string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, uint32(h.workFactor), argonMemoryKB, argonThreads, argonKeyLen)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id,
		argon2.Version,
		argonMemoryKB, h.workFactor, argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	hash    []byte
}

// decodeArgon2id parses $argon2id$v=19$m=...,t=...,p=...$<salt>$<hash>.
func decodeArgon2id(encoded string) (*argonParams, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != AlgorithmArgon2id {
		return nil, fmt.Errorf("invalid PHC hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("parsing version: %w", err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	p := &argonParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return nil, fmt.Errorf("parsing parameters: %w", err)
	}
	if p.memory == 0 || p.time == 0 || p.threads == 0 {
		return nil, fmt.Errorf("invalid argon2 parameters")
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decoding salt: %w", err)
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decoding hash: %w", err)
	}
	if len(p.hash) == 0 {
		return nil, fmt.Errorf("empty hash")
	}
	return p, nil
}
