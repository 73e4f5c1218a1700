package fairness

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/crypto"
)

// SeedBytes is the entropy of a generated seed; its hex form is twice as long.
const SeedBytes = 32

// Scheme names the hash used to commit to a seed.
type Scheme string

const (
	// SHA256 is the default scheme.
	SHA256 Scheme = "sha256"
	// Keccak256 yields a digest that EVM contracts can recompute with keccak256().
	Keccak256 Scheme = "keccak256"
)

// ParseScheme accepts "" as the default scheme.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(s) {
	case "", SHA256:
		return SHA256, nil
	case Keccak256:
		return Keccak256, nil
	}
	return "", &FormatError{Field: "scheme", Value: s, Reason: "unknown commitment scheme"}
}

func (s Scheme) digest(seed string) []byte {
	if s == Keccak256 {
		return crypto.Keccak256([]byte(seed))
	}
	sum := sha256.Sum256([]byte(seed))
	return sum[:]
}

// Commit returns the lowercase hex digest of the seed text.
func (s Scheme) Commit(seed string) string {
	return hex.EncodeToString(s.digest(seed))
}

// GameCommitment binds a game to a secret seed. Seed stays server-side until
// the game ends; Commitment can be published immediately.
type GameCommitment struct {
	Seed       string `json:"-"`
	Commitment string `json:"commitment"`
	Scheme     Scheme `json:"scheme"`
}

// Generate draws a fresh seed and commits to it.
func (s Scheme) Generate() (GameCommitment, error) {
	buf := make([]byte, SeedBytes)
	if _, err := rand.Read(buf); err != nil {
		return GameCommitment{}, fmt.Errorf("generate seed: %w", err)
	}
	seed := hex.EncodeToString(buf)
	return GameCommitment{Seed: seed, Commitment: s.Commit(seed), Scheme: s}, nil
}

// GenerateCommitment is Generate with the default scheme.
func GenerateCommitment() (GameCommitment, error) {
	return SHA256.Generate()
}

// HandSeed derives hand n's shuffle seed. The separator keeps "ab"+"12" and
// "ab1"+"2" apart.
func HandSeed(seed string, handNumber int) string {
	return seed + ":" + strconv.Itoa(handNumber)
}

// Verify recomputes the commitment of a revealed seed. Malformed input is
// an error; a well-formed seed that does not hash to commitment is a result
// with Valid false.
func (s Scheme) Verify(commitment, seed string) (CommitmentResult, error) {
	want, err := decodeHex("commitment", commitment, sha256.Size)
	if err != nil {
		return CommitmentResult{}, err
	}
	if err := checkSeed(seed); err != nil {
		return CommitmentResult{}, err
	}
	got := s.digest(seed)
	res := CommitmentResult{
		Valid:      subtle.ConstantTimeCompare(want, got) == 1,
		Scheme:     s,
		Commitment: hex.EncodeToString(want),
		Computed:   hex.EncodeToString(got),
	}
	if !res.Valid {
		res.Reason = ReasonHashMismatch
	}
	return res, nil
}

// VerifyCommitment is Verify with the default scheme.
func VerifyCommitment(commitment, seed string) (CommitmentResult, error) {
	return SHA256.Verify(commitment, seed)
}

func checkSeed(seed string) error {
	_, err := decodeHex("seed", seed, SeedBytes)
	return err
}

func decodeHex(field, value string, size int) ([]byte, error) {
	if len(value) != size*2 {
		return nil, &FormatError{Field: field, Value: value, Reason: fmt.Sprintf("want %d hex characters, got %d", size*2, len(value))}
	}
	b, err := hex.DecodeString(value)
	if err != nil {
		return nil, &FormatError{Field: field, Value: value, Reason: "not hexadecimal"}
	}
	return b, nil
}
