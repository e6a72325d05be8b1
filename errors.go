package rsmarisa

import (
	"errors"
	"fmt"

	"github.com/tokuhirom/rsmarisa/internal/trie"
	"github.com/tokuhirom/rsmarisa/persistence"
)

var (
	// ErrNotBuilt is returned when an operation needs a built trie.
	ErrNotBuilt = errors.New("trie has not been built")

	// ErrClosed is returned when a trie is used after Close.
	ErrClosed = errors.New("trie is closed")

	// ErrDuplicateKey is returned by a build that rejects duplicates.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrBuildLimit is returned when a key set exceeds what the node
	// record format can address.
	ErrBuildLimit = errors.New("key set exceeds format limits")

	// ErrCorrupted is returned when serialized data fails validation.
	// The specific failure is accessible via errors.Unwrap.
	ErrCorrupted = errors.New("corrupted trie data")
)

// ErrInvalidID indicates a reverse lookup with an id outside
// [0, NumKeys).
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidID struct {
	ID      uint32
	NumKeys uint64
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("invalid key id: %d (have %d keys)", e.ID, e.NumKeys)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dup *trie.DuplicateKeyError
	if errors.As(err, &dup) {
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	}
	if errors.Is(err, trie.ErrTooManyNodes) || errors.Is(err, trie.ErrTailTooLarge) {
		return fmt.Errorf("%w: %w", ErrBuildLimit, err)
	}

	// Load-side unification.
	if errors.Is(err, trie.ErrMalformed) {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	var fe *persistence.FormatError
	if errors.As(err, &fe) {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}
	var cm *persistence.ChecksumMismatchError
	if errors.As(err, &cm) {
		return fmt.Errorf("%w: %w", ErrCorrupted, err)
	}

	return err
}
