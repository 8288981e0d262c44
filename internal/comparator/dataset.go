package comparator

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	pkgerrors "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/errors"
)

// PostingList carries the delta-encoded document gaps and the parallel
// term-frequency sequence of a single term's posting list. Both sequences
// hold values >= 1: gaps between distinct sorted document IDs are never
// zero, and a posting implies at least one occurrence.
type PostingList struct {
	Term        string   `json:"term,omitempty"`
	Gaps        []uint64 `json:"gaps"`
	Frequencies []uint64 `json:"frequencies"`
}

// Dataset is the collection of posting lists a comparison runs over.
type Dataset struct {
	PostingLists []PostingList `json:"posting_lists"`
}

// LoadFile reads and validates a JSON dataset file.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset file %s: %w", path, err)
	}
	var d Dataset
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", pkgerrors.ErrInvalidDataset, path, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate enforces the dataset contract: at least one posting list,
// parallel gap/frequency lengths, and all values >= 1.
func (d *Dataset) Validate() error {
	if len(d.PostingLists) == 0 {
		return fmt.Errorf("%w: no posting lists", pkgerrors.ErrInvalidDataset)
	}
	for i, pl := range d.PostingLists {
		if len(pl.Gaps) != len(pl.Frequencies) {
			return fmt.Errorf("%w: posting list %d has %d gaps but %d frequencies",
				pkgerrors.ErrInvalidDataset, i, len(pl.Gaps), len(pl.Frequencies))
		}
		for j, g := range pl.Gaps {
			if g == 0 {
				return fmt.Errorf("%w: posting list %d gap %d is zero",
					pkgerrors.ErrInvalidDataset, i, j)
			}
		}
		for j, f := range pl.Frequencies {
			if f == 0 {
				return fmt.Errorf("%w: posting list %d frequency %d is zero",
					pkgerrors.ErrInvalidDataset, i, j)
			}
		}
	}
	return nil
}

// Values returns the total number of integers across both fields.
func (d *Dataset) Values() int {
	total := 0
	for _, pl := range d.PostingLists {
		total += len(pl.Gaps) + len(pl.Frequencies)
	}
	return total
}

// Checksum returns a hex SHA-256 over the dataset's canonical JSON form,
// used as the run identity for caching and report keys.
func (d *Dataset) Checksum() string {
	data, _ := json.Marshal(d)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
