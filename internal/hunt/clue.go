// Package hunt implements the treasure hunt core: the clue catalog, clue
// arrangements, per-team sessions and scoring. It performs no I/O apart from
// reading catalog files and is not safe for concurrent use.
package hunt

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v3"
)

// Digest is the SHA3-256 digest of a clue answer.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// AnswerDigest hashes an answer exactly as given. No trimming or case folding
// is applied, so "Bell" and "bell " are different answers.
func AnswerDigest(answer string) Digest {
	return sha3.Sum256([]byte(answer))
}

// Clue is immutable once the catalog is loaded.
type Clue struct {
	Location   string
	Poem       string
	Hint       string
	Item       string
	SecretHash Digest
}

// ID is an opaque, stable identifier for the clue. It does not reveal
// anything about the answer.
func (c Clue) ID() string {
	sum := sha3.Sum256([]byte(c.Location + "\x00" + c.Poem))
	return hex.EncodeToString(sum[:8])
}

// ClueRecord is the on-disk form of a clue.
type ClueRecord struct {
	Poem     string `json:"poem" yaml:"poem"`
	Hint     string `json:"hint" yaml:"hint"`
	Item     string `json:"item" yaml:"item"`
	Location string `json:"location" yaml:"location"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Catalog is the full set of clues for a hunt.
type Catalog []Clue

// NewCatalog hashes every answer and drops the plaintext.
func NewCatalog(records []ClueRecord) Catalog {
	clues := make(Catalog, 0, len(records))
	for _, r := range records {
		clues = append(clues, Clue{
			Location:   r.Location,
			Poem:       r.Poem,
			Hint:       r.Hint,
			Item:       r.Item,
			SecretHash: AnswerDigest(r.Answer),
		})
	}
	return clues
}

// ReadCatalog loads a catalog from a JSON or YAML file, chosen by extension.
func ReadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var records []ClueRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog %s has no clues", path)
	}
	return NewCatalog(records), nil
}

// Locations returns the number of clues per location.
func (c Catalog) Locations() map[string]int {
	counts := make(map[string]int)
	for _, clue := range c {
		counts[clue.Location]++
	}
	return counts
}
