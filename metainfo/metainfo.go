// Package metainfo parses and produces BitTorrent metainfo (.torrent)
// files through the bencode typed marshalling layer.
package metainfo

import (
	"crypto/sha1"
	"errors"
	"os"

	pkgerrors "github.com/pkg/errors"

	"github.com/trendt/trendt/bencode"
	"github.com/trendt/trendt/pkg/log"
)

// PieceHashLen is the length of one SHA-1 piece hash in the pieces blob.
const PieceHashLen = sha1.Size

// ErrInvalidPieceLength is returned when a torrent declares a non-positive
// piece length.
var ErrInvalidPieceLength = errors.New("metainfo: piece length must be positive")

// ErrInvalidPieces is returned when the pieces blob is not a whole number
// of SHA-1 hashes.
var ErrInvalidPieces = errors.New("metainfo: pieces is not a multiple of 20 bytes")

// A Torrent is the top-level metainfo dictionary.
//
// Announce and Info are required by the format; the remaining fields may be
// absent and stay absent when re-encoded.
type Torrent struct {
	Announce     string     `bencode:"announce"`
	AnnounceList [][]string `bencode:"announce-list,omitempty"`
	CreationDate *int64     `bencode:"creation date"`
	Comment      *string    `bencode:"comment"`
	CreatedBy    *string    `bencode:"created by"`
	Info         Info       `bencode:"info"`
}

// An Info is the file metadata dictionary of a single-file torrent.
//
// Pieces holds the concatenated SHA-1 hashes of all pieces and is bound as
// an opaque blob; it is never valid text.
type Info struct {
	Name        string `bencode:"name"`
	PieceLength int64  `bencode:"piece length"`
	Pieces      []byte `bencode:"pieces"`
	Length      *int64 `bencode:"length"`
}

// Parse decodes a torrent from raw metainfo bytes and validates its piece
// geometry.
func Parse(data []byte) (*Torrent, error) {
	var t Torrent
	if err := bencode.Unmarshal(data, &t); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal metainfo")
	}
	if err := t.Info.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseFile reads and parses the torrent file at path. I/O failures surface
// as file errors, distinct from bencode errors.
func ParseFile(path string) (*Torrent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read torrent file")
	}

	t, err := Parse(data)
	if err != nil {
		return nil, err
	}

	log.Debug("parsed torrent file", log.Fields{
		"path":   path,
		"name":   t.Info.Name,
		"pieces": len(t.Info.Pieces) / PieceHashLen,
	})
	return t, nil
}

// Marshal re-encodes the torrent as canonical bencode.
func (t *Torrent) Marshal() ([]byte, error) {
	if err := t.Info.validate(); err != nil {
		return nil, err
	}
	return bencode.Marshal(t)
}

func (info *Info) validate() error {
	if info.PieceLength <= 0 {
		return ErrInvalidPieceLength
	}
	if len(info.Pieces)%PieceHashLen != 0 {
		return ErrInvalidPieces
	}
	return nil
}

// Hash returns the SHA-1 of the bencoded info dictionary. The encoder
// always emits dictionary keys in ascending order, so the encoding — and
// therefore the hash — is canonical.
func (info *Info) Hash() ([PieceHashLen]byte, error) {
	encoded, err := bencode.Marshal(info)
	if err != nil {
		return [PieceHashLen]byte{}, err
	}
	return sha1.Sum(encoded), nil
}

// PieceHashes splits the pieces blob into its per-piece SHA-1 hashes.
func (info *Info) PieceHashes() ([][PieceHashLen]byte, error) {
	if len(info.Pieces)%PieceHashLen != 0 {
		return nil, ErrInvalidPieces
	}
	hashes := make([][PieceHashLen]byte, 0, len(info.Pieces)/PieceHashLen)
	for off := 0; off < len(info.Pieces); off += PieceHashLen {
		var h [PieceHashLen]byte
		copy(h[:], info.Pieces[off:off+PieceHashLen])
		hashes = append(hashes, h)
	}
	return hashes, nil
}
