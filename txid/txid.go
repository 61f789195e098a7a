// Package txid converts the hex form an oracle stores on-chain into an Arweave
// transaction id and back.
//
// The on-chain form is hex of the ASCII text of another hex string, which in
// turn encodes the raw id bytes:
//
//	0x3061323361... -> "0a23a1..." -> 0x0a 0x23 0xa1 ... -> "CiOhWib4..."
package txid

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"

	"github.com/soyart/arweave-tx-resolver/entity"
)

const prefix = "0x"

var (
	ErrMissingInput = errors.New("no input provided")
	ErrDecode       = errors.New("bad hex identifier")
)

// Stage names reported by DecodeError
const (
	StageFirst  = "first"
	StageSecond = "second"
	StageKey    = "key"
)

// DecodeError matches ErrDecode with errors.Is, and unwraps to the
// underlying hexutil or base64 error.
type DecodeError struct {
	Stage string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s stage: %s", e.Stage, e.Err.Error())
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Normalize returns the first argument with exactly one leading "0x" removed.
// Only the lowercase prefix is recognised.
func Normalize(args []string) (string, error) {
	if len(args) == 0 || args[0] == "" {
		return "", ErrMissingInput
	}

	return strings.TrimPrefix(args[0], prefix), nil
}

// DecodeHex decodes one stage of unprefixed hex.
func DecodeHex(s string) ([]byte, error) {
	// hexutil maps hex errors to ErrOddLength and ErrSyntax
	return hexutil.Decode(prefix + s)
}

// DecodeDouble decodes s, then decodes the resulting text as hex again.
func DecodeDouble(s string) ([]byte, error) {
	first, err := DecodeHex(s)
	if err != nil {
		return nil, &DecodeError{Stage: StageFirst, Err: err}
	}

	second, err := DecodeHex(string(first))
	if err != nil {
		return nil, &DecodeError{Stage: StageSecond, Err: err}
	}

	if len(second) == 0 {
		return nil, &DecodeError{Stage: StageSecond, Err: errors.New("empty identifier")}
	}

	return second, nil
}

// Encode returns the unpadded base64url form of b.
func Encode(b []byte) entity.TxId {
	return entity.TxId(base64.RawURLEncoding.EncodeToString(b))
}

// Resolve runs the whole conversion on the CLI arguments.
//
// If the first stage yields a JSON ArweaveKey instead of hex text,
// the key's id is used as-is.
func Resolve(args []string) (entity.TxId, error) {
	input, err := Normalize(args)
	if err != nil {
		return "", err
	}

	first, err := DecodeHex(input)
	if err != nil {
		return "", &DecodeError{Stage: StageFirst, Err: err}
	}

	if key, ok := parseKey(first); ok {
		if _, err := base64.RawURLEncoding.DecodeString(key.Arweave); err != nil || key.Arweave == "" {
			if err == nil {
				err = errors.New("empty arweave key")
			}

			return "", &DecodeError{Stage: StageKey, Err: err}
		}

		return entity.TxId(key.Arweave), nil
	}

	raw, err := DecodeDouble(input)
	if err != nil {
		return "", err
	}

	return Encode(raw), nil
}

// ToHex is the inverse of Resolve for plain ids: it returns the
// 0x-prefixed hex of the hex text of id's raw bytes.
func ToHex(id entity.TxId) (string, error) {
	if id == "" {
		return "", &DecodeError{Stage: StageKey, Err: errors.New("empty transaction id")}
	}

	raw, err := base64.RawURLEncoding.DecodeString(id.String())
	if err != nil {
		return "", &DecodeError{Stage: StageKey, Err: errors.Wrapf(err, "bad base64url txid %s", id)}
	}

	return hexutil.Encode([]byte(hex.EncodeToString(raw))), nil
}

func parseKey(b []byte) (entity.ArweaveKey, bool) {
	var key entity.ArweaveKey
	if !bytes.HasPrefix(bytes.TrimSpace(b), []byte("{")) {
		return key, false
	}

	if err := json.Unmarshal(b, &key); err != nil {
		return key, false
	}

	return key, true
}
