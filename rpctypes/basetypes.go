package rpctypes

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/holiman/uint256"
)

type BytesHexStr []byte

func (s *BytesHexStr) UnmarshalText(b []byte) error {
	if s == nil {
		return fmt.Errorf("cannot unmarshal bytes into nil")
	}
	if len(b) >= 2 && b[0] == '0' && b[1] == 'x' {
		b = b[2:]
	}
	out := make([]byte, len(b)/2)
	if _, err := hex.Decode(out, b); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s *BytesHexStr) UnmarshalJSON(b []byte) error {
	if s == nil {
		return fmt.Errorf("cannot unmarshal bytes into nil")
	}
	var tmpStr string
	if err := json.Unmarshal(b, &tmpStr); err != nil {
		return fmt.Errorf("invalid hex string: %w", err)
	}
	return s.UnmarshalText([]byte(tmpStr))
}

func (s BytesHexStr) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"0x%x\"", []byte(s))), nil
}

func (s BytesHexStr) String() string {
	return fmt.Sprintf("0x%x", []byte(s))
}

type Uint64Str uint64

func (s *Uint64Str) UnmarshalJSON(b []byte) error {
	return Uint64Unmarshal((*uint64)(s), b)
}

func (s Uint64Str) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%d\"", uint64(s))), nil
}

// Parse a uint64, with or without quotes, in any base, with common prefixes accepted to change base.
func Uint64Unmarshal(v *uint64, b []byte) error {
	if v == nil {
		return errors.New("nil dest in uint64 decoding")
	}
	if len(b) == 0 {
		return errors.New("empty uint64 input")
	}
	if b[0] == '"' || b[0] == '\'' {
		if len(b) == 1 || b[len(b)-1] != b[0] {
			return errors.New("uneven/missing quotes")
		}
		b = b[1 : len(b)-1]
	}
	n, err := strconv.ParseUint(string(b), 0, 64)
	if err != nil {
		return err
	}
	*v = n
	return nil
}

// BigIntStr is a quoted decimal integer of up to 256 bits (eg. genesis_time)
type BigIntStr struct {
	uint256.Int
}

func (s *BigIntStr) UnmarshalJSON(b []byte) error {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	if len(b) == 0 {
		return errors.New("empty integer input")
	}
	return s.Int.SetFromDecimal(string(b))
}

func (s BigIntStr) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", s.Int.Dec())), nil
}
