// Package cursor encodes DynamoDB page boundaries as opaque pagination tokens.
//
// A token is the base64url encoding of a small versioned JSON document
// holding the last evaluated key of the previous page. It is self-describing
// rather than a raw pass-through of the store key, so the table's key schema
// never leaks to callers and a schema change invalidates old tokens cleanly
// instead of resuming from a wrong position. Tokens are good for one logical
// pagination session and must not be persisted.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrMalformed is returned when a token cannot be decoded. Tampered,
// truncated or stale-version tokens all land here; none of them ever
// resolve to a page.
var ErrMalformed = errors.New("shelf: malformed pagination token")

// version tags the token layout. Bump it when the key schema changes so
// outstanding tokens fail decode instead of resuming somewhere wrong.
const version = 1

type token struct {
	V   int               `json:"v"`
	Key map[string]string `json:"k"`
}

// Encode converts a last-evaluated key into an opaque URL-safe token.
// All catalog key attributes (productId, category, brand, name) are
// strings; any other attribute type refuses to encode.
func Encode(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", errors.New("shelf: empty page key")
	}

	t := token{V: version, Key: make(map[string]string, len(key))}
	for name, av := range key {
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("shelf: key attribute %s is not a string", name)
		}
		t.Key[name] = s.Value
	}

	data, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode converts a token back into the key it was encoded from.
// decode(encode(k)) == k for any key Encode accepts.
func Decode(s string) (map[string]types.AttributeValue, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}

	var t token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if t.V != version || len(t.Key) == 0 {
		return nil, ErrMalformed
	}

	key := make(map[string]types.AttributeValue, len(t.Key))
	for name, value := range t.Key {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
