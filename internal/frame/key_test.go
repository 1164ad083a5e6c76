package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigest(t *testing.T) {
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Digest("abc"))
	assert.Len(t, Digest(""), DigestLen)
}

func TestBindVerify(t *testing.T) {
	payload := Bind("abc", "hi")
	assert.Equal(t, Digest("abc")+"|||hi", string(payload))

	msg, err := Verify(payload, "abc")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg)
}

func TestVerifyKeepsDelimiterInMessage(t *testing.T) {
	msg, err := Verify(Bind("k", "a|||b"), "k")
	require.NoError(t, err)
	assert.Equal(t, "a|||b", msg)
}

func TestVerifyWrongKey(t *testing.T) {
	_, err := Verify(Bind("abc", "hi"), "xyz")
	var mismatch *KeyMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestVerifyMalformed(t *testing.T) {
	cases := map[string][]byte{
		"no delimiter":  []byte("just some bytes"),
		"short digest":  []byte("abcd|||hi"),
		"not hex":       []byte("zz" + Digest("k")[2:] + "|||hi"),
		"empty payload": {},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Verify(payload, "k")
			var malformed *MalformedError
			assert.ErrorAs(t, err, &malformed)
		})
	}
}
