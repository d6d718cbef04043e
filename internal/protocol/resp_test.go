package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readOne(t *testing.T, input string) Value {
	t.Helper()
	val, err := NewReader(bytes.NewBufferString(input)).ReadValue()
	require.NoError(t, err)
	return val
}

func TestReader_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Value
	}{
		{"simple string", "+OK\r\n", Value{Type: TypeSimpleString, Str: "OK"}},
		{"error", "-WRONGTYPE bad\r\n", Value{Type: TypeError, Str: "WRONGTYPE bad"}},
		{"integer", ":1000\r\n", Value{Type: TypeInteger, Num: 1000}},
		{"negative integer", ":-100\r\n", Value{Type: TypeInteger, Num: -100}},
		{"bulk string", "$5\r\nhello\r\n", Value{Type: TypeBulkString, Str: "hello"}},
		{"empty bulk string", "$0\r\n\r\n", Value{Type: TypeBulkString, Str: ""}},
		{"null bulk string", "$-1\r\n", Value{Type: TypeBulkString, Null: true}},
		{"null array", "*-1\r\n", Value{Type: TypeArray, Null: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readOne(t, tt.input))
		})
	}
}

func TestReader_Limits(t *testing.T) {
	for _, input := range []string{"$536870913\r\n", "*1000001\r\n", "$-5\r\n", ":abc\r\n"} {
		_, err := NewReader(bytes.NewBufferString(input)).ReadValue()
		assert.ErrorIs(t, err, ErrInvalidProtocol, input)
	}
}

func TestReader_Array(t *testing.T) {
	val := readOne(t, "*3\r\n$4\r\nlpush\r\n$5\r\nqueue\r\n$3\r\njob\r\n")
	require.Len(t, val.Array, 3)

	name, args, ok := val.Command()
	assert.True(t, ok)
	assert.Equal(t, "LPUSH", name)
	assert.Equal(t, []string{"queue", "job"}, args)

	_, _, ok = readOne(t, "*0\r\n").Command()
	assert.False(t, ok)
}

func TestReader_NestedArray(t *testing.T) {
	val := readOne(t, "*2\r\n*2\r\n$1\r\na\r\n$1\r\nb\r\n*1\r\n$1\r\nc\r\n")
	require.Len(t, val.Array, 2)
	assert.Len(t, val.Array[0].Array, 2)
	assert.Len(t, val.Array[1].Array, 1)
}

func TestReader_Inline(t *testing.T) {
	r := NewReader(bytes.NewBufferString("set  greeting hello\r\nPING\n"))

	val, err := r.ReadValue()
	require.NoError(t, err)
	name, args, ok := val.Command()
	assert.True(t, ok)
	assert.Equal(t, "SET", name)
	assert.Equal(t, []string{"greeting", "hello"}, args)

	val, err = r.ReadValue()
	require.NoError(t, err)
	name, args, _ = val.Command()
	assert.Equal(t, "PING", name)
	assert.Empty(t, args)

	_, err = NewReader(bytes.NewBufferString("   \r\n")).ReadValue()
	assert.ErrorIs(t, err, ErrInvalidProtocol)
}

func TestWriter_Replies(t *testing.T) {
	tests := []struct {
		name  string
		write func(w *Writer) error
		want  string
	}{
		{"ok", func(w *Writer) error { return w.WriteSimpleString("OK") }, "+OK\r\n"},
		{"simple", func(w *Writer) error { return w.WriteSimpleString("PONG") }, "+PONG\r\n"},
		{"error", func(w *Writer) error { return w.WriteError("syntax error") }, "-ERR syntax error\r\n"},
		{"error code", func(w *Writer) error { return w.WriteErrorCode("WRONGTYPE", "bad kind") }, "-WRONGTYPE bad kind\r\n"},
		{"integer", func(w *Writer) error { return w.WriteInteger(-7) }, ":-7\r\n"},
		{"bulk", func(w *Writer) error { return w.WriteBulkString("hello") }, "$5\r\nhello\r\n"},
		{"null", func(w *Writer) error { return w.WriteNull() }, "$-1\r\n"},
		{"null array", func(w *Writer) error { return w.WriteNullArray() }, "*-1\r\n"},
		{"string array", func(w *Writer) error { return w.WriteStringArray([]string{"key1", "key2"}) }, "*2\r\n$4\r\nkey1\r\n$4\r\nkey2\r\n"},
		{"empty array", func(w *Writer) error { return w.WriteStringArray([]string{}) }, "*0\r\n"},
		{"array with nulls", func(w *Writer) error {
			return w.WriteArrayWithNulls([]string{"a", "", "c"}, []bool{true, false, true})
		}, "*3\r\n$1\r\na\r\n$-1\r\n$1\r\nc\r\n"},
		{"header", func(w *Writer) error { return w.WriteArrayHeader(2) }, "*2\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.write(NewWriter(&buf)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriter_ManualFlush(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.SetAutoFlush(false)

	require.NoError(t, w.WriteInteger(1))
	require.NoError(t, w.WriteInteger(2))
	assert.Equal(t, 0, buf.Len())

	require.NoError(t, w.Flush())
	assert.Equal(t, ":1\r\n:2\r\n", buf.String())
}
