package chunker

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, c Chunker) [][]byte {
	var chunks [][]byte
	for {
		b, err := c.Next()
		if err == io.EOF {
			return chunks
		}
		require.NoError(t, err)
		chunks = append(chunks, b)
	}
}

func TestFixedSizeBoundaries(t *testing.T) {
	factory, err := FixedSize(MinLeafSize)
	require.NoError(t, err)

	data := bytes.Repeat([]byte("x"), int(MinLeafSize)*2+100)
	chunks := collect(t, factory(bytes.NewReader(data)))

	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], int(MinLeafSize))
	require.Len(t, chunks[1], int(MinLeafSize))
	require.Len(t, chunks[2], 100)

	var joined []byte
	for _, c := range chunks {
		joined = append(joined, c...)
	}
	require.Equal(t, data, joined)
}

func TestFixedSizeDeterministic(t *testing.T) {
	factory, err := FixedSize(MinLeafSize)
	require.NoError(t, err)

	data := bytes.Repeat([]byte("abcd"), int(MinLeafSize))
	first := collect(t, factory(bytes.NewReader(data)))
	second := collect(t, factory(bytes.NewReader(data)))
	require.Equal(t, first, second)
}

func TestFixedSizeEmptyInput(t *testing.T) {
	factory, err := FixedSize(MinLeafSize)
	require.NoError(t, err)
	chunks := collect(t, factory(bytes.NewReader(nil)))
	require.Empty(t, chunks)
}

func TestLeafSizeValidation(t *testing.T) {
	_, err := FixedSize(MinLeafSize - 1)
	require.Error(t, err)
	_, err = FixedSize(MaxLeafSize + 1)
	require.Error(t, err)
	_, err = Rabin(MinLeafSize - 1)
	require.Error(t, err)
}

func TestDefaultFactory(t *testing.T) {
	chunks := collect(t, Default()(bytes.NewReader([]byte("tiny"))))
	require.Len(t, chunks, 1)
	require.Equal(t, []byte("tiny"), chunks[0])
}
