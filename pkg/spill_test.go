package pkg

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpill(t *testing.T) {
	t.Run("NewSpill", func(t *testing.T) {
		spill, err := NewSpill[int]()
		require.NoError(t, err)
		require.NotNil(t, spill)
		defer spill.Close()

		require.Equal(t, uint64(0), spill.Len())
	})

	t.Run("Append and Range preserve order", func(t *testing.T) {
		spill, err := NewSpill[string]()
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.Append("first"))
		require.NoError(t, spill.Append("second"))
		require.NoError(t, spill.Append("third"))
		require.Equal(t, uint64(3), spill.Len())

		var items []string

		err = spill.Range(func(index uint64, item string) error {
			require.Equal(t, uint64(len(items)), index)
			items = append(items, item)

			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []string{"first", "second", "third"}, items)
	})

	t.Run("Range can replay repeatedly", func(t *testing.T) {
		spill, err := NewSpill[int]()
		require.NoError(t, err)
		defer spill.Close()

		for i := 0; i < 5; i++ {
			require.NoError(t, spill.Append(i*i))
		}

		for i := 0; i < 2; i++ {
			var got []int

			err = spill.Range(func(_ uint64, item int) error {
				got = append(got, item)
				return nil
			})
			require.NoError(t, err)
			require.Equal(t, []int{0, 1, 4, 9, 16}, got)
		}
	})

	t.Run("Range stops at callback error", func(t *testing.T) {
		spill, err := NewSpill[int]()
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.Append(1))
		require.NoError(t, spill.Append(2))

		stop := errors.New("stop")
		var seen int

		err = spill.Range(func(_ uint64, _ int) error {
			seen++
			return stop
		})
		require.ErrorIs(t, err, stop)
		require.Equal(t, 1, seen)
	})

	t.Run("Spill works with struct types", func(t *testing.T) {
		type record struct {
			Name  string
			Count int
		}

		spill, err := NewSpill[record]()
		require.NoError(t, err)
		defer spill.Close()

		require.NoError(t, spill.Append(record{Name: "a", Count: 1}))
		require.NoError(t, spill.Append(record{Name: "b", Count: 2}))

		var got []record

		err = spill.Range(func(_ uint64, item record) error {
			got = append(got, item)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, []record{{Name: "a", Count: 1}, {Name: "b", Count: 2}}, got)
	})

	t.Run("Close removes the backing file", func(t *testing.T) {
		spill, err := NewSpill[int]()
		require.NoError(t, err)
		require.NoError(t, spill.Append(42))

		path := spill.(*spillImpl[int]).path
		_, err = os.Stat(path)
		require.NoError(t, err)

		require.NoError(t, spill.Close())

		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})
}
