package ports_test

import (
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/dasdy/softkeys/touchlog/ports"
	"github.com/stretchr/testify/assert"
)

func readChanLines(c <-chan string) []string {
	result := make([]string, 0)

	for line := range c {
		result = append(result, line)
	}

	return result
}

func TestReadFile(t *testing.T) {
	t.Run("should handle non-empty file", func(t *testing.T) {
		lines := readChanLines(ports.ReadFile(strings.NewReader("a\nb\nc\n")))

		assert.Equal(t, []string{"a", "b", "c"}, lines)
	})

	t.Run("should handle empty file", func(t *testing.T) {
		lines := readChanLines(ports.ReadFile(strings.NewReader("")))

		assert.Equal(t, []string{}, lines)
	})
}

func TestReadAll(t *testing.T) {
	testCases := []struct {
		name     string
		inputs   []string
		expected []string
	}{
		{"two non-empty files", []string{"aa\nbb\ncc\n", "ab\nba\ncd\n"}, []string{"aa", "ab", "ba", "bb", "cc", "cd"}},
		{"first file empty", []string{"", "aa\nbb\n"}, []string{"aa", "bb"}},
		{"second file empty", []string{"aa\nbb\n", ""}, []string{"aa", "bb"}},
		{"no files", nil, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			readers := make([]io.Reader, 0, len(tc.inputs))
			for _, in := range tc.inputs {
				readers = append(readers, strings.NewReader(in))
			}

			lines := readChanLines(ports.ReadAll(readers...))
			sort.Strings(lines)

			assert.Equal(t, tc.expected, lines)
		})
	}
}

func TestLooksLikeDigitizer(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"/dev/tty.usbmodem12301", true},
		{"/dev/ttyACM0", true},
		{"/dev/ttyUSB1", true},
		{"/dev/ttyp1", false},
		{"/home/user/tty.usbmodem12301/ttyp1", false},
	}

	for _, v := range testCases {
		t.Run(v.path, func(t *testing.T) {
			assert.Equal(t, v.expected, ports.LooksLikeDigitizer(v.path))
		})
	}
}
