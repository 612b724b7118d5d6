package ports

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"go.bug.st/serial"
)

// Open connects to a serial digitizer printing trace lines.
func Open(path string) (r io.Reader, closer func(), err error) {
	port, err := serial.Open(path, &serial.Mode{
		BaudRate: 115200,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not open serial port %s: %w", path, err)
	}

	c := func() {
		if err := port.Close(); err != nil {
			slog.Error("Could not close serial port", "path", path, "error", err)
		}
	}

	if err := port.SetReadTimeout(serial.NoTimeout); err != nil {
		c()

		return nil, nil, fmt.Errorf("could not configure serial port %s: %w", path, err)
	}

	return port, c, nil
}

// ReadFile sends every line of r to the returned channel, which is closed at the end of r.
func ReadFile(r io.Reader) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			out <- scanner.Text()
		}

		if err := scanner.Err(); err != nil {
			slog.Error("Could not read input", "error", err)
		}
	}()

	return out
}

// ReadAll merges the lines of every reader. The channel is closed once all of them ended.
func ReadAll(readers ...io.Reader) <-chan string {
	out := make(chan string)

	var wg sync.WaitGroup

	for _, r := range readers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for line := range ReadFile(r) {
				out <- line
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// OpenAll opens every serial port in paths and merges their lines.
func OpenAll(paths []string) (<-chan string, func(), error) {
	readers := make([]io.Reader, 0, len(paths))
	closers := make([]func(), 0, len(paths))

	closer := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, p := range paths {
		r, c, err := Open(p)
		if err != nil {
			closer()

			return nil, nil, err
		}

		readers = append(readers, r)
		closers = append(closers, c)
	}

	return ReadAll(readers...), closer, nil
}

// LooksLikeDigitizer reports whether path names a USB serial device.
func LooksLikeDigitizer(path string) bool {
	name := path[strings.LastIndex(path, "/")+1:]

	return strings.HasPrefix(name, "tty.usbmodem") ||
		strings.HasPrefix(name, "ttyACM") ||
		strings.HasPrefix(name, "ttyUSB")
}

// GetAvailableDevices lists serial ports that look like digitizers.
func GetAvailableDevices() ([]string, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("could not list serial ports: %w", err)
	}

	result := make([]string, 0, len(names))

	for _, n := range names {
		if LooksLikeDigitizer(n) {
			result = append(result, n)
		}
	}

	return result, nil
}
