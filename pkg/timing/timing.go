package timing

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gilchrisn/graph-inference-eval/pkg/models"
)

// Usage is the resource usage reported by `time -v`, in seconds
type Usage struct {
	User   float64 `json:"user" csv:"user_seconds"`
	System float64 `json:"system" csv:"system_seconds"`
	Wall   float64 `json:"wall" csv:"wall_seconds"`
	Files  int     `json:"files" csv:"files"`
}

// CPU returns user plus system time
func (u Usage) CPU() float64 {
	return u.User + u.System
}

// Add accumulates another report
func (u Usage) Add(other Usage) Usage {
	return Usage{
		User:   u.User + other.User,
		System: u.System + other.System,
		Wall:   u.Wall + other.Wall,
		Files:  u.Files + other.Files,
	}
}

const (
	userPrefix    = "User time (seconds):"
	systemPrefix  = "System time (seconds):"
	elapsedPrefix = "Elapsed (wall clock) time"
)

// ParseFile reads one GNU `time -v` report
func ParseFile(path string) (Usage, error) {
	file, err := os.Open(path)
	if err != nil {
		return Usage{}, &models.FileAccessError{Path: path, Err: err}
	}
	defer file.Close()

	return parse(path, file)
}

func parse(path string, r io.Reader) (Usage, error) {
	var (
		usage             Usage
		haveUser, haveSys bool
		lineNum           int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		var err error
		switch {
		case strings.HasPrefix(line, userPrefix):
			usage.User, err = parseSeconds(strings.TrimPrefix(line, userPrefix))
			haveUser = true
		case strings.HasPrefix(line, systemPrefix):
			usage.System, err = parseSeconds(strings.TrimPrefix(line, systemPrefix))
			haveSys = true
		case strings.HasPrefix(line, elapsedPrefix):
			// "Elapsed (wall clock) time (h:mm:ss or m:ss): 0:01.52"
			idx := strings.LastIndex(line, "): ")
			if idx < 0 {
				err = fmt.Errorf("missing elapsed time value")
				break
			}
			usage.Wall, err = parseClock(line[idx+3:])
		}

		if err != nil {
			return Usage{}, &models.FormatError{Path: path, Line: lineNum, Message: err.Error()}
		}
	}
	if err := scanner.Err(); err != nil {
		return Usage{}, &models.FileAccessError{Path: path, Err: err}
	}

	if !haveUser || !haveSys {
		return Usage{}, &models.FormatError{Path: path, Message: "not a `time -v` report: user or system time missing"}
	}

	usage.Files = 1
	return usage, nil
}

func parseSeconds(value string) (float64, error) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seconds %q", strings.TrimSpace(value))
	}
	return seconds, nil
}

// parseClock parses h:mm:ss or m:ss.ss
func parseClock(value string) (float64, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid elapsed time %q", value)
	}

	total := 0.0
	for _, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid elapsed time %q", value)
		}
		total = total*60 + v
	}
	return total, nil
}

// Collect sums every report in dir matching pattern. Algorithms that run once
// per trajectory leave one report per run.
func Collect(dir, pattern string) (Usage, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return Usage{}, fmt.Errorf("invalid time file pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return Usage{}, &models.FileAccessError{Path: filepath.Join(dir, pattern), Err: fs.ErrNotExist}
	}
	sort.Strings(matches)

	var total Usage
	for _, path := range matches {
		usage, err := ParseFile(path)
		if err != nil {
			return Usage{}, err
		}
		total = total.Add(usage)
	}
	return total, nil
}
